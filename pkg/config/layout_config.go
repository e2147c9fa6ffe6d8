package config

// 布局配置常量
// 本文件定义窗口尺寸与 HUD 元素位置。战场本身的投影参数在 battle_config.go 中，
// 它们会随窗口尺寸变化而重新计算，这里只保留与尺寸无关的固定布局。

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 默认窗口宽度（逻辑像素）
	GameWindowWidth = 960

	// GameWindowHeight 默认窗口高度（逻辑像素）
	GameWindowHeight = 600

	// MinSurfaceWidth 绘图表面最小宽度，小于该值视为不可用
	MinSurfaceWidth = 64

	// MinSurfaceHeight 绘图表面最小高度
	MinSurfaceHeight = 48
)

// HUD Layout (HUD 布局)
const (
	// RadarRadius 雷达半径（像素）
	RadarRadius = 56.0

	// RadarMargin 雷达距离窗口左下角的边距
	RadarMargin = 16.0

	// RadarRange 雷达可视的横向范围（世界单位），超出的敌人贴在边缘
	RadarRange = 240.0

	// CompassWidth 顶部罗盘条宽度
	CompassWidth = 360.0

	// CompassHeight 罗盘条高度
	CompassHeight = 22.0

	// CompassDegreesVisible 罗盘条上可见的角度范围
	CompassDegreesVisible = 90.0

	// HealthPipSize 生命值方块边长
	HealthPipSize = 14.0

	// CrosshairSize 准星半长
	CrosshairSize = 10.0

	// HUDMargin HUD 文字边距
	HUDMargin = 12
)

// GetRadarCenter 返回雷达中心的屏幕坐标
// 雷达固定在左下角，随窗口高度变化
func GetRadarCenter(surfaceHeight int) (float64, float64) {
	return RadarMargin + RadarRadius, float64(surfaceHeight) - RadarMargin - RadarRadius
}
