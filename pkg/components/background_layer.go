package components

// LayerKind 背景层类型
type LayerKind int

const (
	// LayerStars 星空（最远）
	LayerStars LayerKind = iota
	// LayerFarMountains 远山
	LayerFarMountains
	// LayerNearMountains 近山
	LayerNearMountains
)

// String 返回背景层名称
func (k LayerKind) String() string {
	switch k {
	case LayerStars:
		return "stars"
	case LayerFarMountains:
		return "far-mountains"
	case LayerNearMountains:
		return "near-mountains"
	}
	return "unknown"
}

// LayerShape 背景层中的单个几何体（山峰或星星）
//
// 所有字段都是归一化值，渲染时按当前表面尺寸换算：
//   - X: 在视差环带上的位置 [0,1)
//   - Height: 山峰为地平线以上高度占地平线 Y 的比例；星星为距顶部的比例
//   - Width: 占屏幕宽度的比例
type LayerShape struct {
	X      float64
	Height float64
	Width  float64
}

// BackgroundLayer 初始化后只读的视差背景层
type BackgroundLayer struct {
	Kind     LayerKind
	Parallax float64 // 视角每变化 1 度，层横向移动的屏幕宽度百分比
	Shapes   []LayerShape
}
