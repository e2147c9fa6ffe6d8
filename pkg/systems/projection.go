package systems

import (
	"math"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
)

// depthEpsilon 深度比较的浮点容差
// 0.15 累加 10 次不一定精确等于 1.5
const depthEpsilon = 1e-9

// Viewport 当前 tick 的表面几何
//
// 每个 tick 根据表面尺寸重新计算，窗口缩放后地平线与中心自动更新。
type Viewport struct {
	Width    int
	Height   int
	CenterX  float64
	HorizonY float64
}

// NewViewport 根据表面尺寸构建视口
// 尺寸 <= 0（最小化或缩放竞争）时按 1 像素处理，保证后续计算不会除零
func NewViewport(width, height int, cfg config.ProjectionConfig) Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Viewport{
		Width:    width,
		Height:   height,
		CenterX:  float64(width) / 2,
		HorizonY: float64(height) * cfg.HorizonRatio,
	}
}

// Clamp 将屏幕坐标限制在表面范围内
func (v Viewport) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, float64(v.Width)), clamp(y, 0, float64(v.Height))
}

// MuzzlePosition 玩家枪口的屏幕位置（屏幕底部向上 ForwardOffsetY 像素）
func MuzzlePosition(player components.Player, vp Viewport) (float64, float64) {
	return vp.Clamp(vp.CenterX+player.X, float64(vp.Height)-player.Y)
}

// DepthScale 深度对应的视觉缩放 scale = z * k
func DepthScale(z float64, cfg config.ProjectionConfig) float64 {
	if z < 0 {
		return 0
	}
	return z * cfg.DepthScale
}

// ProjectEnemy 计算敌人的屏幕位置与缩放
//
//	screenX = centerX + (x - viewAngle*f) * scale
//	screenY = horizonY + (H - horizonY) * z * v
func ProjectEnemy(e components.Enemy, viewAngle float64, vp Viewport, cfg config.ProjectionConfig) (x, y, scale float64) {
	scale = DepthScale(e.Z, cfg)
	x = vp.CenterX + (e.X-viewAngle*cfg.AngleToOffset)*scale
	y = GroundY(e.Z, vp, cfg)
	x, y = vp.Clamp(x, y)
	return x, y, scale
}

// GroundY 深度 z 在地面透视上的屏幕高度（未裁剪）
func GroundY(z float64, vp Viewport, cfg config.ProjectionConfig) float64 {
	return vp.HorizonY + (float64(vp.Height)-vp.HorizonY)*z*cfg.VerticalFactor
}

// ProjectBullet 计算子弹的屏幕位置
//
// 纵向与敌人共用地面透视（GroundY），因此深度相同的正前方敌人与子弹总是重合；
// 横向从枪口向屏幕中心收拢，z=farClip 时到达中心线。
func ProjectBullet(b components.Bullet, vp Viewport, cfg config.ProjectionConfig, farClip float64) (float64, float64) {
	return projectBulletAt(b.OriginX, b.Z, vp, cfg, farClip)
}

func projectBulletAt(originX, z float64, vp Viewport, cfg config.ProjectionConfig, farClip float64) (float64, float64) {
	t := 0.0
	if farClip > 0 {
		t = clamp(z/farClip, 0, 1)
	}
	x := originX + (vp.CenterX-originX)*t
	return vp.Clamp(x, GroundY(math.Max(0, z), vp, cfg))
}

// sweptDepth 子弹本 tick 航迹 [PrevZ, Z] 上离 ez 最近的深度
//
// 子弹每 tick 前进 0.15，远处的敌人只有几个像素高，只取端点会整段跳过。
func sweptDepth(b components.Bullet, ez float64) float64 {
	lo, hi := b.PrevZ, b.Z
	if lo > hi {
		lo, hi = hi, lo
	}
	return clamp(ez, lo, hi)
}

// EnemySize 敌人在当前缩放下的碰撞尺寸（像素）
func EnemySize(t components.EnemyType, scale float64, cfg *config.BattleConfig) float64 {
	tc, ok := cfg.EnemyType(string(t))
	if !ok {
		return 0
	}
	return tc.Size * scale
}

// BulletRadius 子弹的绘制半径，随距离缩小
func BulletRadius(b components.Bullet, farClip float64) float64 {
	remaining := 1.0
	if farClip > 0 {
		remaining = 1 - clamp(b.Z/farClip, 0, 1)
	}
	return math.Max(1, 4*b.Scale*remaining)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
