package components

import "image/color"

// Particle 爆炸碎片粒子
//
// 纯装饰数据，不参与任何玩法判定。坐标为屏幕坐标（像素），
// Life 以 tick 为单位递减，<= 0 时被移除。
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
	Color   color.RGBA
}

// Alpha 根据剩余寿命返回透明度 [0,1]
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	a := p.Life / p.MaxLife
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
