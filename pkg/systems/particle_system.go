package systems

import (
	"image/color"
	"math"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
)

// EnemyPalette 返回敌人类型的爆炸两色调色板与机体颜色
// 类型未配置时返回洋红色，便于在画面上发现配置错误
func EnemyPalette(cfg *config.BattleConfig, t components.EnemyType) (palette [2]color.RGBA, body color.RGBA) {
	tc, ok := cfg.EnemyType(string(t))
	if !ok {
		return [2]color.RGBA{config.MissingColor, config.MissingColor}, config.MissingColor
	}
	return tc.Colors()
}

// EmitBurst 在屏幕位置 (x, y) 生成一次爆炸粒子
//
// 粒子数量固定为 BurstCount，速度方向落在以正上方为轴、张角 ConeDegree 的锥内，
// 颜色在两色调色板中随机选择。达到 MaxParticles 上限后多余的粒子被丢弃。
// 返回实际生成的数量。
func EmitBurst(w *game.WorldState, x, y float64, palette [2]color.RGBA) int {
	pc := w.Config.Particles
	rng := w.Rand

	emitted := 0
	for i := 0; i < pc.BurstCount; i++ {
		if len(w.Particles) >= w.Config.Limits.MaxParticles {
			break
		}

		// 屏幕坐标系 Y 向下，-90° 为正上方
		angle := (-90 + (rng.Float64()-0.5)*pc.ConeDegree) * math.Pi / 180
		speed := pc.MinSpeed + rng.Float64()*(pc.MaxSpeed-pc.MinSpeed)
		life := float64(pc.MinLife + rng.Intn(pc.MaxLife-pc.MinLife+1))

		w.Particles = append(w.Particles, components.Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    life,
			MaxLife: life,
			Color:   palette[rng.Intn(2)],
		})
		emitted++
	}
	return emitted
}

// AdvanceParticles 粒子运动：位移 → 重力 → 寿命递减，寿命耗尽即移除
func AdvanceParticles(w *game.WorldState, dt float64) {
	gravity := w.Config.Particles.Gravity

	kept := w.Particles[:0]
	for _, p := range w.Particles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += gravity * dt
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		kept = append(kept, p)
	}
	clear(w.Particles[len(kept):])
	w.Particles = kept
}
