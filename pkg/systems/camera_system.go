package systems

import (
	"math"

	"github.com/gonewx/frontline/pkg/game"
)

// minShake 低于此幅度的震动直接归零，避免无限衰减的亚像素抖动
const minShake = 0.05

// UpdateCamera 镜头更新：震动衰减 → 视角阻尼 → 平移
//
// 视角向目标值指数靠拢（每 tick 完成差值的 Damping 比例），
// 按住平移键时在此基础上每 tick 额外偏转 StrafeStep 度。
func UpdateCamera(w *game.WorldState, in Intents, dt float64) {
	cfg := w.Config

	// 1. 震动衰减 shake *= decay^dt
	w.Shake *= math.Pow(cfg.Shake.Decay, dt)
	if w.Shake < minShake {
		w.Shake = 0
	}

	// 2. 视角
	if in.HasTarget {
		w.TargetAngle = in.TargetAngle
	}
	w.ViewAngle += (w.TargetAngle - w.ViewAngle) * math.Min(1, cfg.View.Damping*dt)
	w.ViewAngle += float64(in.Strafe) * cfg.View.StrafeStep * dt
}

// Kick 施加一次震动冲击，不会削弱正在进行的更强震动
func Kick(w *game.WorldState, amount float64) {
	if amount > w.Shake {
		w.SetShake(amount)
	}
}
