package systems

import (
	"log"

	"github.com/gonewx/frontline/pkg/game"
)

// StepResult 一个 tick 内发生的事件汇总（供日志与测试使用）
type StepResult struct {
	Advanced      bool // 本 tick 是否推进了模拟（暂停或已结束时为 false）
	Fired         int
	Spawned       bool
	Breaches      int
	Hits          []Hit
	PauseToggled  bool
	ExitRequested bool
	GameOverNow   bool // 本 tick 内首次进入游戏结束
}

// Step 推进一个 tick
//
// 顺序固定，不可调换：
//  1. 震动衰减
//  2. 视角阻尼与平移（随后处理开火意图）
//  3. 刷怪
//  4. 敌人推进与突破
//  5. 子弹推进与远裁剪
//  6. 碰撞判定（使用推进后的位置）
//  7. 粒子推进
//
// 游戏结束或暂停时不推进模拟，只处理暂停切换与退出意图。
// dt 以名义 tick 为单位（60Hz 下为 1.0）。
func Step(w *game.WorldState, in Intents, dt float64, vp Viewport) StepResult {
	var res StepResult
	res.ExitRequested = in.Exit

	if in.TogglePause && !w.GameOver {
		w.Paused = !w.Paused
		res.PauseToggled = true
		log.Printf("[Battle] Paused=%v", w.Paused)
	}
	if w.GameOver || w.Paused {
		return res
	}

	res.Advanced = true
	w.Tick++

	UpdateCamera(w, in, dt)
	for i := 0; i < in.Fire; i++ {
		if FireBullet(w, vp) {
			res.Fired++
		}
	}

	_, res.Spawned = UpdateSpawn(w, dt)
	res.Breaches = AdvanceEnemies(w, dt)
	AdvanceBullets(w, dt)
	res.Hits = ResolveCollisions(w, vp)
	AdvanceParticles(w, dt)

	res.GameOverNow = w.GameOver
	return res
}
