package systems

import (
	"log"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/game"
)

// AdvanceEnemies 敌人向玩家逼近
//
// z > BreachDepth 的敌人被移除并对玩家造成 1 点伤害，同时触发强烈震动。
// 原地过滤，保持剩余敌人的相对顺序。返回本 tick 的突破次数。
func AdvanceEnemies(w *game.WorldState, dt float64) int {
	cfg := w.Config
	breaches := 0

	kept := w.Enemies[:0]
	for _, e := range w.Enemies {
		e.Z += cfg.Enemy.ApproachRate * dt
		if e.Z > cfg.Enemy.BreachDepth {
			breaches++
			Kick(w, cfg.Shake.Breach)
			if w.DamagePlayer() {
				log.Printf("[Battle] Game over: enemy %d (%s) breached, score=%d", e.ID, e.Type, w.Score)
			}
			continue
		}
		kept = append(kept, e)
	}
	clear(w.Enemies[len(kept):])
	w.Enemies = kept
	return breaches
}

// AdvanceBullets 子弹向远处飞行，到达远裁剪面即丢弃
func AdvanceBullets(w *game.WorldState, dt float64) {
	farClip := w.Config.Bullet.FarClip

	kept := w.Bullets[:0]
	for _, b := range w.Bullets {
		b.PrevZ = b.Z
		b.Z += b.Speed * dt
		if b.Z >= farClip-depthEpsilon {
			continue
		}
		kept = append(kept, b)
	}
	clear(w.Bullets[len(kept):])
	w.Bullets = kept
}

// FireBullet 在玩家枪口生成一发子弹
//
// 暂停、游戏结束或达到实体上限时不生成，返回 false。
func FireBullet(w *game.WorldState, vp Viewport) bool {
	if w.Paused || w.GameOver || !w.HasEntityCapacity() {
		return false
	}

	mx, my := MuzzlePosition(w.Player, vp)
	w.Bullets = append(w.Bullets, components.Bullet{
		OriginX: mx,
		OriginY: my,
		Z:       0,
		Speed:   w.Config.Bullet.Speed,
		Scale:   w.Config.Bullet.Scale,
	})
	w.Shots++
	Kick(w, w.Config.Shake.Fire)
	return true
}
