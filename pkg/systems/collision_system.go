package systems

import (
	"math"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/game"
)

// Hit 一次子弹命中
type Hit struct {
	EnemyID uint64
	Type    components.EnemyType
	X, Y    float64 // 命中时敌人的屏幕位置
	Killed  bool
}

// ResolveCollisions 子弹与敌人的碰撞判定
//
// 必须在敌人与子弹都完成本 tick 的推进之后调用。判定条件（全部满足）：
//
//	|bx - ex| < size
//	|by - ey| < size/2
//	|bz - ez| < DepthTolerance
//
// 其中 size = 类型基准尺寸 * scale。bz 取子弹本 tick 航迹 [PrevZ, Z] 上离敌人最近的深度，
// (bx, by) 为该深度的投影；子弹与敌人共用地面透视，正前方的敌人在整个逼近过程中都能被击中。
//
// 每个敌人本 tick 最多被一发子弹结算，每发子弹最多命中一个敌人。
// 多发子弹同时满足条件时按列表顺序取第一发（先匹配者胜），
// 这是可接受的不确定性，不额外定义优先级。
//
// 命中后子弹被移除，敌人生命 -1；生命归零时移除敌人、生成爆炸粒子、
// 加分并触发小幅震动。返回本 tick 的全部命中。
func ResolveCollisions(w *game.WorldState, vp Viewport) []Hit {
	if len(w.Enemies) == 0 || len(w.Bullets) == 0 {
		return nil
	}
	cfg := w.Config

	consumed := make([]bool, len(w.Bullets))

	var hits []Hit
	keptEnemies := w.Enemies[:0]
	for _, e := range w.Enemies {
		ex, ey, scale := ProjectEnemy(e, w.ViewAngle, vp, cfg.Projection)
		size := EnemySize(e.Type, scale, cfg)

		hitBy := -1
		for i, b := range w.Bullets {
			if consumed[i] {
				continue
			}
			bz := sweptDepth(b, e.Z)
			bx, by := projectBulletAt(b.OriginX, bz, vp, cfg.Projection, cfg.Bullet.FarClip)
			if math.Abs(bx-ex) < size &&
				math.Abs(by-ey) < size/2 &&
				math.Abs(bz-e.Z) < cfg.Collision.DepthTolerance {
				hitBy = i
				break
			}
		}

		if hitBy < 0 {
			keptEnemies = append(keptEnemies, e)
			continue
		}

		consumed[hitBy] = true
		e.Health--
		hit := Hit{EnemyID: e.ID, Type: e.Type, X: ex, Y: ey, Killed: e.Health <= 0}
		hits = append(hits, hit)
		if !hit.Killed {
			keptEnemies = append(keptEnemies, e)
		}
	}
	clear(w.Enemies[len(keptEnemies):])
	w.Enemies = keptEnemies

	if len(hits) == 0 {
		return nil
	}

	keptBullets := w.Bullets[:0]
	for i, b := range w.Bullets {
		if !consumed[i] {
			keptBullets = append(keptBullets, b)
		}
	}
	clear(w.Bullets[len(keptBullets):])
	w.Bullets = keptBullets

	for _, h := range hits {
		if !h.Killed {
			continue
		}
		w.AddScore(cfg.Collision.KillScore)
		w.Kills++
		palette, _ := EnemyPalette(cfg, h.Type)
		EmitBurst(w, h.X, h.Y, palette)
		Kick(w, cfg.Shake.Kill)
	}
	return hits
}
