package systems

import (
	"log"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
)

// SpawnInterval 根据得分计算刷怪间隔（tick）
//
//	interval = max(MinInterval, BaseInterval - score/ScorePerTick)
//
// 对 score 单调不增，且永远不低于 MinInterval。
func SpawnInterval(score int, cfg config.SpawnConfig) int {
	if score < 0 {
		score = 0
	}
	perTick := cfg.ScorePerTick
	if perTick < 1 {
		perTick = 1
	}
	interval := cfg.BaseInterval - score/perTick
	if interval < cfg.MinInterval {
		interval = cfg.MinInterval
	}
	return interval
}

// UpdateSpawn 刷怪计时器推进一个 tick
//
// 计时器归零时在远处生成一个敌人（横向位置随机、类型等概率），
// 并按当前得分重置计时器。达到实体上限时本次生成被丢弃，但计时器照常重置。
// 返回生成的敌人与是否生成。
func UpdateSpawn(w *game.WorldState, dt float64) (components.Enemy, bool) {
	w.SpawnTimer -= dt
	if w.SpawnTimer > 0 {
		return components.Enemy{}, false
	}

	interval := SpawnInterval(w.Score, w.Config.Spawn)
	if interval != w.SpawnInterval {
		log.Printf("[Spawn] Interval %d -> %d ticks (score=%d)", w.SpawnInterval, interval, w.Score)
		w.SpawnInterval = interval
	}
	w.SpawnTimer = float64(interval)

	if !w.HasEntityCapacity() {
		return components.Enemy{}, false
	}

	enemy := NewEnemy(w)
	w.Enemies = append(w.Enemies, enemy)
	return enemy, true
}

// NewEnemy 使用世界的随机源构造一个出生在 SpawnDepth 的敌人
func NewEnemy(w *game.WorldState) components.Enemy {
	cfg := w.Config
	t := components.EnemyTypes[w.Rand.Intn(len(components.EnemyTypes))]
	health := 1
	if tc, ok := cfg.EnemyType(string(t)); ok {
		health = tc.Health
	}
	return components.Enemy{
		ID:     w.NextEnemyID(),
		Type:   t,
		X:      (w.Rand.Float64()*2 - 1) * cfg.Enemy.SpawnSpread,
		Z:      cfg.Enemy.SpawnDepth,
		Health: health,
	}
}
