package game

import (
	"math/rand"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
)

// WorldState 一场战斗的唯一可变状态
//
// 每次进入战斗阶段新建一个实例，由 battle.Session 独占持有，退出战斗即丢弃，
// 从不持久化。各系统通过指针参数访问，不存在全局实例。
//
// 实体列表按插入顺序保存：碰撞判定依赖列表顺序（先匹配者胜）。
type WorldState struct {
	Config *config.BattleConfig

	Player    components.Player
	Enemies   []components.Enemy
	Bullets   []components.Bullet
	Particles []components.Particle
	Layers    []components.BackgroundLayer

	SpawnTimer    float64 // 距离下一次刷怪的 tick 数
	SpawnInterval int     // 最近一次重置计时器使用的间隔
	Score         int
	Kills         int
	Shots         int
	Breaches      int

	Shake       float64 // 镜头震动幅度（像素）
	ViewAngle   float64 // 当前视角（度），不做环绕归一化
	TargetAngle float64 // 指针驱动的目标视角（度）

	Paused   bool
	GameOver bool
	Tick     uint64

	// Rand 可注入的随机源：刷怪位置、类型与粒子速度均取自这里
	Rand *rand.Rand

	nextEnemyID uint64
}

// NewWorldState 创建新的战斗世界
//
// 参数：
//   - cfg: 战斗参数（nil 时使用默认值）
//   - rng: 随机源（nil 时使用固定种子 1，便于复现）
func NewWorldState(cfg *config.BattleConfig, rng *rand.Rand) *WorldState {
	if cfg == nil {
		cfg = config.DefaultBattleConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- gameplay only
	}

	w := &WorldState{
		Config: cfg,
		Player: components.Player{
			X:      0,
			Y:      cfg.Player.ForwardOffsetY,
			Health: cfg.Player.MaxHealth,
		},
		Enemies:       make([]components.Enemy, 0, 16),
		Bullets:       make([]components.Bullet, 0, 32),
		Particles:     make([]components.Particle, 0, 128),
		SpawnTimer:    float64(cfg.Spawn.InitialDelay),
		SpawnInterval: cfg.Spawn.BaseInterval,
		Rand:          rng,
		nextEnemyID:   1,
	}
	w.Layers = GenerateBackgroundLayers(cfg.Background, rng)
	return w
}

// LiveEntities 返回受上限约束的实体数量（敌人 + 子弹）
func (w *WorldState) LiveEntities() int {
	return len(w.Enemies) + len(w.Bullets)
}

// HasEntityCapacity 是否还能新增敌人或子弹
func (w *WorldState) HasEntityCapacity() bool {
	return w.LiveEntities() < w.Config.Limits.MaxLiveEntities
}

// NextEnemyID 分配新的敌人ID（从 1 开始）
func (w *WorldState) NextEnemyID() uint64 {
	id := w.nextEnemyID
	w.nextEnemyID++
	return id
}

// DamagePlayer 玩家生命值 -1
//
// 生命值不会低于 0；首次降到 0 时设置 GameOver 并返回 true。
// GameOver 一旦设置不会被清除。
func (w *WorldState) DamagePlayer() bool {
	if w.Player.Health <= 0 {
		return false
	}
	w.Player.Health--
	w.Breaches++
	if w.Player.Health == 0 && !w.GameOver {
		w.GameOver = true
		return true
	}
	return false
}

// AddScore 增加得分，负值被忽略（得分单调不减）
func (w *WorldState) AddScore(points int) {
	if points <= 0 {
		return
	}
	w.Score += points
}

// SetShake 设置镜头震动幅度（直接覆盖为冲击值）
func (w *WorldState) SetShake(amount float64) {
	w.Shake = amount
}

// GenerateBackgroundLayers 生成静态视差背景
// 生成后只读，每帧仅按视角重新投影
func GenerateBackgroundLayers(cfg config.BackgroundConfig, rng *rand.Rand) []components.BackgroundLayer {
	stars := components.BackgroundLayer{
		Kind:     components.LayerStars,
		Parallax: cfg.StarParallax,
		Shapes:   make([]components.LayerShape, 0, cfg.Stars),
	}
	for i := 0; i < cfg.Stars; i++ {
		stars.Shapes = append(stars.Shapes, components.LayerShape{
			X:      rng.Float64(),
			Height: rng.Float64() * 0.9, // 距顶部比例，留出地平线附近的空白
			Width:  1 + rng.Float64()*1.5,
		})
	}

	far := components.BackgroundLayer{
		Kind:     components.LayerFarMountains,
		Parallax: cfg.FarParallax,
		Shapes:   make([]components.LayerShape, 0, cfg.FarMountains),
	}
	for i := 0; i < cfg.FarMountains; i++ {
		far.Shapes = append(far.Shapes, components.LayerShape{
			X:      (float64(i) + rng.Float64()*0.6) / float64(max(cfg.FarMountains, 1)),
			Height: 0.15 + rng.Float64()*0.2,
			Width:  0.15 + rng.Float64()*0.15,
		})
	}

	near := components.BackgroundLayer{
		Kind:     components.LayerNearMountains,
		Parallax: cfg.NearParallax,
		Shapes:   make([]components.LayerShape, 0, cfg.NearMountains),
	}
	for i := 0; i < cfg.NearMountains; i++ {
		near.Shapes = append(near.Shapes, components.LayerShape{
			X:      (float64(i) + rng.Float64()*0.5) / float64(max(cfg.NearMountains, 1)),
			Height: 0.08 + rng.Float64()*0.12,
			Width:  0.25 + rng.Float64()*0.2,
		})
	}

	return []components.BackgroundLayer{stars, far, near}
}
