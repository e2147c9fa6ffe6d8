package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BattleConfig 战斗模拟的全部可调参数
//
// 所有"每 tick"的数值均以 60Hz 的名义帧为单位；可变刷新率下由调用方传入 dt 缩放。
//
// 配置文件位置: data/battle.yaml
type BattleConfig struct {
	Player     PlayerConfig     `yaml:"player"`
	Projection ProjectionConfig `yaml:"projection"`
	View       ViewConfig       `yaml:"view"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Bullet     BulletConfig     `yaml:"bullet"`
	Collision  CollisionConfig  `yaml:"collision"`
	Particles  ParticleConfig   `yaml:"particles"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Shake      ShakeConfig      `yaml:"shake"`
	Limits     LimitsConfig     `yaml:"limits"`
	Background BackgroundConfig `yaml:"background"`
	Award      AwardConfig      `yaml:"award"`
	Quiz       QuizConfig       `yaml:"quiz"`
}

// PlayerConfig 玩家参数
type PlayerConfig struct {
	MaxHealth      int     `yaml:"maxHealth"`      // 初始（也是最大）生命值
	ForwardOffsetY float64 `yaml:"forwardOffsetY"` // 枪口距离屏幕底部的像素偏移
}

// ProjectionConfig 深度到屏幕的近似投影参数
type ProjectionConfig struct {
	DepthScale     float64 `yaml:"depthScale"`     // scale = z * DepthScale
	AngleToOffset  float64 `yaml:"angleToOffset"`  // 视角（度）换算为横向偏移的系数
	VerticalFactor float64 `yaml:"verticalFactor"` // 纵向下沉系数
	HorizonRatio   float64 `yaml:"horizonRatio"`   // 地平线位于屏幕高度的比例
}

// ViewConfig 视角控制参数
type ViewConfig struct {
	MaxTargetAngle float64 `yaml:"maxTargetAngle"` // 指针驱动的目标视角上限（度）
	Damping        float64 `yaml:"damping"`        // 每 tick 向目标靠拢的比例
	StrafeStep     float64 `yaml:"strafeStep"`     // 按住平移键时每 tick 的角度增量
}

// EnemyConfig 敌人参数
type EnemyConfig struct {
	SpawnDepth   float64                    `yaml:"spawnDepth"`   // 出生深度
	ApproachRate float64                    `yaml:"approachRate"` // 每 tick 前进的深度
	BreachDepth  float64                    `yaml:"breachDepth"`  // 突破阈值
	SpawnSpread  float64                    `yaml:"spawnSpread"`  // 横向出生范围 ±SpawnSpread
	Types        map[string]EnemyTypeConfig `yaml:"types"`        // 类型 -> 外观与耐久
}

// EnemyTypeConfig 单个敌人类型的配置
//
// 颜色以 "#RRGGBB" 写在 YAML 中，Validate 时解析一次并缓存，
// 之后每帧通过 Colors 读取，不再重复解析。
type EnemyTypeConfig struct {
	Size    float64  `yaml:"size"`    // scale=1 时的基准尺寸（像素）
	Health  int      `yaml:"health"`  // 生命计数
	Palette []string `yaml:"palette"` // 爆炸粒子的两色调色板 (#RRGGBB)
	Body    string   `yaml:"body"`    // 机体颜色

	palette  [2]color.RGBA
	body     color.RGBA
	resolved bool
}

// MissingColor 未解析或未配置的颜色（洋红色，便于在画面上发现配置错误）
var MissingColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Colors 返回缓存的调色板与机体颜色；尚未经过 Validate 时返回 MissingColor
func (t EnemyTypeConfig) Colors() (palette [2]color.RGBA, body color.RGBA) {
	if !t.resolved {
		return [2]color.RGBA{MissingColor, MissingColor}, MissingColor
	}
	return t.palette, t.body
}

// resolveColors 解析十六进制颜色并写入缓存
func (t *EnemyTypeConfig) resolveColors() error {
	if len(t.Palette) != 2 {
		return fmt.Errorf("palette needs exactly 2 colors, got %d", len(t.Palette))
	}
	for i, hex := range t.Palette {
		c, err := ParseHexColor(hex)
		if err != nil {
			return err
		}
		t.palette[i] = c
	}
	body, err := ParseHexColor(t.Body)
	if err != nil {
		return err
	}
	t.body = body
	t.resolved = true
	return nil
}

// BulletConfig 子弹参数
type BulletConfig struct {
	Speed   float64 `yaml:"speed"`   // 每 tick 深度增量
	FarClip float64 `yaml:"farClip"` // 远裁剪面，超过即丢弃
	Scale   float64 `yaml:"scale"`   // 视觉缩放
}

// CollisionConfig 碰撞判定参数
type CollisionConfig struct {
	DepthTolerance float64 `yaml:"depthTolerance"` // |bullet.z - enemy.z| 的容差
	KillScore      int     `yaml:"killScore"`      // 每次击杀得分
}

// ParticleConfig 爆炸粒子参数
type ParticleConfig struct {
	BurstCount int     `yaml:"burstCount"`
	Gravity    float64 `yaml:"gravity"`
	MinLife    int     `yaml:"minLife"`
	MaxLife    int     `yaml:"maxLife"`
	MinSpeed   float64 `yaml:"minSpeed"`
	MaxSpeed   float64 `yaml:"maxSpeed"`
	ConeDegree float64 `yaml:"coneDegree"` // 向上速度锥的张角
}

// SpawnConfig 刷怪节奏参数
type SpawnConfig struct {
	InitialDelay int `yaml:"initialDelay"` // 战斗开始到第一只敌人的 tick 数
	BaseInterval int `yaml:"baseInterval"` // score=0 时的间隔
	MinInterval  int `yaml:"minInterval"`  // 间隔下限
	ScorePerTick int `yaml:"scorePerTick"` // 每多少分缩短 1 tick
}

// ShakeConfig 镜头震动参数
type ShakeConfig struct {
	Decay  float64 `yaml:"decay"`
	Fire   float64 `yaml:"fire"`
	Kill   float64 `yaml:"kill"`
	Breach float64 `yaml:"breach"`
}

// LimitsConfig 实体数量的防御性上限
type LimitsConfig struct {
	MaxLiveEntities int `yaml:"maxLiveEntities"` // 敌人 + 子弹
	MaxParticles    int `yaml:"maxParticles"`
}

// BackgroundConfig 视差背景参数
type BackgroundConfig struct {
	FarMountains  int     `yaml:"farMountains"`
	NearMountains int     `yaml:"nearMountains"`
	Stars         int     `yaml:"stars"`
	FarParallax   float64 `yaml:"farParallax"`
	NearParallax  float64 `yaml:"nearParallax"`
	StarParallax  float64 `yaml:"starParallax"`
}

// AwardConfig 结算评级参数
type AwardConfig struct {
	CorrectAnswerBonus int `yaml:"correctAnswerBonus"`
	Bronze             int `yaml:"bronze"`
	Silver             int `yaml:"silver"`
	Gold               int `yaml:"gold"`
}

// QuizConfig 知识检测阶段参数
type QuizConfig struct {
	WaitTimeout float64 `yaml:"waitTimeout"` // 等待题库就绪的最长秒数，超时使用内置题库
	FeedbackFor float64 `yaml:"feedbackFor"` // 答题后显示对错的秒数
}

// DefaultBattleConfig 返回内置默认参数
// 与 data/battle.yaml 保持一致，配置文件缺失时使用
func DefaultBattleConfig() *BattleConfig {
	cfg := &BattleConfig{
		Player: PlayerConfig{MaxHealth: 3, ForwardOffsetY: 80},
		Projection: ProjectionConfig{
			DepthScale:     3,
			AngleToOffset:  6,
			VerticalFactor: 0.8,
			HorizonRatio:   0.45,
		},
		View: ViewConfig{MaxTargetAngle: 30, Damping: 0.1, StrafeStep: 3},
		Enemy: EnemyConfig{
			SpawnDepth:   0.1,
			ApproachRate: 0.003,
			BreachDepth:  1.2,
			SpawnSpread:  150,
			Types: map[string]EnemyTypeConfig{
				"tank": {
					Size:    40,
					Health:  1,
					Palette: []string{"#ff7a1a", "#ffd23f"},
					Body:    "#5b6b3a",
				},
				"helicopter": {
					Size:    34,
					Health:  1,
					Palette: []string{"#ff3b30", "#c7c7cc"},
					Body:    "#3a4a5b",
				},
			},
		},
		Bullet:    BulletConfig{Speed: 0.15, FarClip: 1.5, Scale: 1},
		Collision: CollisionConfig{DepthTolerance: 0.2, KillScore: 100},
		Particles: ParticleConfig{
			BurstCount: 30,
			Gravity:    0.3,
			MinLife:    30,
			MaxLife:    60,
			MinSpeed:   2,
			MaxSpeed:   8,
			ConeDegree: 150,
		},
		Spawn:  SpawnConfig{InitialDelay: 60, BaseInterval: 120, MinInterval: 30, ScorePerTick: 50},
		Shake:  ShakeConfig{Decay: 0.9, Fire: 3, Kill: 6, Breach: 18},
		Limits: LimitsConfig{MaxLiveEntities: 200, MaxParticles: 600},
		Background: BackgroundConfig{
			FarMountains:  14,
			NearMountains: 9,
			Stars:         80,
			FarParallax:   2,
			NearParallax:  5,
			StarParallax:  0.5,
		},
		Award: AwardConfig{CorrectAnswerBonus: 250, Bronze: 500, Silver: 1500, Gold: 3000},
		Quiz:  QuizConfig{WaitTimeout: 5, FeedbackFor: 1.2},
	}
	for name, t := range cfg.Enemy.Types {
		if err := t.resolveColors(); err != nil {
			panic(fmt.Sprintf("default enemy type '%s': %v", name, err))
		}
		cfg.Enemy.Types[name] = t
	}
	return cfg
}

// LoadBattleConfig 从文件加载战斗配置
//
// 文件中缺失的字段保留默认值（先填充默认值再反序列化）。
//
// 参数:
//   - path: 配置文件路径（如 "data/battle.yaml"）
//
// 返回:
//   - *BattleConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败
func LoadBattleConfig(path string) (*BattleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battle config: %w", err)
	}
	return ParseBattleConfig(data)
}

// ParseBattleConfig 解析 YAML 字节并验证
func ParseBattleConfig(data []byte) (*BattleConfig, error) {
	cfg := DefaultBattleConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse battle config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battle config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 生命值、投影系数、速度等必须为正
//   - 出生深度必须小于突破深度
//   - 刷怪间隔下限不能大于基础间隔
//   - 每个敌人类型的调色板颜色可解析（解析结果缓存在类型配置中）
func (c *BattleConfig) Validate() error {
	if c.Player.MaxHealth < 1 {
		return fmt.Errorf("player.maxHealth must be >= 1, got %d", c.Player.MaxHealth)
	}
	if c.Projection.DepthScale <= 0 {
		return fmt.Errorf("projection.depthScale must be > 0, got %.3f", c.Projection.DepthScale)
	}
	if c.Projection.VerticalFactor <= 0 {
		return fmt.Errorf("projection.verticalFactor must be > 0, got %.3f", c.Projection.VerticalFactor)
	}
	if c.Projection.HorizonRatio <= 0 || c.Projection.HorizonRatio >= 1 {
		return fmt.Errorf("projection.horizonRatio must be in (0,1), got %.3f", c.Projection.HorizonRatio)
	}
	if c.View.Damping <= 0 || c.View.Damping > 1 {
		return fmt.Errorf("view.damping must be in (0,1], got %.3f", c.View.Damping)
	}
	if c.Enemy.ApproachRate <= 0 {
		return fmt.Errorf("enemy.approachRate must be > 0, got %.4f", c.Enemy.ApproachRate)
	}
	if c.Enemy.SpawnDepth >= c.Enemy.BreachDepth {
		return fmt.Errorf("enemy.spawnDepth(%.2f) must be < breachDepth(%.2f)",
			c.Enemy.SpawnDepth, c.Enemy.BreachDepth)
	}
	if len(c.Enemy.Types) == 0 {
		return fmt.Errorf("enemy.types cannot be empty")
	}
	for name, t := range c.Enemy.Types {
		if t.Size <= 0 {
			return fmt.Errorf("enemy type '%s': size must be > 0", name)
		}
		if t.Health < 1 {
			return fmt.Errorf("enemy type '%s': health must be >= 1", name)
		}
		if err := t.resolveColors(); err != nil {
			return fmt.Errorf("enemy type '%s': %w", name, err)
		}
		c.Enemy.Types[name] = t
	}
	if c.Bullet.Speed <= 0 || c.Bullet.FarClip <= 0 {
		return fmt.Errorf("bullet speed and farClip must be > 0")
	}
	if c.Collision.DepthTolerance <= 0 {
		return fmt.Errorf("collision.depthTolerance must be > 0")
	}
	if c.Collision.KillScore <= 0 {
		return fmt.Errorf("collision.killScore must be > 0")
	}
	if c.Particles.BurstCount < 0 || c.Particles.MinLife < 1 || c.Particles.MaxLife < c.Particles.MinLife {
		return fmt.Errorf("particles: invalid burstCount/minLife/maxLife (%d/%d/%d)",
			c.Particles.BurstCount, c.Particles.MinLife, c.Particles.MaxLife)
	}
	if c.Spawn.MinInterval < 1 || c.Spawn.BaseInterval < c.Spawn.MinInterval {
		return fmt.Errorf("spawn: need 1 <= minInterval(%d) <= baseInterval(%d)",
			c.Spawn.MinInterval, c.Spawn.BaseInterval)
	}
	if c.Spawn.ScorePerTick < 1 {
		return fmt.Errorf("spawn.scorePerTick must be >= 1, got %d", c.Spawn.ScorePerTick)
	}
	if c.Shake.Decay < 0 || c.Shake.Decay >= 1 {
		return fmt.Errorf("shake.decay must be in [0,1), got %.3f", c.Shake.Decay)
	}
	if c.Limits.MaxLiveEntities < 1 || c.Limits.MaxParticles < 0 {
		return fmt.Errorf("limits: invalid maxLiveEntities/maxParticles")
	}
	if c.Award.Bronze > c.Award.Silver || c.Award.Silver > c.Award.Gold {
		return fmt.Errorf("award thresholds must be ascending: %d/%d/%d",
			c.Award.Bronze, c.Award.Silver, c.Award.Gold)
	}
	if c.Quiz.WaitTimeout <= 0 || c.Quiz.FeedbackFor < 0 {
		return fmt.Errorf("quiz: waitTimeout must be > 0 and feedbackFor >= 0")
	}
	return nil
}

// EnemyType 返回指定类型的配置，不存在时返回 false
func (c *BattleConfig) EnemyType(name string) (EnemyTypeConfig, bool) {
	t, ok := c.Enemy.Types[name]
	return t, ok
}

// ParseHexColor 将 "#RRGGBB" 解析为不透明的 color.RGBA
func ParseHexColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
