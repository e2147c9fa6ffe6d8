// Package battle 管理一场战斗的完整生命周期
//
// Session 创建 WorldState、接入输入、启动帧时钟，在每个 tick 中执行
// 采样 → 推进 → 投影 → 呈现，并持有唯一的拆除函数：无论因游戏结束、
// 玩家主动退出还是宿主切换阶段而离开战斗，都经由同一个函数停止时钟、
// 注销输入，并恰好调用一次 OnExit。
package battle

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/systems"
)

// ErrNoSurface 没有可用的绘图表面或渲染器，无法进入战斗
var ErrNoSurface = errors.New("battle: no drawing surface available")

// ErrAlreadyStarted Session 只能启动一次
var ErrAlreadyStarted = errors.New("battle: session already started")

// Surface 宿主提供的绘图表面
// Size 每个 tick 都会重新读取，以响应窗口缩放
type Surface interface {
	Size() (width, height int)
}

// Renderer 消费每帧 Snapshot 的渲染器
type Renderer interface {
	Present(snap *components.Snapshot)
}

// NopRenderer 丢弃所有帧（无头运行与测试）
type NopRenderer struct{}

// Present 实现 Renderer
func (NopRenderer) Present(*components.Snapshot) {}

// ExitReason 战斗结束的原因
type ExitReason int

const (
	// ExitNone 尚未结束
	ExitNone ExitReason = iota
	// ExitGameOver 生命值耗尽
	ExitGameOver
	// ExitUser 玩家主动退出
	ExitUser
	// ExitHost 宿主强制拆除（切换阶段、关闭窗口）
	ExitHost
)

// String 返回退出原因名称
func (r ExitReason) String() string {
	switch r {
	case ExitGameOver:
		return "game-over"
	case ExitUser:
		return "user"
	case ExitHost:
		return "host"
	}
	return "none"
}

// Options Session 的依赖
type Options struct {
	Config   *config.BattleConfig // nil 时使用默认参数
	Seed     int64                // 0 表示使用当前时间
	Clock    game.FrameClock      // nil 时使用 60Hz TickerClock
	Surface  Surface
	Renderer Renderer
	Input    *systems.InputController // nil 时由 Session 创建

	// OnExit 战斗结束时恰好调用一次，参数为最终得分
	OnExit func(finalScore int)
}

// Stats 战斗统计（拆除后仍可读取）
type Stats struct {
	Score    int
	Kills    int
	Shots    int
	Breaches int
	Ticks    uint64
	Reason   ExitReason
}

// Session 一场战斗
type Session struct {
	id       string
	cfg      *config.BattleConfig
	seed     int64
	clock    game.FrameClock
	surface  Surface
	renderer Renderer
	input    *systems.InputController
	onExit   func(int)

	// mu 保护 world：模拟在时钟 goroutine 上运行，Score/GameOver 可能来自宿主 goroutine
	mu    sync.Mutex
	world *game.WorldState
	fx    *rand.Rand

	// presentMu 串行化 Present 与 OnExit：拆除返回后不会再有战斗帧覆盖宿主画面
	presentMu sync.Mutex

	started  atomic.Bool
	active   atomic.Bool
	tornDown atomic.Bool
	reason   atomic.Int32
}

// NewSession 创建战斗会话（尚未启动）
func NewSession(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultBattleConfig()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.NewTickerClock(game.NominalTickRate)
	}
	input := opts.Input
	if input == nil {
		input = systems.NewInputController(cfg.View.MaxTargetAngle)
	}

	return &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		seed:     seed,
		clock:    clock,
		surface:  opts.Surface,
		renderer: opts.Renderer,
		input:    input,
		onExit:   opts.OnExit,
	}
}

// ID 会话标识
func (s *Session) ID() string {
	return s.id
}

// Input 返回输入接收端，设备适配器向其投递事件
func (s *Session) Input() systems.InputSink {
	return s.input
}

// Start 进入战斗
//
// 没有表面、渲染器，或表面尺寸不可用时返回 ErrNoSurface，且不创建任何状态
// （调用方应回到菜单）。成功后时钟开始驱动 tick。
func (s *Session) Start() error {
	if s.surface == nil || s.renderer == nil {
		return ErrNoSurface
	}
	if w, h := s.surface.Size(); w < config.MinSurfaceWidth || h < config.MinSurfaceHeight {
		return fmt.Errorf("%w: surface %dx%d below minimum %dx%d",
			ErrNoSurface, w, h, config.MinSurfaceWidth, config.MinSurfaceHeight)
	}
	if s.tornDown.Load() || !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	rng := rand.New(rand.NewSource(s.seed))          // #nosec G404 -- gameplay only
	fx := rand.New(rand.NewSource(s.seed ^ 0x5eed)) // #nosec G404 -- cosmetic only

	s.mu.Lock()
	s.world = game.NewWorldState(s.cfg, rng)
	s.fx = fx
	s.mu.Unlock()

	s.input.Attach()
	s.active.Store(true)
	log.Printf("[Battle] Session %s started (seed=%d)", s.id, s.seed)

	s.clock.Start(s.tick)
	return nil
}

// tick 时钟回调：采样输入 → 推进 → 投影 → 呈现
func (s *Session) tick(dt float64) {
	// 拆除之后到达的回调直接丢弃
	if !s.active.Load() {
		return
	}

	w, h := s.surface.Size()

	s.mu.Lock()
	if !s.active.Load() {
		s.mu.Unlock()
		return
	}
	vp := systems.NewViewport(w, h, s.cfg.Projection)
	res := systems.Step(s.world, s.input.Sample(), dt, vp)
	snap := systems.BuildSnapshot(s.world, vp, s.fx)
	gameOver := s.world.GameOver
	s.mu.Unlock()

	s.presentMu.Lock()
	if s.active.Load() {
		s.renderer.Present(snap)
	}
	s.presentMu.Unlock()

	switch {
	case gameOver:
		if res.GameOverNow {
			log.Printf("[Battle] Session %s: line breached", s.id)
		}
		s.teardown(ExitGameOver)
	case res.ExitRequested:
		s.teardown(ExitUser)
	}
}

// Exit 宿主主动结束战斗（切换阶段、关闭窗口），幂等
func (s *Session) Exit() {
	s.teardown(ExitHost)
}

// teardown 唯一的拆除函数
//
// 停止时钟、注销输入、标记非活动，然后恰好调用一次 OnExit。
// 可从时钟回调内部调用，也可重入（OnExit 中再次调用 Exit 无副作用），
// 但不能在 Renderer.Present 内部调用。
// 与进行中的 Present 并发时，先等该帧呈现完毕再调用 OnExit。
func (s *Session) teardown(reason ExitReason) {
	if !s.tornDown.CompareAndSwap(false, true) {
		return
	}
	s.active.Store(false)
	s.clock.Stop()
	s.input.Detach()
	s.reason.Store(int32(reason))

	if !s.started.Load() {
		log.Printf("[Battle] Session %s discarded before start", s.id)
		return
	}

	// 等待正在进行的 Present 结束；active 已为 false，之后的 tick 不会再呈现
	s.presentMu.Lock()
	s.presentMu.Unlock()

	st := s.Stats()
	log.Printf("[Battle] Session %s ended (%s): score=%d kills=%d shots=%d ticks=%d",
		s.id, reason, st.Score, st.Kills, st.Shots, st.Ticks)

	if s.onExit != nil {
		s.onExit(st.Score)
	}
}

// Score 当前得分
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world == nil {
		return 0
	}
	return s.world.Score
}

// GameOver 是否已游戏结束
func (s *Session) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world != nil && s.world.GameOver
}

// Active 是否仍在运行
func (s *Session) Active() bool {
	return s.active.Load()
}

// Reason 结束原因（运行中为 ExitNone）
func (s *Session) Reason() ExitReason {
	return ExitReason(s.reason.Load())
}

// Stats 返回统计数据快照
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Reason: ExitReason(s.reason.Load())}
	if s.world != nil {
		st.Score = s.world.Score
		st.Kills = s.world.Kills
		st.Shots = s.world.Shots
		st.Breaches = s.world.Breaches
		st.Ticks = s.world.Tick
	}
	return st
}
