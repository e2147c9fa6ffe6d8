package battle

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/systems"
)

// fakeSurface 可变尺寸的测试表面
type fakeSurface struct {
	mu   sync.Mutex
	w, h int
}

func (f *fakeSurface) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w, f.h
}

func (f *fakeSurface) resize(w, h int) {
	f.mu.Lock()
	f.w, f.h = w, h
	f.mu.Unlock()
}

// recordingRenderer 记录收到的帧
type recordingRenderer struct {
	mu     sync.Mutex
	frames []*components.Snapshot
}

func (r *recordingRenderer) Present(snap *components.Snapshot) {
	r.mu.Lock()
	r.frames = append(r.frames, snap)
	r.mu.Unlock()
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recordingRenderer) last() *components.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// quietConfig 不会自动刷怪的配置
func quietConfig() *config.BattleConfig {
	cfg := config.DefaultBattleConfig()
	cfg.Spawn.InitialDelay = 1 << 30
	return cfg
}

type harness struct {
	session  *Session
	clock    *game.DrivenClock
	surface  *fakeSurface
	renderer *recordingRenderer
	exits    *atomic.Int32
	final    *atomic.Int64
}

func newHarness(t *testing.T, onExit func(int)) *harness {
	t.Helper()
	h := &harness{
		clock:    game.NewDrivenClock(),
		surface:  &fakeSurface{w: 960, h: 600},
		renderer: &recordingRenderer{},
		exits:    &atomic.Int32{},
		final:    &atomic.Int64{},
	}
	h.session = NewSession(Options{
		Config:   quietConfig(),
		Seed:     7,
		Clock:    h.clock,
		Surface:  h.surface,
		Renderer: h.renderer,
		OnExit: func(score int) {
			h.exits.Add(1)
			h.final.Store(int64(score))
			if onExit != nil {
				onExit(score)
			}
		},
	})
	return h
}

func TestSession_StartWithoutSurface(t *testing.T) {
	tests := []struct {
		name     string
		surface  Surface
		renderer Renderer
	}{
		{"nil surface", nil, NopRenderer{}},
		{"nil renderer", &fakeSurface{w: 960, h: 600}, nil},
		{"zero size", &fakeSurface{}, NopRenderer{}},
		{"too small", &fakeSurface{w: 10, h: 600}, NopRenderer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exits int
			clock := game.NewDrivenClock()
			s := NewSession(Options{
				Clock:    clock,
				Surface:  tt.surface,
				Renderer: tt.renderer,
				OnExit:   func(int) { exits++ },
			})

			err := s.Start()
			if !errors.Is(err, ErrNoSurface) {
				t.Fatalf("Start() error = %v, want ErrNoSurface", err)
			}
			if s.Active() || clock.Running() {
				t.Error("session should not be running")
			}
			if s.world != nil {
				t.Error("no world state should be created")
			}
			if s.input.Attached() {
				t.Error("input should not be attached")
			}
			if exits != 0 {
				t.Errorf("OnExit called %d times", exits)
			}
		})
	}
}

func TestSession_StartTwice(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := h.session.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	h.session.Exit()
}

// TestSession_TickPresentsSnapshot 每个 tick 产生一帧，尺寸随表面变化
func TestSession_TickPresentsSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if h.session.ID() == "" {
		t.Error("session ID is empty")
	}

	h.clock.Tick(1)
	h.clock.Tick(1)
	if h.renderer.count() != 2 {
		t.Fatalf("frames = %d, want 2", h.renderer.count())
	}
	if st := h.session.Stats(); st.Ticks != 2 {
		t.Errorf("ticks = %d, want 2", st.Ticks)
	}

	h.surface.resize(1280, 720)
	h.clock.Tick(1)
	if snap := h.renderer.last(); snap.Width != 1280 || snap.Height != 720 {
		t.Errorf("snapshot size = %dx%d, want 1280x720", snap.Width, snap.Height)
	}
	h.session.Exit()
}

func TestSession_FireThroughInput(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	h.session.Input().Tap(systems.KeyFire)
	h.clock.Tick(1)
	if st := h.session.Stats(); st.Shots != 1 {
		t.Errorf("shots = %d, want 1", st.Shots)
	}
	if len(h.renderer.last().Bullets) != 1 {
		t.Error("bullet missing from snapshot")
	}
	h.session.Exit()
}

// TestSession_UserExit 玩家退出：时钟停止、输入注销、OnExit 恰好一次
func TestSession_UserExit(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	h.session.Input().Tap(systems.KeyExit)
	h.clock.Tick(1)

	if h.exits.Load() != 1 {
		t.Fatalf("OnExit called %d times, want 1", h.exits.Load())
	}
	if h.session.Active() || h.clock.Running() {
		t.Error("session still running after exit")
	}
	if h.session.input.Attached() {
		t.Error("input still attached after exit")
	}
	if h.session.Reason() != ExitUser {
		t.Errorf("reason = %s, want user", h.session.Reason())
	}

	frames := h.renderer.count()
	h.clock.Tick(1)
	h.session.Exit()
	if h.renderer.count() != frames {
		t.Error("frame presented after teardown")
	}
	if h.exits.Load() != 1 {
		t.Errorf("OnExit called %d times after repeated exit", h.exits.Load())
	}
}

// TestSession_GameOverEndsSession 生命耗尽：同一 tick 内拆除，最终得分传给 OnExit
func TestSession_GameOverEndsSession(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	h.session.mu.Lock()
	h.session.world.Score = 700
	h.session.world.Player.Health = 1
	h.session.world.Enemies = append(h.session.world.Enemies, components.Enemy{ID: 1, Z: 1.199, Health: 1})
	h.session.mu.Unlock()

	h.clock.Tick(1)

	if !h.session.GameOver() {
		t.Fatal("GameOver() = false")
	}
	if h.exits.Load() != 1 || h.final.Load() != 700 {
		t.Errorf("OnExit calls=%d score=%d, want 1/700", h.exits.Load(), h.final.Load())
	}
	if h.session.Reason() != ExitGameOver {
		t.Errorf("reason = %s, want game-over", h.session.Reason())
	}
	if !h.renderer.last().HUD.GameOver {
		t.Error("final frame should carry the game-over banner")
	}
	if h.session.Score() != 700 {
		t.Errorf("Score() after teardown = %d, want 700", h.session.Score())
	}
}

// TestSession_ReentrantExit OnExit 中再次调用 Exit 不会死锁也不会重复回调
func TestSession_ReentrantExit(t *testing.T) {
	var h *harness
	h = newHarness(t, func(int) { h.session.Exit() })
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	h.session.Exit()
	if h.exits.Load() != 1 {
		t.Errorf("OnExit called %d times, want 1", h.exits.Load())
	}
	if h.session.Reason() != ExitHost {
		t.Errorf("reason = %s, want host", h.session.Reason())
	}
}

// TestSession_LateCallbackIgnored 拆除后迟到的回调不推进也不渲染
func TestSession_LateCallbackIgnored(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.session.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	h.clock.Tick(1)
	h.session.Exit()

	ticks := h.session.Stats().Ticks
	h.session.tick(1)
	if h.session.Stats().Ticks != ticks || h.renderer.count() != 1 {
		t.Error("late callback advanced or rendered")
	}
}

func TestSession_ExitBeforeStart(t *testing.T) {
	h := newHarness(t, nil)
	h.session.Exit()
	if h.exits.Load() != 0 {
		t.Error("OnExit should not fire for a session that never started")
	}
	if err := h.session.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start() after Exit error = %v, want ErrAlreadyStarted", err)
	}
}

// TestSession_TickerClockConcurrentExit 节拍时钟在独立 goroutine 上运行时从宿主退出
func TestSession_TickerClockConcurrentExit(t *testing.T) {
	clock := game.NewTickerClock(500)
	renderer := &recordingRenderer{}
	var exits atomic.Int32

	s := NewSession(Options{
		Config:   quietConfig(),
		Seed:     3,
		Clock:    clock,
		Surface:  &fakeSurface{w: 960, h: 600},
		Renderer: renderer,
		OnExit:   func(int) { exits.Add(1) },
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for renderer.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("ticker clock produced no frames")
		default:
			_ = s.Score()
			time.Sleep(time.Millisecond)
		}
	}

	s.Exit()
	select {
	case <-clock.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("ticker goroutine did not stop")
	}

	frames := renderer.count()
	time.Sleep(20 * time.Millisecond)
	if renderer.count() != frames {
		t.Error("frames presented after Exit returned")
	}
	if exits.Load() != 1 {
		t.Errorf("OnExit called %d times, want 1", exits.Load())
	}
}

// gatedRenderer 在 Present 中阻塞，直到 release 被关闭
type gatedRenderer struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once

	mu    sync.Mutex
	order []string
}

func (r *gatedRenderer) Present(*components.Snapshot) {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	r.record("present")
}

func (r *gatedRenderer) record(ev string) {
	r.mu.Lock()
	r.order = append(r.order, ev)
	r.mu.Unlock()
}

// TestSession_ExitWaitsForPresent 宿主退出与进行中的 Present 并发：OnExit 在该帧呈现之后才调用
func TestSession_ExitWaitsForPresent(t *testing.T) {
	clock := game.NewDrivenClock()
	renderer := &gatedRenderer{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(Options{
		Config:   quietConfig(),
		Seed:     5,
		Clock:    clock,
		Surface:  &fakeSurface{w: 960, h: 600},
		Renderer: renderer,
		OnExit:   func(int) { renderer.record("exit") },
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tickDone := make(chan struct{})
	go func() {
		clock.Tick(1)
		close(tickDone)
	}()
	<-renderer.entered

	exitDone := make(chan struct{})
	go func() {
		s.Exit()
		close(exitDone)
	}()

	select {
	case <-exitDone:
		t.Fatal("Exit returned while a frame was still being presented")
	case <-time.After(30 * time.Millisecond):
	}

	close(renderer.release)
	<-tickDone
	<-exitDone

	clock.Tick(1) // 拆除后的节拍不再呈现

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if len(renderer.order) != 2 || renderer.order[0] != "present" || renderer.order[1] != "exit" {
		t.Errorf("order = %v, want [present exit]", renderer.order)
	}
}

func TestExitReason_String(t *testing.T) {
	tests := map[ExitReason]string{
		ExitNone:     "none",
		ExitGameOver: "game-over",
		ExitUser:     "user",
		ExitHost:     "host",
	}
	for r, want := range tests {
		if r.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(r), r.String(), want)
		}
	}
}
