package game

import (
	"sync"
	"sync/atomic"
	"time"
)

// NominalTickRate 名义刷新率（Hz）
// 所有"每 tick"参数都以此为基准，dt=1.0 表示一个 60Hz 帧
const NominalTickRate = 60.0

// MaxFrameDelta 单次回调允许的最大 dt（tick）
// 严重卡顿时多出的时间直接丢弃，视为跳帧而不是错误
const MaxFrameDelta = 4.0

// FrameClock 逐帧驱动回调的时钟
//
// 约定：
//   - Start 之后每个显示帧调用一次 callback
//   - Stop 可重复调用；Stop 返回后不会再有任何回调开始执行，包括已排队的那一次
//   - 时钟一次性使用：Stop 之后再 Start 不会生效
type FrameClock interface {
	Start(callback func(dt float64))
	Stop()
	Running() bool
}

// DrivenClock 由宿主循环推动的时钟
//
// ebiten 以固定 TPS 调用 Update，App 在每次 Update 中调用 Tick。
// 回调在调用 Tick 的 goroutine 上同步执行，回调内部调用 Stop 是安全的。
type DrivenClock struct {
	mu       sync.Mutex
	callback func(dt float64)
	started  bool
	stopped  bool
}

// NewDrivenClock 创建宿主驱动时钟
func NewDrivenClock() *DrivenClock {
	return &DrivenClock{}
}

// Start 注册回调并开始运行
func (c *DrivenClock) Start(callback func(dt float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped || callback == nil {
		return
	}
	c.started = true
	c.callback = callback
}

// Stop 停止时钟，幂等
func (c *DrivenClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.callback = nil
}

// Running 是否处于运行状态
func (c *DrivenClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && !c.stopped
}

// Tick 推进一帧
// dt 会被限制在 (0, MaxFrameDelta] 范围内
func (c *DrivenClock) Tick(dt float64) {
	c.mu.Lock()
	cb := c.callback
	running := c.started && !c.stopped
	c.mu.Unlock()

	if !running || cb == nil {
		return
	}
	cb(clampFrameDelta(dt))
}

// TickerClock 基于 time.Ticker 的节拍时钟
//
// 在独立 goroutine 上按固定间隔调用回调（终端前端与无头运行使用）。
// 回调串行执行，不会并发。
type TickerClock struct {
	interval time.Duration

	mu      sync.Mutex
	started bool

	stopped  atomic.Bool
	stopOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// NewTickerClock 创建节拍时钟
// fps <= 0 时使用 NominalTickRate
func NewTickerClock(fps float64) *TickerClock {
	if fps <= 0 {
		fps = NominalTickRate
	}
	return &TickerClock{
		interval: time.Duration(float64(time.Second) / fps),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动节拍 goroutine
func (c *TickerClock) Start(callback func(dt float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped.Load() || callback == nil {
		return
	}
	c.started = true
	go c.loop(callback)
}

func (c *TickerClock) loop(callback func(dt float64)) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-c.quit:
			return
		case now := <-ticker.C:
			// 已排队的节拍在 Stop 之后到达时直接丢弃
			if c.stopped.Load() {
				return
			}
			dt := now.Sub(last).Seconds() * NominalTickRate
			last = now
			callback(clampFrameDelta(dt))
		}
	}
}

// Stop 停止时钟，幂等，可在回调内部调用（不会等待 goroutine 退出）
func (c *TickerClock) Stop() {
	c.stopped.Store(true)
	c.stopOnce.Do(func() {
		close(c.quit)
	})

	// 从未启动的时钟不会有 goroutine 去关闭 done
	c.mu.Lock()
	if !c.started {
		c.started = true
		close(c.done)
	}
	c.mu.Unlock()
}

// Running 是否处于运行状态
func (c *TickerClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started && !c.stopped.Load()
}

// Done 返回在节拍 goroutine 退出后关闭的 channel
func (c *TickerClock) Done() <-chan struct{} {
	return c.done
}

func clampFrameDelta(dt float64) float64 {
	if dt <= 0 {
		return 1
	}
	if dt > MaxFrameDelta {
		return MaxFrameDelta
	}
	return dt
}
