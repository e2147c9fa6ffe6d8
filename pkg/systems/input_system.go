package systems

import (
	"sync"
)

// Key 与设备无关的逻辑按键
type Key int

const (
	// KeyStrafeLeft 向左平移视角（按住生效）
	KeyStrafeLeft Key = iota
	// KeyStrafeRight 向右平移视角（按住生效）
	KeyStrafeRight
	// KeyFire 开火（每次按下一发）
	KeyFire
	// KeyPause 切换暂停（每次按下一次）
	KeyPause
	// KeyExit 主动退出战斗
	KeyExit

	keyCount
)

// String 返回按键名称（日志用）
func (k Key) String() string {
	switch k {
	case KeyStrafeLeft:
		return "strafe-left"
	case KeyStrafeRight:
		return "strafe-right"
	case KeyFire:
		return "fire"
	case KeyPause:
		return "pause"
	case KeyExit:
		return "exit"
	}
	return "unknown"
}

// Intents 一个 tick 内采样到的玩家意图
type Intents struct {
	TargetAngle float64 // 指针驱动的目标视角（度），仅 HasTarget 时有效
	HasTarget   bool
	Strafe      int // -1 左 / 0 / +1 右
	Fire        int // 本 tick 内的开火次数
	TogglePause bool
	Exit        bool
}

// InputSink 设备适配器向其投递原始事件的接口
//
// ebiten 适配器在游戏循环中调用；tcell 适配器在事件轮询 goroutine 中调用。
type InputSink interface {
	KeyDown(k Key)
	KeyUp(k Key)
	Tap(k Key)
	PointerMove(x float64, surfaceWidth int)
}

// InputController 设备无关的输入收集器
//
// 事件处理函数只记录事件，从不修改 WorldState；战斗 tick 通过 Sample
// 一次性取走本 tick 的意图。所有方法都是并发安全的。
//
// 未 Attach 或 Detach 之后收到的事件全部丢弃，这就是战斗拆除时的
// "注销监听"：适配器可以继续投递，但不会再有任何效果。
type InputController struct {
	mu sync.Mutex

	attached bool
	held     [keyCount]bool
	tapped   [keyCount]bool // 没有松开事件的设备（终端）按一次视为按住一个 tick
	presses  [keyCount]int

	pointerRatio float64 // (px - cx) / cx
	hasPointer   bool

	maxAngle    float64
	sensitivity float64
}

// NewInputController 创建输入控制器
// maxAngle 为指针可驱动的最大目标视角（度）
func NewInputController(maxAngle float64) *InputController {
	return &InputController{
		maxAngle:    maxAngle,
		sensitivity: 1,
	}
}

// SetSensitivity 设置指针灵敏度（目标视角的倍率，<= 0 时视为 1）
func (ic *InputController) SetSensitivity(s float64) {
	if s <= 0 {
		s = 1
	}
	ic.mu.Lock()
	ic.sensitivity = s
	ic.mu.Unlock()
}

// Attach 开始接收事件
func (ic *InputController) Attach() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.resetLocked()
	ic.attached = true
}

// Detach 停止接收事件并清空所有未处理的输入，幂等
func (ic *InputController) Detach() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.attached = false
	ic.resetLocked()
}

// Attached 是否正在接收事件
func (ic *InputController) Attached() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.attached
}

// KeyDown 按键按下
// 按住时重复的按下事件不会产生新的边沿
func (ic *InputController) KeyDown(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.attached {
		return
	}
	if !ic.held[k] {
		ic.presses[k]++
	}
	ic.held[k] = true
}

// KeyUp 按键松开
func (ic *InputController) KeyUp(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.attached {
		return
	}
	ic.held[k] = false
}

// Tap 一次完整的按下+松开
//
// 用于只有按下事件的设备：产生一个边沿，平移键在下一次采样时视为按住。
func (ic *InputController) Tap(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.attached {
		return
	}
	ic.presses[k]++
	ic.tapped[k] = true
}

// PointerMove 指针横向移动
// surfaceWidth 为事件发生时的表面宽度，用于换算相对中心的偏移
func (ic *InputController) PointerMove(x float64, surfaceWidth int) {
	if surfaceWidth <= 0 {
		return
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.attached {
		return
	}
	cx := float64(surfaceWidth) / 2
	ic.pointerRatio = clamp((x-cx)/cx, -1, 1)
	ic.hasPointer = true
}

// Sample 取走本 tick 的意图
//
// 边沿计数与点按在采样后清零；按住状态与指针位置保留。
func (ic *InputController) Sample() Intents {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	var in Intents
	if !ic.attached {
		return in
	}

	if ic.hasPointer {
		limit := ic.maxAngle
		in.TargetAngle = clamp(ic.pointerRatio*ic.maxAngle*ic.sensitivity, -limit, limit)
		in.HasTarget = true
	}

	if ic.held[KeyStrafeLeft] || ic.tapped[KeyStrafeLeft] {
		in.Strafe--
	}
	if ic.held[KeyStrafeRight] || ic.tapped[KeyStrafeRight] {
		in.Strafe++
	}

	in.Fire = ic.presses[KeyFire]
	in.TogglePause = ic.presses[KeyPause]%2 == 1
	in.Exit = ic.presses[KeyExit] > 0

	ic.presses = [keyCount]int{}
	ic.tapped = [keyCount]bool{}
	return in
}

func (ic *InputController) resetLocked() {
	ic.held = [keyCount]bool{}
	ic.tapped = [keyCount]bool{}
	ic.presses = [keyCount]int{}
	ic.hasPointer = false
	ic.pointerRatio = 0
}
