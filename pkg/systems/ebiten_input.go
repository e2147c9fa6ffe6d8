package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/frontline/pkg/utils"
)

// DefaultKeyBindings 桌面端键位
var DefaultKeyBindings = map[ebiten.Key]Key{
	ebiten.KeyA:          KeyStrafeLeft,
	ebiten.KeyArrowLeft:  KeyStrafeLeft,
	ebiten.KeyD:          KeyStrafeRight,
	ebiten.KeyArrowRight: KeyStrafeRight,
	ebiten.KeySpace:      KeyFire,
	ebiten.KeyP:          KeyPause,
	ebiten.KeyEscape:     KeyExit,
}

// EbitenInputAdapter 把 ebiten 的键盘、鼠标与触摸状态转换为 InputSink 事件
//
// ebiten 是轮询式输入：Poll 在每次 Update 中调用一次，
// 通过 inpututil 检测按下/松开边沿。鼠标左键与触摸点按都映射为开火，
// 指针横向位置驱动目标视角。
type EbitenInputAdapter struct {
	sink     InputSink
	bindings map[ebiten.Key]Key

	lastX   int
	hasLast bool
}

// NewEbitenInputAdapter 创建适配器；bindings 为 nil 时使用 DefaultKeyBindings
func NewEbitenInputAdapter(sink InputSink, bindings map[ebiten.Key]Key) *EbitenInputAdapter {
	if bindings == nil {
		bindings = DefaultKeyBindings
	}
	return &EbitenInputAdapter{sink: sink, bindings: bindings}
}

// Poll 采集本帧输入
// surfaceWidth 为当前逻辑画面宽度（用于换算指针偏移）
func (a *EbitenInputAdapter) Poll(surfaceWidth int) {
	if a.sink == nil {
		return
	}

	for ek, k := range a.bindings {
		if inpututil.IsKeyJustPressed(ek) {
			a.sink.KeyDown(k)
		}
		if inpututil.IsKeyJustReleased(ek) {
			a.sink.KeyUp(k)
		}
	}

	// 鼠标与触摸：统一由 utils.GetInputState 处理（触摸优先）
	state := utils.GetInputState()
	if state.JustPressed {
		a.sink.Tap(KeyFire)
	}
	if !a.hasLast || state.X != a.lastX {
		a.sink.PointerMove(float64(state.X), surfaceWidth)
		a.lastX = state.X
		a.hasLast = true
	}
}
