package termui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/frontline/pkg/systems"
)

// DefaultRuneBindings 字符键位
var DefaultRuneBindings = map[rune]systems.Key{
	'a': systems.KeyStrafeLeft,
	'h': systems.KeyStrafeLeft,
	'd': systems.KeyStrafeRight,
	'l': systems.KeyStrafeRight,
	' ': systems.KeyFire,
	'f': systems.KeyFire,
	'p': systems.KeyPause,
	'q': systems.KeyExit,
}

// DefaultKeyBindings 特殊键位
var DefaultKeyBindings = map[tcell.Key]systems.Key{
	tcell.KeyLeft:   systems.KeyStrafeLeft,
	tcell.KeyRight:  systems.KeyStrafeRight,
	tcell.KeyEscape: systems.KeyExit,
}

// InputAdapter 把 tcell 事件转换为 InputSink 事件
//
// 终端没有松开事件，所有按键都以 Tap 投递（平移键按一次生效一个 tick，
// 长按依赖终端的自动重复）。鼠标横向位置驱动目标视角，左键按下开火。
// Handle 通常在事件轮询 goroutine 中调用。
type InputAdapter struct {
	sink  systems.InputSink
	runes map[rune]systems.Key
	keys  map[tcell.Key]systems.Key

	lastButtons tcell.ButtonMask
}

// NewInputAdapter 创建适配器，使用默认键位
func NewInputAdapter(sink systems.InputSink) *InputAdapter {
	return &InputAdapter{sink: sink, runes: DefaultRuneBindings, keys: DefaultKeyBindings}
}

// Handle 处理一个事件，返回是否被消费
// surfaceWidth 为 Renderer.Size 报告的逻辑像素宽度
func (a *InputAdapter) Handle(ev tcell.Event, surfaceWidth int) bool {
	if a.sink == nil {
		return false
	}

	switch ev := ev.(type) {
	case *tcell.EventKey:
		k, ok := a.keys[ev.Key()]
		if !ok && ev.Key() == tcell.KeyRune {
			k, ok = a.runes[ev.Rune()]
		}
		if ok {
			a.sink.Tap(k)
		}
		return ok

	case *tcell.EventMouse:
		x, _ := ev.Position()
		a.sink.PointerMove(float64(x*CellWidth+CellWidth/2), surfaceWidth)

		buttons := ev.Buttons()
		if buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0 {
			a.sink.Tap(systems.KeyFire)
		}
		a.lastButtons = buttons
		return true
	}
	return false
}
