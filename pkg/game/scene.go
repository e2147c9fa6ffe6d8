package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个阶段对应的 ebiten 画面（菜单、加载、战斗、答题、结算）
//
// 场景只负责自己阶段内的输入与绘制；阶段之间的跳转交给 PhaseMachine。
type Scene interface {
	// Update 每帧调用一次，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 把当前画面绘制到 screen
	Draw(screen *ebiten.Image)
}

// Disposable 场景被替换或程序退出时调用的可选接口
//
// 战斗场景借此执行唯一的拆除函数：停止时钟并注销输入。
type Disposable interface {
	Dispose()
}
