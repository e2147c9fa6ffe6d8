package components

// Player 玩家（第一人称炮手）
//
// X 为相对屏幕中心的横向偏移，Y 为枪口距屏幕底部的固定偏移。
// 视角不放在这里，由 WorldState.ViewAngle 统一持有。
type Player struct {
	X      float64
	Y      float64
	Health int // 取值范围 [0, MaxHealth]
}
