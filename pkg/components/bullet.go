package components

// Bullet 玩家发射的曳光弹
//
// OriginX/OriginY 为发射时的屏幕位置（枪口）。Z 从 0 增长到远裁剪面（默认 1.5），
// 与敌人共用同一地面透视：深度为 z 的子弹画在深度为 z 的敌人所在的屏幕高度。
// PrevZ 为上一 tick 的深度，碰撞判定检查 [PrevZ, Z] 整段航迹。
type Bullet struct {
	OriginX float64
	OriginY float64
	PrevZ   float64
	Z       float64
	Speed   float64 // 每 tick 的深度增量
	Scale   float64 // 视觉缩放
}
