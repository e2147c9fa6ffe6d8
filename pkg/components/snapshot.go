package components

import "image/color"

// Snapshot 一帧的只读渲染数据
//
// 由更新阶段在 tick 末尾生成，渲染器只读取 Snapshot，不接触 WorldState。
// 所有坐标都已投影为屏幕坐标并裁剪到表面范围内；ShakeX/ShakeY 需要由渲染器
// 叠加到战场层（HUD 不受震动影响）。
type Snapshot struct {
	Width    int
	Height   int
	CenterX  float64
	HorizonY float64

	ShakeX float64
	ShakeY float64

	Layers    []LayerSprites
	Enemies   []EnemySprite
	Bullets   []BulletSprite
	Particles []ParticleSprite
	Radar     []RadarBlip

	HUD HUDState
}

// LayerSprites 一个背景层投影后的几何体
type LayerSprites struct {
	Kind   LayerKind
	Shapes []ShapeSprite
}

// ShapeSprite 投影后的山峰（三角形）或星星（点）
//
// 山峰：底边中心 (X, BaseY)，顶点 (X, BaseY-Height)，底宽 Width。
// 星星：位置 (X, BaseY)，Width 为点的尺寸。
type ShapeSprite struct {
	X      float64
	BaseY  float64
	Height float64
	Width  float64
}

// EnemySprite 投影后的敌人
type EnemySprite struct {
	ID    uint64
	Type  EnemyType
	X, Y  float64
	Size  float64
	Scale float64
	Z     float64
	Body  color.RGBA
}

// BulletSprite 投影后的子弹
type BulletSprite struct {
	X, Y   float64
	TailX  float64 // 曳光尾迹终点（上一 tick 位置）
	TailY  float64
	Radius float64
	Z      float64
}

// ParticleSprite 投影后的粒子
type ParticleSprite struct {
	X, Y  float64
	Color color.RGBA
	Alpha float64
}

// RadarBlip 雷达上的敌人光点
//
// DX 为相对准星方向的横向偏移（雷达单位 [-1,1]），Dist 为剩余距离 [0,1]，
// 0 表示已贴脸。
type RadarBlip struct {
	DX   float64
	Dist float64
	Type EnemyType
}

// HUDState HUD 文字与指示数据
type HUDState struct {
	Score      int
	Kills      int
	Health     int
	MaxHealth  int
	Heading    float64 // 罗盘朝向（度），等于 ViewAngle
	Paused     bool
	GameOver   bool
	CrosshairX float64
	CrosshairY float64
	MuzzleX    float64
	MuzzleY    float64
	Enemies    int
}
