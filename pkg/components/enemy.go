package components

// EnemyType 敌人类型标签
type EnemyType string

const (
	// EnemyTank 地面坦克
	EnemyTank EnemyType = "tank"
	// EnemyHelicopter 武装直升机
	EnemyHelicopter EnemyType = "helicopter"
)

// EnemyTypes 按固定顺序列出所有敌人类型，刷怪时等概率选择
var EnemyTypes = []EnemyType{EnemyTank, EnemyHelicopter}

// Enemy 向玩家逼近的敌方单位
//
// Z 为深度坐标：0 为远处，达到 BreachDepth（默认 1.2）即突破防线。
// X 为横向偏移（scale=1 时的像素单位）。
type Enemy struct {
	ID     uint64
	Type   EnemyType
	X      float64
	Z      float64
	Health int
}
