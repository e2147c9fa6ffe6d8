package game

import (
	"errors"
	"fmt"
	"log"
)

// Phase 外层流程阶段
type Phase int

const (
	// PhaseMenu 主菜单（选择主题）
	PhaseMenu Phase = iota
	// PhaseLoading 加载阶段：发起题库请求，随即进入战斗
	PhaseLoading
	// PhaseBattle 战斗阶段：唯一运行逐帧时钟的阶段
	PhaseBattle
	// PhaseKnowledgeCheck 知识检测（答题）
	PhaseKnowledgeCheck
	// PhaseResults 结算
	PhaseResults
	// PhaseExit 退出程序（终态）
	PhaseExit
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseLoading:
		return "loading"
	case PhaseBattle:
		return "battle"
	case PhaseKnowledgeCheck:
		return "knowledge-check"
	case PhaseResults:
		return "results"
	case PhaseExit:
		return "exit"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	// ErrInvalidTransition 不允许的阶段切换
	ErrInvalidTransition = errors.New("invalid phase transition")
	// ErrTransitionInProgress 在阶段钩子内部再次发起切换
	ErrTransitionInProgress = errors.New("phase transition already in progress")
)

// allowedTransitions 合法的阶段切换表
//
//   - loading → menu: 环境能力缺失（没有绘图表面）时回退
//   - battle → menu: 玩家主动退出战斗
var allowedTransitions = map[Phase][]Phase{
	PhaseMenu:           {PhaseLoading, PhaseExit},
	PhaseLoading:        {PhaseBattle, PhaseMenu},
	PhaseBattle:         {PhaseKnowledgeCheck, PhaseMenu},
	PhaseKnowledgeCheck: {PhaseResults},
	PhaseResults:        {PhaseMenu, PhaseExit},
	PhaseExit:           {},
}

// PhaseMachine 阶段状态机
//
// 每次切换都是离散事件：先执行旧阶段的 exit 钩子，再执行新阶段的 enter 钩子。
// 钩子内部不能再次发起切换（返回 ErrTransitionInProgress），需要连续切换时
// 由调用方在下一帧发起。
type PhaseMachine struct {
	current       Phase
	transitioning bool
	onEnter       map[Phase][]func(from Phase)
	onExit        map[Phase][]func(to Phase)
	history       []Phase
}

// NewPhaseMachine 创建状态机，初始阶段为 PhaseMenu
func NewPhaseMachine() *PhaseMachine {
	return &PhaseMachine{
		current: PhaseMenu,
		onEnter: make(map[Phase][]func(from Phase)),
		onExit:  make(map[Phase][]func(to Phase)),
		history: []Phase{PhaseMenu},
	}
}

// Current 返回当前阶段
func (pm *PhaseMachine) Current() Phase {
	return pm.current
}

// History 返回经历过的阶段序列（包含初始阶段）
func (pm *PhaseMachine) History() []Phase {
	out := make([]Phase, len(pm.history))
	copy(out, pm.history)
	return out
}

// CanTransition 检查从当前阶段能否切换到 to
func (pm *PhaseMachine) CanTransition(to Phase) bool {
	for _, p := range allowedTransitions[pm.current] {
		if p == to {
			return true
		}
	}
	return false
}

// OnEnter 注册进入某阶段时的钩子
func (pm *PhaseMachine) OnEnter(phase Phase, fn func(from Phase)) {
	pm.onEnter[phase] = append(pm.onEnter[phase], fn)
}

// OnExit 注册离开某阶段时的钩子
func (pm *PhaseMachine) OnExit(phase Phase, fn func(to Phase)) {
	pm.onExit[phase] = append(pm.onExit[phase], fn)
}

// Transition 切换到新阶段
//
// 返回：
//   - ErrInvalidTransition: 切换表中不存在该边
//   - ErrTransitionInProgress: 在钩子内部调用
func (pm *PhaseMachine) Transition(to Phase) error {
	if pm.transitioning {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionInProgress, pm.current, to)
	}
	if !pm.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, pm.current, to)
	}

	pm.transitioning = true
	defer func() { pm.transitioning = false }()

	from := pm.current
	for _, fn := range pm.onExit[from] {
		fn(to)
	}

	pm.current = to
	pm.history = append(pm.history, to)
	log.Printf("[Phase] %s -> %s", from, to)

	for _, fn := range pm.onEnter[to] {
		fn(from)
	}
	return nil
}

// IsTerminal 是否已进入终态
func (pm *PhaseMachine) IsTerminal() bool {
	return pm.current == PhaseExit
}
