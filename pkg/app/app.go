// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
//
// App 持有阶段状态机与场景管理器：场景只登记切换请求，
// App 在每帧 Update 末尾执行切换，保证切换是离散事件且不会嵌套。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/frontline/pkg/battle"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/scenes"
	"github.com/gonewx/frontline/pkg/utils"
)

// DefaultAppName gdata 存储名
const DefaultAppName = "frontline"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// BattleConfigPath 战斗参数文件，为空使用嵌入的 data/battle.yaml
	BattleConfigPath string
	// QuestionsPath 题库目录或单个题库文件，为空使用嵌入题库
	QuestionsPath string
	// Topic 指定主题时跳过菜单直接开始
	Topic string
	// Seed 战斗随机种子，0 表示随机
	Seed int64
	// AppName gdata 存储名，为空使用 DefaultAppName
	AppName string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	state        *game.GameState
	phases       *game.PhaseMachine
	sceneManager *game.SceneManager
	face         text.Face

	width, height int

	pending    game.Phase
	hasPending bool
	quit       bool

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	battleCfg, err := game.LoadBattleConfig(cfg.BattleConfigPath)
	if err != nil {
		return nil, fmt.Errorf("战斗配置加载失败: %w", err)
	}
	questions, err := game.NewQuestionProvider(cfg.QuestionsPath)
	if err != nil {
		return nil, fmt.Errorf("题库加载失败: %w", err)
	}

	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	state := game.NewGameState(battleCfg, questions, appName)
	state.Seed = cfg.Seed

	a := &App{
		state:        state,
		phases:       game.NewPhaseMachine(),
		sceneManager: game.NewSceneManager(),
		face:         scenes.DefaultFace(),
		width:        config.GameWindowWidth,
		height:       config.GameWindowHeight,
		verbose:      cfg.Verbose,
	}
	a.sceneManager.SetSceneFactory(scenes.NewSceneFactory(a))
	a.registerPhaseHooks()

	if err := a.sceneManager.Enter(game.PhaseMenu); err != nil {
		return nil, fmt.Errorf("菜单创建失败: %w", err)
	}

	if cfg.Topic != "" {
		log.Printf("[App] Topic %q given, skipping menu", cfg.Topic)
		state.BeginRun(cfg.Topic)
		a.RequestPhase(game.PhaseLoading)
	}

	return a, nil
}

// registerPhaseHooks 注册阶段钩子
func (a *App) registerPhaseHooks() {
	// 离开战斗的任何路径都经过这里：先拆除会话，再决定本轮是否作废
	a.phases.OnExit(game.PhaseBattle, func(to game.Phase) {
		if d, ok := a.sceneManager.GetCurrentScene().(game.Disposable); ok {
			d.Dispose()
		}
		if to == game.PhaseMenu {
			a.state.AbandonRun()
		}
	})

	a.phases.OnEnter(game.PhaseExit, func(from game.Phase) {
		a.quit = true
	})
}

// RequestPhase 登记阶段切换请求（本帧 Update 结束后执行）
// 同一帧内的多次请求以最后一次为准
func (a *App) RequestPhase(to game.Phase) {
	a.pending = to
	a.hasPending = true
}

// applyPending 执行登记的切换
func (a *App) applyPending() {
	if !a.hasPending {
		return
	}
	to := a.pending
	a.hasPending = false

	if err := a.phases.Transition(to); err != nil {
		log.Printf("[App] Transition rejected: %v", err)
		return
	}
	if to == game.PhaseExit {
		return
	}

	if err := a.sceneManager.Enter(to); err != nil {
		log.Printf("[App] Failed to enter %s: %v", to, err)
		// 环境能力缺失：回到菜单，不保留任何战斗状态
		if errors.Is(err, battle.ErrNoSurface) && a.phases.CanTransition(game.PhaseMenu) {
			a.RequestPhase(game.PhaseMenu)
		}
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端始终全屏）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	a.applyPending()

	if a.quit {
		return ebiten.Termination
	}
	return nil
}

func (a *App) toggleFullscreen() {
	sm := a.state.GetSettingsManager()
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		sm.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
		sm.SetFullscreen(true)
	}
	if err := sm.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑画面尺寸跟随窗口尺寸
// 战斗每个 tick 通过 Size 重新读取，投影随之变化
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = max(outsideWidth, 1), max(outsideHeight, 1)
	return a.width, a.height
}

// Size 实现 scenes.Host / battle.Surface
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// State 实现 scenes.Host
func (a *App) State() *game.GameState {
	return a.state
}

// Face 实现 scenes.Host
func (a *App) Face() text.Face {
	return a.face
}

// Phase 返回当前阶段
func (a *App) Phase() game.Phase {
	return a.phases.Current()
}

// Shutdown 程序退出前调用：拆除当前场景（包括运行中的战斗）并保存设置
func (a *App) Shutdown() {
	a.sceneManager.Dispose()
	if a.state.Pending != nil {
		a.state.Pending.Cancel()
	}
	if err := a.state.GetSettingsManager().Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
	log.Printf("[App] Shutdown (phase=%s)", a.phases.Current())
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
