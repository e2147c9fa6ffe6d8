package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/frontline/pkg/battle"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/systems"
)

// gameOverHold 防线被突破后停留在最后一帧的秒数（任意键跳过）
const gameOverHold = 2.0

// BattleScene 战斗阶段的 ebiten 宿主
//
// 每次 Update：采集输入 → 推动 DrivenClock（Session 在回调中完成一个 tick）。
// Draw 只绘制 RenderSystem 收到的最近一帧。
// 场景被替换或程序退出时 Dispose 调用 Session.Exit，这是离开战斗的唯一拆除路径。
type BattleScene struct {
	host    Host
	session *battle.Session
	clock   *game.DrivenClock
	render  *systems.RenderSystem
	hud     *systems.HUDRenderSystem
	adapter *systems.EbitenInputAdapter

	ended     bool
	requested bool
	hold      float64
}

// NewBattleScene 创建并启动一场战斗
// 没有可用表面时返回包装了 battle.ErrNoSurface 的错误，且不留下任何状态
func NewBattleScene(host Host) (*BattleScene, error) {
	gs := host.State()
	settings := gs.GetSettingsManager().GetSettings()

	s := &BattleScene{
		host:  host,
		clock: game.NewDrivenClock(),
		hud:   systems.NewHUDRenderSystem(host.Face(), settings.ShowRadar),
	}
	s.render = systems.NewRenderSystem(s.hud)

	input := systems.NewInputController(gs.Config.View.MaxTargetAngle)
	input.SetSensitivity(settings.PointerSensitivity)

	s.session = battle.NewSession(battle.Options{
		Config:   gs.Config,
		Seed:     gs.Seed,
		Clock:    s.clock,
		Surface:  host,
		Renderer: s.render,
		Input:    input,
		OnExit:   s.onExit,
	})
	if err := s.session.Start(); err != nil {
		return nil, fmt.Errorf("start battle: %w", err)
	}
	s.adapter = systems.NewEbitenInputAdapter(s.session.Input(), nil)
	return s, nil
}

// onExit Session 拆除时调用一次：把战斗数据交给宿主状态
func (s *BattleScene) onExit(finalScore int) {
	st := s.session.Stats()
	s.host.State().RecordBattle(finalScore, st.Kills, st.Shots)
	s.ended = true
	s.hold = gameOverHold
}

// Update 推进一帧
func (s *BattleScene) Update(deltaTime float64) {
	if s.ended {
		s.afterBattle(deltaTime)
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.toggleRadar()
	}

	w, _ := s.host.Size()
	s.adapter.Poll(w)
	s.clock.Tick(deltaTime * game.NominalTickRate)
}

// afterBattle 战斗结束后决定下一阶段
// 游戏结束 → 知识检测（先停留在最后一帧）；主动退出 → 菜单
func (s *BattleScene) afterBattle(deltaTime float64) {
	if s.requested {
		return
	}
	if !s.session.GameOver() {
		s.requested = true
		s.host.RequestPhase(game.PhaseMenu)
		return
	}

	s.hold -= deltaTime
	skip := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if s.hold <= 0 || skip {
		s.requested = true
		s.host.RequestPhase(game.PhaseKnowledgeCheck)
	}
}

func (s *BattleScene) toggleRadar() {
	sm := s.host.State().GetSettingsManager()
	show := !sm.GetSettings().ShowRadar
	sm.SetShowRadar(show)
	s.hud.SetShowRadar(show)
	if err := sm.Save(); err != nil {
		log.Printf("[Battle] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制最近一帧
func (s *BattleScene) Draw(screen *ebiten.Image) {
	if s.render.Latest() == nil {
		screen.Fill(backgroundColor)
		return
	}
	s.render.Draw(screen)
}

// Dispose 拆除战斗（幂等）
func (s *BattleScene) Dispose() {
	s.session.Exit()
}

// Session 返回当前战斗会话
func (s *BattleScene) Session() *battle.Session {
	return s.session
}
