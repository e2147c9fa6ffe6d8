package scenes

import (
	"context"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
)

// LoadingScene 加载阶段
//
// 进入时发起题库的异步请求，随后在第一次 Update 中检查绘图表面：
// 表面可用则立即进入战斗（不等待题库），否则回到菜单（fail closed）。
type LoadingScene struct {
	host      Host
	requested bool
	message   string
}

// NewLoadingScene creates a new loading scene and starts the question fetch.
func NewLoadingScene(host Host) *LoadingScene {
	gs := host.State()
	if gs.Pending != nil {
		gs.Pending.Cancel()
	}
	if gs.Questions != nil {
		gs.Pending = game.RequestQuestions(context.Background(), gs.Questions, gs.Topic)
	}
	log.Printf("[Loading] Questions requested for topic %q", gs.Topic)

	return &LoadingScene{
		host:    host,
		message: "Deploying...",
	}
}

// Update 检查表面并请求下一阶段（只请求一次）
func (s *LoadingScene) Update(deltaTime float64) {
	if s.requested {
		return
	}
	s.requested = true

	w, h := s.host.Size()
	if w < config.MinSurfaceWidth || h < config.MinSurfaceHeight {
		log.Printf("[Loading] No usable surface (%dx%d), back to menu", w, h)
		s.message = fmt.Sprintf("Display unavailable (%dx%d)", w, h)
		s.host.State().AbandonRun()
		s.host.RequestPhase(game.PhaseMenu)
		return
	}
	s.host.RequestPhase(game.PhaseBattle)
}

// Draw 绘制加载提示
func (s *LoadingScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	w, h := s.host.Size()
	drawCentered(screen, s.host.Face(), s.message, float64(w)/2, float64(h)/2, textColor)
}
