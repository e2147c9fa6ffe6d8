package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/utils"
)

// 评级配色
var tierColors = map[game.AwardTier]color.RGBA{
	game.AwardNone:   {R: 150, G: 150, B: 150, A: 255},
	game.AwardBronze: {R: 205, G: 127, B: 50, A: 255},
	game.AwardSilver: {R: 200, G: 205, B: 215, A: 255},
	game.AwardGold:   {R: 255, G: 210, B: 60, A: 255},
}

// errClipboardUnsupported 当前系统没有可用的剪贴板工具
var errClipboardUnsupported = errors.New("clipboard not supported")

// writeClipboard 写入系统剪贴板
func writeClipboard(s string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(s)
}

// ResultsScene 结算阶段
//
// 进入时合并战斗得分与答题结果并写入累计进度。
// 键位：Enter（或点击）回到菜单，C 复制结算摘要到剪贴板，Esc 退出。
type ResultsScene struct {
	host    Host
	outcome game.Outcome
	summary string
	notice  string

	// copyText 可替换的剪贴板写入函数
	copyText func(string) error
}

// NewResultsScene 创建结算场景并记录本轮战绩
func NewResultsScene(host Host) *ResultsScene {
	gs := host.State()
	out := gs.FinishRun()
	log.Printf("[Results] total=%d tier=%s newBest=%v", out.Total, out.Tier, gs.NewBest)

	return &ResultsScene{
		host:     host,
		outcome:  out,
		summary:  out.Summary(gs.Topic, gs.Config.Award.CorrectAnswerBonus),
		copyText: writeClipboard,
	}
}

// Update 处理结算界面输入
func (s *ResultsScene) Update(deltaTime float64) {
	clicked, _, _ := utils.IsJustTouchedOrClicked()
	switch {
	case clicked, inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.host.RequestPhase(game.PhaseMenu)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.copySummary()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.host.RequestPhase(game.PhaseExit)
	}
}

// copySummary 复制结算摘要
// 不支持剪贴板的平台只提示，不视为错误
func (s *ResultsScene) copySummary() {
	err := s.copyText(s.summary)
	switch {
	case errors.Is(err, errClipboardUnsupported):
		s.notice = "Clipboard not available on this system"
		return
	case err != nil:
		log.Printf("[Results] Warning: clipboard write failed: %v", err)
		s.notice = "Copy failed"
		return
	}
	s.notice = "Summary copied to clipboard"
}

// Outcome 返回本轮结算
func (s *ResultsScene) Outcome() game.Outcome {
	return s.outcome
}

// Draw 绘制结算
func (s *ResultsScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	face := s.host.Face()
	w, h := s.host.Size()
	cx := float64(w) / 2
	gs := s.host.State()
	out := s.outcome

	drawCentered(screen, face, "AFTER-ACTION REPORT", cx, 70, titleColor)

	y := 130.0
	lines := []string{
		fmt.Sprintf("Battle score      %6d", out.BattleScore),
		fmt.Sprintf("Enemies destroyed %6d", out.Kills),
		fmt.Sprintf("Correct answers   %3d/%-2d", out.Correct, out.Answered),
		fmt.Sprintf("Knowledge bonus   %6d", out.Correct*gs.Config.Award.CorrectAnswerBonus),
		fmt.Sprintf("Total             %6d", out.Total),
	}
	for _, line := range lines {
		drawCentered(screen, face, line, cx, y, textColor)
		y += lineHeight
	}

	tierClr := tierColors[out.Tier]
	y += lineHeight
	drawPanel(screen, cx-110, y-6, 220, 30, panelColor)
	drawCentered(screen, face, fmt.Sprintf("AWARD: %s", out.Tier), cx, y+2, tierClr)
	y += 2 * lineHeight
	if gs.NewBest {
		drawCentered(screen, face, "New personal best!", cx, y, correctColor)
	}

	if s.notice != "" {
		drawCentered(screen, face, s.notice, cx, float64(h)-70, dimTextColor)
	}
	drawCentered(screen, face, "Enter menu   C copy summary   Esc quit", cx, float64(h)-40, dimTextColor)
}
