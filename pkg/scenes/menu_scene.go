package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/utils"
)

// 菜单布局
const (
	menuListTop = 150.0
	menuRowW    = 420.0
	menuRowH    = 30.0
	menuRowGap  = 8.0

	sensitivityStep = 0.25
)

// MenuScene 主菜单：选择知识主题、调整设置、开始一轮流程
//
// 键位：↑/↓ 选择，Enter 开始，R 切换雷达，[ / ] 调整指针灵敏度，Esc 退出。
// 鼠标或触摸点击主题行直接开始。
type MenuScene struct {
	host     Host
	topics   []game.TopicInfo
	selected int
	rows     []listRow
}

// NewMenuScene 创建主菜单
// 题库目录读取失败时仍可开始（使用内置题库）
func NewMenuScene(host Host) *MenuScene {
	s := &MenuScene{host: host}

	gs := host.State()
	if gs.Questions != nil {
		topics, err := gs.Questions.Topics()
		if err != nil {
			log.Printf("[Menu] Warning: failed to list topics: %v", err)
		}
		s.topics = topics
	}
	if len(s.topics) == 0 {
		def := config.DefaultQuestionBank()
		s.topics = []game.TopicInfo{{Topic: def.Topic, Title: def.DisplayTitle(), Count: len(def.Questions)}}
	}

	last := gs.GetSettingsManager().GetSettings().LastTopic
	for i, t := range s.topics {
		if t.Topic == last {
			s.selected = i
			break
		}
	}

	log.Printf("[Menu] %d topics available", len(s.topics))
	return s
}

// Update 处理菜单输入
func (s *MenuScene) Update(deltaTime float64) {
	w, _ := s.host.Size()
	s.rows = listLayout(w, len(s.topics), menuListTop, menuRowW, menuRowH, menuRowGap)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp), inpututil.IsKeyJustPressed(ebiten.KeyW):
		s.moveSelection(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown), inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.moveSelection(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.startSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.toggleRadar()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		s.adjustSensitivity(-sensitivityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		s.adjustSensitivity(sensitivityStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.host.RequestPhase(game.PhaseExit)
	}

	if pressed, x, y := utils.IsJustTouchedOrClicked(); pressed {
		if i := hitRow(s.rows, x, y); i >= 0 {
			s.selected = i
			s.startSelected()
		}
	}
}

// moveSelection 循环移动高亮
func (s *MenuScene) moveSelection(delta int) {
	n := len(s.topics)
	s.selected = ((s.selected+delta)%n + n) % n
}

// startSelected 以高亮主题开始新一轮流程
func (s *MenuScene) startSelected() {
	topic := s.topics[s.selected].Topic

	gs := s.host.State()
	sm := gs.GetSettingsManager()
	sm.SetLastTopic(topic)
	if err := sm.Save(); err != nil {
		log.Printf("[Menu] Warning: failed to save settings: %v", err)
	}

	gs.BeginRun(topic)
	s.host.RequestPhase(game.PhaseLoading)
}

func (s *MenuScene) toggleRadar() {
	sm := s.host.State().GetSettingsManager()
	sm.SetShowRadar(!sm.GetSettings().ShowRadar)
	if err := sm.Save(); err != nil {
		log.Printf("[Menu] Warning: failed to save settings: %v", err)
	}
}

func (s *MenuScene) adjustSensitivity(delta float64) {
	sm := s.host.State().GetSettingsManager()
	sm.SetPointerSensitivity(sm.GetSettings().PointerSensitivity + delta)
	if err := sm.Save(); err != nil {
		log.Printf("[Menu] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制菜单
func (s *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	face := s.host.Face()
	w, h := s.host.Size()
	cx := float64(w) / 2

	drawCentered(screen, face, "F R O N T L I N E", cx, 60, titleColor)
	drawCentered(screen, face, "Hold the line, then prove what you know", cx, 60+lineHeight, dimTextColor)
	drawCentered(screen, face, "Choose a topic", cx, menuListTop-lineHeight-8, textColor)

	rows := s.rows
	if len(rows) != len(s.topics) {
		rows = listLayout(w, len(s.topics), menuListTop, menuRowW, menuRowH, menuRowGap)
	}
	for i, t := range s.topics {
		r := rows[i]
		clr := panelColor
		if i == s.selected {
			clr = highlightColor
		}
		drawPanel(screen, r.x, r.y, r.w, r.h, clr)
		label := fmt.Sprintf("%s  (%d questions)", t.Title, t.Count)
		drawText(screen, face, label, r.x+12, r.y+8, textColor)
	}

	gs := s.host.State()
	settings := gs.GetSettingsManager().GetSettings()
	progress := gs.GetProgressManager().GetData()

	radar := "off"
	if settings.ShowRadar {
		radar = "on"
	}
	footer := float64(h) - 3*lineHeight - 10
	drawCentered(screen, face,
		fmt.Sprintf("Best total %d   Best battle %d   Runs %d   Kills %d",
			progress.BestTotal, progress.BestScore, progress.SessionsPlayed, progress.TotalKills),
		cx, footer, dimTextColor)
	drawCentered(screen, face,
		fmt.Sprintf("Radar [R]: %s   Aim sensitivity [ / ]: %.2f", radar, settings.PointerSensitivity),
		cx, footer+lineHeight, dimTextColor)
	hint := "Enter start   Esc quit   F11 fullscreen"
	if utils.IsMobile() {
		hint = "Tap a topic to start"
	}
	drawCentered(screen, face, hint, cx, footer+2*lineHeight, dimTextColor)
}
