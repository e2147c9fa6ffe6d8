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

// 答题布局
const (
	quizChoicesTop = 220.0
	quizRowW       = 520.0
	quizRowH       = 32.0
	quizRowGap     = 10.0
)

var choiceKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}

// QuizScene 知识检测阶段
//
// 题库在加载阶段已异步请求。尚未就绪时显示准备提示并等待，
// 超过 Quiz.WaitTimeout 秒或请求失败则改用内置题库。
// 每题作答后短暂显示对错，答完最后一题进入结算。
type QuizScene struct {
	host Host

	waited  float64
	bank    *config.QuestionBank
	index   int
	cursor  int
	chosen  int // -1 表示本题尚未作答
	showFor float64
	done    bool

	rows []listRow
}

// NewQuizScene 创建答题场景
func NewQuizScene(host Host) *QuizScene {
	return &QuizScene{host: host, chosen: -1}
}

// Update 推进答题流程
func (s *QuizScene) Update(deltaTime float64) {
	if s.done {
		return
	}
	if s.bank == nil {
		s.waitForBank(deltaTime)
		return
	}

	w, _ := s.host.Size()
	s.rows = listLayout(w, len(s.current().Choices), quizChoicesTop, quizRowW, quizRowH, quizRowGap)
	pressed, px, py := utils.IsJustTouchedOrClicked()
	confirm := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if s.chosen >= 0 {
		s.advance(deltaTime, confirm || pressed)
		return
	}

	for i, k := range choiceKeys {
		if i < len(s.current().Choices) && inpututil.IsKeyJustPressed(k) {
			s.answer(i)
			return
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		s.moveCursor(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		s.moveCursor(1)
	case confirm:
		s.answer(s.cursor)
	case pressed:
		if i := hitRow(s.rows, px, py); i >= 0 {
			s.answer(i)
		}
	}
}

// waitForBank 轮询题库请求，超时回退到内置题库
func (s *QuizScene) waitForBank(deltaTime float64) {
	gs := s.host.State()

	if gs.Pending == nil {
		s.useBank(config.DefaultQuestionBank(), "no request")
		return
	}

	bank, ready, err := gs.Pending.Poll()
	switch {
	case ready && err == nil && bank != nil:
		s.useBank(bank, "ready")
	case ready:
		s.useBank(config.DefaultQuestionBank(), fmt.Sprintf("fetch failed: %v", err))
	default:
		s.waited += deltaTime
		if s.waited >= gs.Config.Quiz.WaitTimeout {
			gs.Pending.Cancel()
			s.useBank(config.DefaultQuestionBank(), "timed out")
		}
	}
}

func (s *QuizScene) useBank(bank *config.QuestionBank, why string) {
	log.Printf("[Quiz] Using bank %q (%d questions): %s", bank.Topic, len(bank.Questions), why)
	s.bank = bank
	s.host.State().Bank = bank
}

func (s *QuizScene) current() config.Question {
	return s.bank.Questions[s.index]
}

func (s *QuizScene) moveCursor(delta int) {
	n := len(s.current().Choices)
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// answer 记录本题答案
func (s *QuizScene) answer(choice int) {
	q := s.current()
	if s.chosen >= 0 || choice < 0 || choice >= len(q.Choices) {
		return
	}
	s.chosen = choice

	gs := s.host.State()
	gs.Answered++
	if choice == q.Answer {
		gs.Correct++
	}
	s.showFor = gs.Config.Quiz.FeedbackFor
}

// advance 倒计时对错提示，结束后进入下一题
func (s *QuizScene) advance(deltaTime float64, skip bool) {
	s.showFor -= deltaTime
	if s.showFor > 0 && !skip {
		return
	}

	s.index++
	s.chosen = -1
	s.cursor = 0
	if s.index >= len(s.bank.Questions) {
		s.done = true
		gs := s.host.State()
		log.Printf("[Quiz] Finished: %d/%d correct", gs.Correct, gs.Answered)
		s.host.RequestPhase(game.PhaseResults)
	}
}

// Draw 绘制题目或等待提示
func (s *QuizScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	face := s.host.Face()
	w, h := s.host.Size()
	cx := float64(w) / 2

	if s.bank == nil {
		drawCentered(screen, face, "Preparing your questions...", cx, float64(h)/2, textColor)
		return
	}
	if s.done {
		drawCentered(screen, face, "Tallying results...", cx, float64(h)/2, textColor)
		return
	}

	q := s.current()
	drawCentered(screen, face, fmt.Sprintf("%s   Question %d of %d", s.bank.DisplayTitle(), s.index+1, len(s.bank.Questions)),
		cx, 60, dimTextColor)
	drawCentered(screen, face, fmt.Sprintf("Battle score %d", s.host.State().BattleScore), cx, 60+lineHeight, dimTextColor)
	for i, line := range utils.WrapText(q.Prompt, face, quizRowW) {
		drawCentered(screen, face, line, cx, 130+float64(i)*lineHeight, titleColor)
	}

	rows := s.rows
	if len(rows) != len(q.Choices) {
		rows = listLayout(w, len(q.Choices), quizChoicesTop, quizRowW, quizRowH, quizRowGap)
	}
	for i, choice := range q.Choices {
		r := rows[i]
		clr := panelColor
		switch {
		case s.chosen >= 0 && i == q.Answer:
			clr = correctColor
		case s.chosen == i:
			clr = wrongColor
		case s.chosen < 0 && i == s.cursor:
			clr = highlightColor
		}
		drawPanel(screen, r.x, r.y, r.w, r.h, clr)
		drawText(screen, face, fmt.Sprintf("%d. %s", i+1, choice), r.x+12, r.y+9, textColor)
	}

	if s.chosen >= 0 {
		verdict, clr := "Wrong", wrongColor
		if s.chosen == q.Answer {
			verdict, clr = fmt.Sprintf("Correct! +%d", s.host.State().Config.Award.CorrectAnswerBonus), correctColor
		}
		y := rows[len(rows)-1].y + quizRowH + 24
		drawCentered(screen, face, verdict, cx, y, clr)
		for i, line := range utils.WrapText(q.Explain, face, quizRowW) {
			drawCentered(screen, face, line, cx, y+float64(i+1)*lineHeight, dimTextColor)
		}
	} else {
		hint := "1-4 or click to answer"
		if utils.IsMobile() {
			hint = "Tap an answer"
		}
		drawCentered(screen, face, hint, cx, float64(h)-40, dimTextColor)
	}
}
