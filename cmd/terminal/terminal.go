package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/frontline/pkg/battle"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/systems"
	"github.com/gonewx/frontline/pkg/termui"
)

// errInputClosed 事件源已关闭（屏幕已 Fini）
var errInputClosed = errors.New("terminal input closed")

// errClipboardUnsupported 当前系统没有可用的剪贴板工具
var errClipboardUnsupported = errors.New("clipboard not supported")

// gameOverHold 防线被突破后停留在最后一帧的时间（任意键跳过）
const gameOverHold = 2 * time.Second

// terminal 终端前端的阶段流程
//
// 与桌面端使用同一个阶段状态机和同一个战斗会话；区别在于这里每个阶段
// 是一个阻塞函数，返回下一阶段。战斗由 TickerClock 在独立 goroutine 中
// 推进，本 goroutine 只负责转发事件并等待 onExit。
type terminal struct {
	screen tcell.Screen
	render *termui.Renderer
	state  *game.GameState
	phases *game.PhaseMachine
	events <-chan tcell.Event

	fps      float64
	topic    string
	hold     time.Duration
	copyText func(string) error
}

func newTerminal(screen tcell.Screen, state *game.GameState, events <-chan tcell.Event, fps float64) *terminal {
	return &terminal{
		screen:   screen,
		render:   termui.NewRenderer(screen, state.GetSettingsManager().GetSettings().ShowRadar),
		state:    state,
		phases:   game.NewPhaseMachine(),
		events:   events,
		fps:      fps,
		hold:     gameOverHold,
		copyText: writeClipboard,
	}
}

// run 执行阶段流程直到退出
func (t *terminal) run() error {
	if t.topic != "" {
		log.Printf("[Terminal] Topic %q given, skipping menu", t.topic)
		t.state.BeginRun(t.topic)
		if err := t.phases.Transition(game.PhaseLoading); err != nil {
			return err
		}
	}

	for t.phases.Current() != game.PhaseExit {
		next, err := t.step()
		if err != nil {
			return err
		}
		if err := t.phases.Transition(next); err != nil {
			return fmt.Errorf("phase: %w", err)
		}
	}
	return nil
}

func (t *terminal) step() (game.Phase, error) {
	switch p := t.phases.Current(); p {
	case game.PhaseMenu:
		return t.menu()
	case game.PhaseLoading:
		return t.loading(), nil
	case game.PhaseBattle:
		return t.battle()
	case game.PhaseKnowledgeCheck:
		return t.quiz()
	case game.PhaseResults:
		return t.results()
	default:
		return p, fmt.Errorf("no terminal view for phase %s", p)
	}
}

// nextKey 等待下一个按键事件，顺带处理窗口尺寸变化
func (t *terminal) nextKey() (*tcell.EventKey, error) {
	for {
		ev, ok := <-t.events
		if !ok {
			return nil, errInputClosed
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			return ev, nil
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *terminal) topics() []game.TopicInfo {
	var topics []game.TopicInfo
	if t.state.Questions != nil {
		var err error
		if topics, err = t.state.Questions.Topics(); err != nil {
			log.Printf("[Terminal] Warning: failed to list topics: %v", err)
		}
	}
	if len(topics) == 0 {
		def := config.DefaultQuestionBank()
		topics = []game.TopicInfo{{Topic: def.Topic, Title: def.DisplayTitle(), Count: len(def.Questions)}}
	}
	return topics
}

// menu 选择主题
func (t *terminal) menu() (game.Phase, error) {
	topics := t.topics()
	sm := t.state.GetSettingsManager()

	sel := 0
	for i, tp := range topics {
		if tp.Topic == sm.GetSettings().LastTopic {
			sel = i
		}
	}

	for {
		lines := make([]string, len(topics))
		for i, tp := range topics {
			lines[i] = fmt.Sprintf("%-28s %3d questions", tp.Title, tp.Count)
		}
		progress := t.state.GetProgressManager().GetData()
		radar := "off"
		if sm.GetSettings().ShowRadar {
			radar = "on"
		}
		t.render.ShowPage(termui.Page{
			Title:    "F R O N T L I N E",
			Subtitle: fmt.Sprintf("Best total %d   Runs %d   Radar %s", progress.BestTotal, progress.SessionsPlayed, radar),
			Lines:    lines,
			Selected: sel,
			Footer:   "up/down choose   enter start   r radar   q quit",
		})

		ev, err := t.nextKey()
		if err != nil {
			return game.PhaseExit, err
		}
		switch {
		case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
			sel = (sel - 1 + len(topics)) % len(topics)
		case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
			sel = (sel + 1) % len(topics)
		case ev.Key() == tcell.KeyEnter:
			topic := topics[sel].Topic
			sm.SetLastTopic(topic)
			t.saveSettings()
			t.state.BeginRun(topic)
			return game.PhaseLoading, nil
		case ev.Rune() == 'r':
			sm.SetShowRadar(!sm.GetSettings().ShowRadar)
			t.render.SetShowRadar(sm.GetSettings().ShowRadar)
			t.saveSettings()
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return game.PhaseExit, nil
		}
	}
}

// loading 发起题库请求；终端太小则回到菜单
func (t *terminal) loading() game.Phase {
	gs := t.state
	if gs.Pending != nil {
		gs.Pending.Cancel()
	}
	if gs.Questions != nil {
		gs.Pending = game.RequestQuestions(context.Background(), gs.Questions, gs.Topic)
	}

	if w, h := t.render.Size(); w < config.MinSurfaceWidth || h < config.MinSurfaceHeight {
		log.Printf("[Terminal] Terminal too small (%dx%d), back to menu", w, h)
		gs.AbandonRun()
		return game.PhaseMenu
	}
	return game.PhaseBattle
}

// battle 运行一场战斗直到 onExit
func (t *terminal) battle() (game.Phase, error) {
	gs := t.state
	settings := gs.GetSettingsManager().GetSettings()

	input := systems.NewInputController(gs.Config.View.MaxTargetAngle)
	input.SetSensitivity(settings.PointerSensitivity)

	done := make(chan int, 1)
	s := battle.NewSession(battle.Options{
		Config:   gs.Config,
		Seed:     gs.Seed,
		Clock:    game.NewTickerClock(t.fps),
		Surface:  t.render,
		Renderer: t.render,
		Input:    input,
		OnExit:   func(score int) { done <- score },
	})
	if err := s.Start(); err != nil {
		if errors.Is(err, battle.ErrNoSurface) {
			log.Printf("[Terminal] %v, back to menu", err)
			gs.AbandonRun()
			return game.PhaseMenu, nil
		}
		return game.PhaseMenu, fmt.Errorf("start battle: %w", err)
	}
	adapter := termui.NewInputAdapter(s.Input())

	for {
		select {
		case score := <-done:
			st := s.Stats()
			gs.RecordBattle(score, st.Kills, st.Shots)
			if !s.GameOver() {
				gs.AbandonRun()
				return game.PhaseMenu, nil
			}
			// 停留在最后一帧，任意键跳过
			if err := t.waitKeyOr(t.hold); err != nil {
				return game.PhaseKnowledgeCheck, err
			}
			return game.PhaseKnowledgeCheck, nil

		case ev, ok := <-t.events:
			if !ok {
				s.Exit()
				return game.PhaseMenu, errInputClosed
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					s.Exit()
					continue
				}
				if ev.Rune() == 'r' {
					show := !settings.ShowRadar
					gs.GetSettingsManager().SetShowRadar(show)
					t.render.SetShowRadar(show)
					t.saveSettings()
					continue
				}
			}
			w, _ := t.render.Size()
			adapter.Handle(ev, w)
		}
	}
}

// waitKeyOr 等待任意键或超时
func (t *terminal) waitKeyOr(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return nil
		case ev, ok := <-t.events:
			if !ok {
				return errInputClosed
			}
			if _, isKey := ev.(*tcell.EventKey); isKey {
				return nil
			}
		}
	}
}

// waitForBank 等待异步题库，超时或失败时使用内置题库
func (t *terminal) waitForBank() *config.QuestionBank {
	gs := t.state
	if gs.Pending == nil {
		return config.DefaultQuestionBank()
	}

	t.render.ShowPage(termui.Page{Title: "Preparing your questions...", Selected: -1})

	timeout := time.Duration(gs.Config.Quiz.WaitTimeout * float64(time.Second))
	select {
	case <-gs.Pending.Ready():
		bank, _, err := gs.Pending.Poll()
		if err != nil || bank == nil {
			log.Printf("[Terminal] Question fetch failed (%v), using built-in bank", err)
			return config.DefaultQuestionBank()
		}
		return bank
	case <-time.After(timeout):
		gs.Pending.Cancel()
		log.Printf("[Terminal] Question fetch timed out after %v, using built-in bank", timeout)
		return config.DefaultQuestionBank()
	}
}

// quiz 依次作答；1-4 直接作答，上下键加回车也可以
func (t *terminal) quiz() (game.Phase, error) {
	gs := t.state
	bank := t.waitForBank()
	gs.Bank = bank
	bonus := gs.Config.Award.CorrectAnswerBonus

	for i, q := range bank.Questions {
		header := fmt.Sprintf("%s   Question %d of %d   Battle score %d", bank.DisplayTitle(), i+1, len(bank.Questions), gs.BattleScore)
		lines := make([]string, len(q.Choices))
		for j, c := range q.Choices {
			lines[j] = fmt.Sprintf("%d. %s", j+1, c)
		}

		cursor, chosen := 0, -1
		for chosen < 0 {
			t.render.ShowPage(termui.Page{Title: q.Prompt, Subtitle: header, Lines: lines, Selected: cursor, Footer: "1-4 answer   up/down + enter"})
			ev, err := t.nextKey()
			if err != nil {
				return game.PhaseResults, err
			}
			switch {
			case ev.Key() == tcell.KeyUp:
				cursor = (cursor - 1 + len(lines)) % len(lines)
			case ev.Key() == tcell.KeyDown:
				cursor = (cursor + 1) % len(lines)
			case ev.Key() == tcell.KeyEnter:
				chosen = cursor
			case ev.Rune() >= '1' && int(ev.Rune()-'1') < len(lines):
				chosen = int(ev.Rune() - '1')
			}
		}

		gs.Answered++
		verdict := "Wrong. Answer: " + q.Choices[q.Answer]
		if chosen == q.Answer {
			gs.Correct++
			verdict = fmt.Sprintf("Correct! +%d", bonus)
		}
		feedback := []string{verdict}
		if q.Explain != "" {
			feedback = append(feedback, "", q.Explain)
		}
		t.render.ShowPage(termui.Page{Title: q.Prompt, Subtitle: header, Lines: feedback, Selected: -1, Footer: "any key to continue"})
		if err := t.waitKeyOr(time.Duration(gs.Config.Quiz.FeedbackFor * float64(time.Second))); err != nil {
			return game.PhaseResults, err
		}
	}

	log.Printf("[Terminal] Quiz finished: %d/%d correct", gs.Correct, gs.Answered)
	return game.PhaseResults, nil
}

// results 结算并记录进度
func (t *terminal) results() (game.Phase, error) {
	gs := t.state
	out := gs.FinishRun()
	summary := out.Summary(gs.Topic, gs.Config.Award.CorrectAnswerBonus)
	lines := strings.Split(summary, "\n")
	if gs.NewBest {
		lines = append(lines, "", "New personal best!")
	}

	notice := ""
	for {
		t.render.ShowPage(termui.Page{
			Title:    "AFTER-ACTION REPORT",
			Subtitle: notice,
			Lines:    lines,
			Selected: -1,
			Footer:   "enter menu   c copy summary   q quit",
		})
		ev, err := t.nextKey()
		if err != nil {
			return game.PhaseExit, err
		}
		switch {
		case ev.Key() == tcell.KeyEnter:
			return game.PhaseMenu, nil
		case ev.Rune() == 'c':
			notice = t.copySummary(summary)
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return game.PhaseExit, nil
		}
	}
}

func (t *terminal) copySummary(summary string) string {
	err := t.copyText(summary)
	switch {
	case errors.Is(err, errClipboardUnsupported):
		return "Clipboard not available on this system"
	case err != nil:
		log.Printf("[Terminal] Warning: clipboard write failed: %v", err)
		return "Copy failed"
	}
	return "Summary copied to clipboard"
}

func (t *terminal) saveSettings() {
	if err := t.state.GetSettingsManager().Save(); err != nil {
		log.Printf("[Terminal] Warning: failed to save settings: %v", err)
	}
}

func writeClipboard(s string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(s)
}
