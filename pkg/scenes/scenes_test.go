package scenes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/frontline/pkg/battle"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/systems"
)

// fakeHost 记录阶段请求的测试宿主
type fakeHost struct {
	w, h     int
	state    *game.GameState
	requests []game.Phase
}

func (h *fakeHost) Size() (int, int)           { return h.w, h.h }
func (h *fakeHost) State() *game.GameState     { return h.state }
func (h *fakeHost) Face() text.Face            { return nil }
func (h *fakeHost) RequestPhase(to game.Phase) { h.requests = append(h.requests, to) }

func (h *fakeHost) last() game.Phase {
	if len(h.requests) == 0 {
		return -1
	}
	return h.requests[len(h.requests)-1]
}

func twoQuestionBank() *config.QuestionBank {
	return &config.QuestionBank{
		Topic: "optics",
		Title: "Optics",
		Questions: []config.Question{
			{Prompt: "Light bends in a lens by?", Choices: []string{"Refraction", "Reflection"}, Answer: 0},
			{Prompt: "Speed of light unit?", Choices: []string{"m/s", "kg", "K"}, Answer: 0},
		},
	}
}

// newFakeHost 内存模式的宿主状态（不写磁盘）
func newFakeHost(t *testing.T, banks ...*config.QuestionBank) *fakeHost {
	t.Helper()
	cfg := config.DefaultBattleConfig()
	cfg.Spawn.InitialDelay = 1 << 30
	return &fakeHost{
		w:     960,
		h:     600,
		state: game.NewGameState(cfg, game.NewStaticQuestionProvider(banks...), ""),
	}
}

// blockingProvider 在 ctx 取消前一直阻塞
type blockingProvider struct{}

func (blockingProvider) Topics() ([]game.TopicInfo, error) { return nil, nil }
func (blockingProvider) Fetch(ctx context.Context, topic string) (*config.QuestionBank, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestMenuScene_Selection(t *testing.T) {
	history := &config.QuestionBank{Topic: "history", Questions: twoQuestionBank().Questions}
	host := newFakeHost(t, twoQuestionBank(), history)
	host.state.GetSettingsManager().SetLastTopic("optics")

	s := NewMenuScene(host)
	if len(s.topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(s.topics))
	}
	if s.topics[s.selected].Topic != "optics" {
		t.Errorf("last topic not preselected: %s", s.topics[s.selected].Topic)
	}

	s.moveSelection(1) // 循环回到第一项
	if s.topics[s.selected].Topic != "history" {
		t.Errorf("selection after wrap = %s", s.topics[s.selected].Topic)
	}

	s.startSelected()
	if host.last() != game.PhaseLoading {
		t.Fatalf("requested %v, want loading", host.requests)
	}
	if host.state.Topic != "history" || host.state.SessionID == "" {
		t.Errorf("run not begun: topic=%q id=%q", host.state.Topic, host.state.SessionID)
	}
	if host.state.GetSettingsManager().GetSettings().LastTopic != "history" {
		t.Error("last topic not remembered")
	}
}

func TestMenuScene_FallbackTopic(t *testing.T) {
	host := newFakeHost(t) // 没有任何题库
	s := NewMenuScene(host)
	if len(s.topics) != 1 || s.topics[0].Topic != config.DefaultQuestionBank().Topic {
		t.Errorf("topics = %+v, want built-in fallback", s.topics)
	}
}

func TestMenuScene_Settings(t *testing.T) {
	host := newFakeHost(t, twoQuestionBank())
	s := NewMenuScene(host)
	settings := host.state.GetSettingsManager().GetSettings()

	radar := settings.ShowRadar
	s.toggleRadar()
	if settings.ShowRadar == radar {
		t.Error("radar not toggled")
	}

	for i := 0; i < 10; i++ {
		s.adjustSensitivity(sensitivityStep)
	}
	if settings.PointerSensitivity != game.MaxPointerSensitivity {
		t.Errorf("sensitivity = %.2f, want clamped to %.2f", settings.PointerSensitivity, game.MaxPointerSensitivity)
	}
}

func TestLoadingScene(t *testing.T) {
	t.Run("surface available", func(t *testing.T) {
		host := newFakeHost(t, twoQuestionBank())
		host.state.BeginRun("optics")

		s := NewLoadingScene(host)
		if host.state.Pending == nil {
			t.Fatal("questions not requested")
		}
		s.Update(1.0 / 60)
		s.Update(1.0 / 60)
		if len(host.requests) != 1 || host.last() != game.PhaseBattle {
			t.Errorf("requests = %v, want [battle]", host.requests)
		}
	})

	t.Run("no surface", func(t *testing.T) {
		host := newFakeHost(t, twoQuestionBank())
		host.w, host.h = 0, 0
		host.state.BeginRun("optics")

		s := NewLoadingScene(host)
		s.Update(1.0 / 60)
		if host.last() != game.PhaseMenu {
			t.Errorf("requests = %v, want [menu]", host.requests)
		}
		if host.state.Pending != nil {
			t.Error("pending request should be abandoned")
		}
	})
}

func TestBattleScene_NoSurface(t *testing.T) {
	host := newFakeHost(t)
	host.w, host.h = 0, 0

	s, err := NewBattleScene(host)
	if !errors.Is(err, battle.ErrNoSurface) {
		t.Fatalf("error = %v, want ErrNoSurface", err)
	}
	if s != nil {
		t.Error("no scene should be returned")
	}
}

// TestBattleScene_UserExit 玩家退出：战斗数据交给宿主并请求回到菜单
func TestBattleScene_UserExit(t *testing.T) {
	host := newFakeHost(t)
	s, err := NewBattleScene(host)
	if err != nil {
		t.Fatalf("NewBattleScene error: %v", err)
	}
	defer s.Dispose()

	s.session.Input().Tap(systems.KeyFire)
	s.clock.Tick(1)
	s.session.Input().Tap(systems.KeyExit)
	s.clock.Tick(1)

	if !s.ended || s.session.Active() {
		t.Fatal("session should have ended")
	}
	if host.state.BattleShots != 1 {
		t.Errorf("recorded shots = %d, want 1", host.state.BattleShots)
	}

	s.afterBattle(1.0 / 60)
	s.afterBattle(1.0 / 60)
	if len(host.requests) != 1 || host.last() != game.PhaseMenu {
		t.Errorf("requests = %v, want [menu]", host.requests)
	}
}

func TestBattleScene_DisposeTearsDown(t *testing.T) {
	host := newFakeHost(t)
	s, err := NewBattleScene(host)
	if err != nil {
		t.Fatalf("NewBattleScene error: %v", err)
	}

	s.Dispose()
	s.Dispose()
	if s.session.Active() || s.clock.Running() {
		t.Error("session still running after Dispose")
	}
}

func TestQuizScene_ReadyBank(t *testing.T) {
	host := newFakeHost(t, twoQuestionBank())
	host.state.Pending = game.RequestQuestions(context.Background(), host.state.Questions, "optics")
	<-host.state.Pending.Ready()

	s := NewQuizScene(host)
	s.waitForBank(1.0 / 60)
	if s.bank == nil || s.bank.Topic != "optics" {
		t.Fatalf("bank = %+v, want optics", s.bank)
	}
	if host.state.Bank != s.bank {
		t.Error("bank not handed to game state")
	}
}

// TestQuizScene_Fallbacks 请求缺失、失败或超时时使用内置题库
func TestQuizScene_Fallbacks(t *testing.T) {
	def := config.DefaultQuestionBank().Topic

	t.Run("no request", func(t *testing.T) {
		host := newFakeHost(t)
		s := NewQuizScene(host)
		s.waitForBank(0)
		if s.bank == nil || s.bank.Topic != def {
			t.Errorf("bank = %+v", s.bank)
		}
	})

	t.Run("fetch failed", func(t *testing.T) {
		host := newFakeHost(t)
		host.state.Pending = game.RequestQuestions(context.Background(), host.state.Questions, "missing")
		<-host.state.Pending.Ready()

		s := NewQuizScene(host)
		s.waitForBank(0)
		if s.bank == nil || s.bank.Topic != def {
			t.Errorf("bank = %+v", s.bank)
		}
	})

	t.Run("timed out", func(t *testing.T) {
		host := newFakeHost(t)
		host.state.Pending = game.RequestQuestions(context.Background(), blockingProvider{}, "slow")

		s := NewQuizScene(host)
		timeout := host.state.Config.Quiz.WaitTimeout
		for waited := 0.0; waited < timeout-0.5; waited += 0.5 {
			s.waitForBank(0.5)
			if s.bank != nil {
				t.Fatalf("fell back early at %.1fs", waited)
			}
		}
		s.waitForBank(0.5)
		if s.bank == nil || s.bank.Topic != def {
			t.Fatalf("bank = %+v, want fallback after timeout", s.bank)
		}

		select {
		case <-host.state.Pending.Ready():
		case <-time.After(time.Second):
			t.Error("pending fetch not cancelled")
		}
	})
}

func TestQuizScene_AnswerFlow(t *testing.T) {
	host := newFakeHost(t)
	s := NewQuizScene(host)
	s.useBank(twoQuestionBank(), "test")

	s.answer(0) // 正确
	s.answer(1) // 已作答，忽略
	if host.state.Correct != 1 || host.state.Answered != 1 {
		t.Fatalf("correct=%d answered=%d, want 1/1", host.state.Correct, host.state.Answered)
	}

	s.advance(0.1, false) // 仍在显示对错
	if s.index != 0 {
		t.Fatal("advanced before feedback finished")
	}
	s.advance(0, true)
	if s.index != 1 || s.chosen != -1 {
		t.Fatalf("index=%d chosen=%d after skip", s.index, s.chosen)
	}

	s.answer(7) // 越界，忽略
	if host.state.Answered != 1 {
		t.Error("out-of-range answer counted")
	}
	s.answer(2) // 错误
	s.advance(host.state.Config.Quiz.FeedbackFor, false)

	if !s.done || host.last() != game.PhaseResults {
		t.Errorf("done=%v requests=%v, want results", s.done, host.requests)
	}
	if host.state.Correct != 1 || host.state.Answered != 2 {
		t.Errorf("correct=%d answered=%d, want 1/2", host.state.Correct, host.state.Answered)
	}
}

func TestResultsScene(t *testing.T) {
	host := newFakeHost(t)
	host.state.BeginRun("optics")
	host.state.RecordBattle(1200, 12, 40)
	host.state.Correct, host.state.Answered = 2, 3

	s := NewResultsScene(host)
	out := s.Outcome()
	if out.Total != 1700 || out.Tier != game.AwardSilver {
		t.Errorf("outcome = %+v, want 1700 silver", out)
	}
	if !host.state.NewBest {
		t.Error("first run should be a new best")
	}
	if host.state.GetProgressManager().GetData().SessionsPlayed != 1 {
		t.Error("progress not recorded")
	}

	tests := []struct {
		name   string
		err    error
		notice string
	}{
		{"copied", nil, "Summary copied to clipboard"},
		{"unsupported", errClipboardUnsupported, "Clipboard not available on this system"},
		{"failed", errors.New("xsel: exit 1"), "Copy failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var copied string
			s.copyText = func(text string) error {
				copied = text
				return tt.err
			}
			s.copySummary()
			if s.notice != tt.notice {
				t.Errorf("notice = %q, want %q", s.notice, tt.notice)
			}
			if copied != s.summary {
				t.Error("summary not passed to clipboard")
			}
		})
	}
}

func TestSceneFactory(t *testing.T) {
	host := newFakeHost(t, twoQuestionBank())
	factory := NewSceneFactory(host)

	if _, err := factory(game.PhaseExit); err == nil {
		t.Error("exit phase should have no scene")
	}

	host.w, host.h = 0, 0
	scene, err := factory(game.PhaseBattle)
	if !errors.Is(err, battle.ErrNoSurface) || scene != nil {
		t.Errorf("battle without surface: scene=%v err=%v", scene, err)
	}

	if s, err := factory(game.PhaseMenu); err != nil || s == nil {
		t.Errorf("menu: %v", err)
	}
}
