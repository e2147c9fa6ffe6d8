package app

import (
	"testing"

	"github.com/gonewx/frontline/pkg/game"
	"github.com/gonewx/frontline/pkg/scenes"
)

// newTestApp 在临时 HOME 下创建应用（设置与进度写入临时目录）
func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	if cfg.AppName == "" {
		cfg.AppName = "frontline_app_test"
	}
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

// step 模拟一帧：更新当前场景后执行登记的切换
func step(a *App) {
	a.sceneManager.Update(1.0 / 60)
	a.applyPending()
}

func TestNewApp_StartsAtMenu(t *testing.T) {
	a := newTestApp(t, Config{})
	if a.Phase() != game.PhaseMenu {
		t.Errorf("phase = %s, want menu", a.Phase())
	}
	if _, ok := a.sceneManager.GetCurrentScene().(*scenes.MenuScene); !ok {
		t.Errorf("scene = %T, want *scenes.MenuScene", a.sceneManager.GetCurrentScene())
	}
	if w, h := a.Size(); w != 960 || h != 600 {
		t.Errorf("initial size = %dx%d, want 960x600", w, h)
	}
}

func TestNewApp_BadConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := NewApp(Config{BattleConfigPath: "/nonexistent/battle.yaml"}); err == nil {
		t.Error("expected error for missing battle config")
	}
	if _, err := NewApp(Config{QuestionsPath: "/nonexistent/questions"}); err == nil {
		t.Error("expected error for missing question path")
	}
}

// TestApp_TopicSkipsMenu 指定主题：菜单 → 加载 → 战斗
func TestApp_TopicSkipsMenu(t *testing.T) {
	a := newTestApp(t, Config{Topic: "general", Seed: 5})
	if a.state.Topic != "general" || a.state.SessionID == "" {
		t.Fatalf("run not begun: topic=%q id=%q", a.state.Topic, a.state.SessionID)
	}

	a.applyPending()
	if a.Phase() != game.PhaseLoading {
		t.Fatalf("phase = %s, want loading", a.Phase())
	}
	if a.state.Pending == nil {
		t.Error("questions not requested on entering loading")
	}

	step(a)
	if a.Phase() != game.PhaseBattle {
		t.Fatalf("phase = %s, want battle", a.Phase())
	}
	bs, ok := a.sceneManager.GetCurrentScene().(*scenes.BattleScene)
	if !ok {
		t.Fatalf("scene = %T, want *scenes.BattleScene", a.sceneManager.GetCurrentScene())
	}
	if !bs.Session().Active() {
		t.Error("battle session should be running")
	}

	// 主动离开战斗：会话拆除，本轮作废
	a.RequestPhase(game.PhaseMenu)
	a.applyPending()
	if a.Phase() != game.PhaseMenu {
		t.Fatalf("phase = %s, want menu", a.Phase())
	}
	if bs.Session().Active() {
		t.Error("session still active after leaving battle")
	}
	if a.state.Pending != nil {
		t.Error("pending questions should be cancelled and cleared")
	}
}

// TestApp_NoSurfaceFailsClosed 表面不可用时从加载阶段回到菜单
func TestApp_NoSurfaceFailsClosed(t *testing.T) {
	a := newTestApp(t, Config{Topic: "general"})
	a.Layout(0, 0)

	a.applyPending() // → loading
	step(a)          // loading 检测到表面不可用 → menu

	if a.Phase() != game.PhaseMenu {
		t.Fatalf("phase = %s, want menu", a.Phase())
	}
	want := []game.Phase{game.PhaseMenu, game.PhaseLoading, game.PhaseMenu}
	got := a.phases.History()
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestApp_InvalidRequestIgnored(t *testing.T) {
	a := newTestApp(t, Config{})
	a.RequestPhase(game.PhaseResults)
	a.applyPending()
	if a.Phase() != game.PhaseMenu {
		t.Errorf("phase = %s, want menu after rejected transition", a.Phase())
	}
}

func TestApp_ExitSetsQuit(t *testing.T) {
	a := newTestApp(t, Config{})
	a.RequestPhase(game.PhaseExit)
	a.applyPending()
	if !a.quit || a.Phase() != game.PhaseExit {
		t.Errorf("quit=%v phase=%s", a.quit, a.Phase())
	}
}

func TestApp_LayoutTracksWindow(t *testing.T) {
	a := newTestApp(t, Config{})
	if w, h := a.Layout(1280, 720); w != 1280 || h != 720 {
		t.Errorf("Layout = %dx%d", w, h)
	}
	if w, h := a.Size(); w != 1280 || h != 720 {
		t.Errorf("Size = %dx%d after Layout", w, h)
	}
}
