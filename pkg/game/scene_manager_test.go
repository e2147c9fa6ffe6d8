package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	disposed     int
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// Dispose counts disposals.
func (m *MockScene) Dispose() {
	m.disposed++
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.currentScene != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 1.0 / 60.0
	sm.Update(deltaTime)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerNoScene verifies that Update/Draw handle a nil scene gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016) // Should not panic
	sm.Draw(nil)     // Should not panic
}

// TestSceneManagerDraw verifies that Draw calls the current scene's Draw method.
func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Draw(nil)

	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerSwitchDisposesPrevious verifies the old scene is disposed exactly once.
func TestSceneManagerSwitchDisposesPrevious(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1) // 同一场景不会被释放
	if scene1.disposed != 0 {
		t.Fatalf("re-switching to the same scene disposed it %d times", scene1.disposed)
	}

	sm.SwitchTo(scene2)
	if scene1.disposed != 1 {
		t.Errorf("scene1 disposed %d times, want 1", scene1.disposed)
	}

	sm.Update(0.016)
	if scene1.updateCalled {
		t.Error("scene1 should not receive updates after switching")
	}
	if !scene2.updateCalled {
		t.Error("scene2's Update was not called after switching")
	}

	sm.Dispose()
	if scene2.disposed != 1 {
		t.Errorf("scene2 disposed %d times, want 1", scene2.disposed)
	}
	if sm.GetCurrentScene() != nil {
		t.Error("current scene should be nil after Dispose")
	}
}

// TestSceneManagerEnter verifies factory-based phase entry.
func TestSceneManagerEnter(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Enter(PhaseMenu); err == nil {
		t.Fatal("Enter without factory should fail")
	}

	menu := &MockScene{}
	errNoSurface := errors.New("no surface")
	sm.SetSceneFactory(func(phase Phase) (Scene, error) {
		switch phase {
		case PhaseMenu:
			return menu, nil
		case PhaseBattle:
			return nil, errNoSurface
		}
		return nil, nil
	})

	if err := sm.Enter(PhaseMenu); err != nil {
		t.Fatalf("Enter(menu) failed: %v", err)
	}
	if sm.GetCurrentScene() != menu {
		t.Fatal("menu scene not active")
	}

	err := sm.Enter(PhaseBattle)
	if !errors.Is(err, errNoSurface) {
		t.Fatalf("Enter(battle) error = %v, want wrapped errNoSurface", err)
	}
	if sm.GetCurrentScene() != menu {
		t.Error("failed Enter must leave the current scene untouched")
	}
	if menu.disposed != 0 {
		t.Error("failed Enter must not dispose the current scene")
	}

	if err := sm.Enter(PhaseResults); err == nil {
		t.Error("nil scene from factory should be an error")
	}
}
