package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据阶段创建对应场景，避免 game 包与 scenes 包循环依赖
type SceneFactory func(phase Phase) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于按阶段创建新场景
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene is disposed if it implements Disposable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		if d, ok := sm.currentScene.(Disposable); ok {
			d.Dispose()
		}
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Enter 创建并切换到指定阶段的场景
//
// 工厂返回错误时不切换，当前场景保持不变（调用方负责回退阶段）。
func (sm *SceneManager) Enter(phase Phase) error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory(phase)
	if err != nil {
		log.Printf("[SceneManager] 错误: 无法创建场景 %s: %v", phase, err)
		return fmt.Errorf("enter %s: %w", phase, err)
	}
	if newScene == nil {
		return fmt.Errorf("enter %s: factory returned nil scene", phase)
	}

	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到场景: %s", phase)
	return nil
}

// Dispose 释放当前场景（程序退出时调用）
func (sm *SceneManager) Dispose() {
	if d, ok := sm.currentScene.(Disposable); ok {
		d.Dispose()
	}
	sm.currentScene = nil
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
