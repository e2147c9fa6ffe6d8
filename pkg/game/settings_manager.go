package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 全局用户设置
// 不包含任何战斗状态，只影响宿主界面与输入映射
type GameSettings struct {
	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowRadar  bool `yaml:"showRadar"`  // 是否显示雷达

	// 输入设置
	PointerSensitivity float64 `yaml:"pointerSensitivity"` // 指针瞄准灵敏度 0.25 ~ 2.0

	// 上次选择的主题（菜单默认高亮）
	LastTopic string `yaml:"lastTopic"`
}

// 灵敏度范围
const (
	MinPointerSensitivity = 0.25
	MaxPointerSensitivity = 2.0
)

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Fullscreen:         false,
		ShowRadar:          true,
		PointerSensitivity: 1.0,
		LastTopic:          "",
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的签名（加载失败不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本存档缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.PointerSensitivity = clampSensitivity(loaded.PointerSensitivity)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowRadar 设置雷达显示
func (sm *SettingsManager) SetShowRadar(enabled bool) {
	sm.settings.ShowRadar = enabled
}

// SetPointerSensitivity 设置指针灵敏度
// 值会被限制在 [MinPointerSensitivity, MaxPointerSensitivity]
func (sm *SettingsManager) SetPointerSensitivity(v float64) {
	sm.settings.PointerSensitivity = clampSensitivity(v)
}

// SetLastTopic 记录上次选择的主题
func (sm *SettingsManager) SetLastTopic(topic string) {
	sm.settings.LastTopic = topic
}

// clampSensitivity 将灵敏度限制在合法范围内，0 视为未设置
func clampSensitivity(v float64) float64 {
	if v == 0 {
		return 1.0
	}
	if v < MinPointerSensitivity {
		return MinPointerSensitivity
	}
	if v > MaxPointerSensitivity {
		return MaxPointerSensitivity
	}
	return v
}
