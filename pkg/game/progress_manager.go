package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MaxHistoryRecords 保留的最近战绩条数
const MaxHistoryRecords = 10

// BattleRecord 一次流程的战绩
type BattleRecord struct {
	SessionID string    `yaml:"sessionId"`
	Topic     string    `yaml:"topic"`
	Score     int       `yaml:"score"`
	Kills     int       `yaml:"kills"`
	Correct   int       `yaml:"correct"`
	Answered  int       `yaml:"answered"`
	Total     int       `yaml:"total"`
	Award     AwardTier `yaml:"award"`
	PlayedAt  time.Time `yaml:"playedAt"`
}

// ProgressData 跨会话的累计进度
//
// 只保存结算结果，战斗模拟状态从不持久化。
type ProgressData struct {
	BestTotal      int            `yaml:"bestTotal"`
	BestScore      int            `yaml:"bestScore"`
	SessionsPlayed int            `yaml:"sessionsPlayed"`
	TotalKills     int            `yaml:"totalKills"`
	History        []BattleRecord `yaml:"history"` // 最新的在前
}

// ProgressManager 累计进度管理器
//
// 与 SettingsManager 一样使用 gdata 存储 YAML 数据；gdataManager 为 nil 时
// 进入降级模式，只在内存中记录。
type ProgressManager struct {
	gdataManager *gdata.Manager
	data         *ProgressData
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "summary"
)

// NewProgressManager 创建进度管理器并尝试加载已有数据
func NewProgressManager(gdataManager *gdata.Manager) (*ProgressManager, error) {
	pm := &ProgressManager{
		gdataManager: gdataManager,
		data:         &ProgressData{},
	}

	if err := pm.Load(); err != nil {
		log.Printf("[ProgressManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}

	return pm, nil
}

// Load 从 gdata 加载进度
func (pm *ProgressManager) Load() error {
	if pm.gdataManager == nil {
		return nil
	}

	if !pm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		pm.data = &ProgressData{}
		return nil
	}

	raw, err := pm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		pm.data = &ProgressData{}
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded ProgressData
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		pm.data = &ProgressData{}
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	pm.data = &loaded
	log.Printf("[ProgressManager] Progress loaded: best=%d sessions=%d", loaded.BestTotal, loaded.SessionsPlayed)
	return nil
}

// Save 保存进度到 gdata
func (pm *ProgressManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(pm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := pm.gdataManager.SaveObjectProp(progressObject, progressProperty, raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	log.Printf("[ProgressManager] Progress saved")
	return nil
}

// Record 记录一次流程结果并持久化
//
// 返回：
//   - newBest: 本次总分是否刷新了最高纪录
//   - error: 保存失败（内存中的数据仍已更新）
func (pm *ProgressManager) Record(rec BattleRecord) (newBest bool, err error) {
	d := pm.data
	d.SessionsPlayed++
	d.TotalKills += rec.Kills
	if rec.Score > d.BestScore {
		d.BestScore = rec.Score
	}
	if rec.Total > d.BestTotal {
		d.BestTotal = rec.Total
		newBest = true
	}

	d.History = append([]BattleRecord{rec}, d.History...)
	if len(d.History) > MaxHistoryRecords {
		d.History = d.History[:MaxHistoryRecords]
	}

	return newBest, pm.Save()
}

// GetData 返回当前进度（只读使用）
func (pm *ProgressManager) GetData() *ProgressData {
	return pm.data
}
