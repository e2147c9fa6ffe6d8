package game

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/utils"
)

// GameState 宿主层的跨阶段状态
//
// 保存当前流程（选题 → 战斗 → 答题 → 结算）的交接数据与持久化管理器。
// 战斗模拟状态不在这里，由 battle.Session 持有的 WorldState 独占。
type GameState struct {
	Config    *config.BattleConfig
	Questions QuestionProvider
	Seed      int64 // 战斗随机种子，0 表示每场随机

	// 当前流程
	SessionID string
	Topic     string
	Pending   *PendingQuestions

	// 战斗交接数据（战斗结束时写入）
	BattleScore int
	BattleKills int
	BattleShots int

	// 答题交接数据
	Bank     *config.QuestionBank
	Correct  int
	Answered int

	// 结算
	Outcome *Outcome
	NewBest bool

	gdataManager    *gdata.Manager
	settingsManager *SettingsManager
	progressManager *ProgressManager
}

// NewGameState 创建宿主状态
//
// appName 为 gdata 存储名；为空或打开失败时进入降级模式（只在内存中保存设置和进度）。
func NewGameState(cfg *config.BattleConfig, questions QuestionProvider, appName string) *GameState {
	if cfg == nil {
		cfg = config.DefaultBattleConfig()
	}

	gs := &GameState{
		Config:    cfg,
		Questions: questions,
	}

	if appName != "" {
		if err := utils.EnsureStorageDir(); err != nil {
			log.Printf("[GameState] Warning: storage dir unavailable: %v", err)
		} else if p := utils.StoragePath(); p != "" {
			log.Printf("[GameState] Storage at %s", p)
		}
		m, err := gdata.Open(gdata.Config{AppName: appName})
		if err != nil {
			log.Printf("[GameState] Warning: gdata unavailable: %v (memory-only mode)", err)
		} else {
			gs.gdataManager = m
		}
	}

	gs.settingsManager, _ = NewSettingsManager(gs.gdataManager)
	gs.progressManager, _ = NewProgressManager(gs.gdataManager)
	return gs
}

// GetSettingsManager 返回设置管理器
func (gs *GameState) GetSettingsManager() *SettingsManager {
	return gs.settingsManager
}

// GetProgressManager 返回进度管理器
func (gs *GameState) GetProgressManager() *ProgressManager {
	return gs.progressManager
}

// BeginRun 选定主题后开始新流程
// 分配新的会话ID并清空上一轮的交接数据
func (gs *GameState) BeginRun(topic string) {
	if gs.Pending != nil {
		gs.Pending.Cancel()
	}
	gs.SessionID = uuid.NewString()
	gs.Topic = topic
	gs.Pending = nil
	gs.BattleScore, gs.BattleKills, gs.BattleShots = 0, 0, 0
	gs.Bank = nil
	gs.Correct, gs.Answered = 0, 0
	gs.Outcome = nil
	gs.NewBest = false
	log.Printf("[GameState] Begin run %s (topic=%s)", gs.SessionID, topic)
}

// RecordBattle 写入战斗结束时的数据
func (gs *GameState) RecordBattle(score, kills, shots int) {
	gs.BattleScore = score
	gs.BattleKills = kills
	gs.BattleShots = shots
}

// AbandonRun 玩家中途退出战斗：取消题库请求，不计入进度
func (gs *GameState) AbandonRun() {
	if gs.Pending != nil {
		gs.Pending.Cancel()
		gs.Pending = nil
	}
	log.Printf("[GameState] Run %s abandoned", gs.SessionID)
}

// FinishRun 计算结算并写入累计进度
func (gs *GameState) FinishRun() Outcome {
	out := ComputeOutcome(gs.BattleScore, gs.BattleKills, gs.Correct, gs.Answered, gs.Config.Award)
	gs.Outcome = &out

	newBest, err := gs.progressManager.Record(BattleRecord{
		SessionID: gs.SessionID,
		Topic:     gs.Topic,
		Score:     out.BattleScore,
		Kills:     out.Kills,
		Correct:   out.Correct,
		Answered:  out.Answered,
		Total:     out.Total,
		Award:     out.Tier,
		PlayedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("[GameState] Warning: progress not saved: %v", err)
	}
	gs.NewBest = newBest
	return out
}
