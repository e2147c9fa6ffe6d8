package game

import (
	"fmt"
	"strings"

	"github.com/gonewx/frontline/pkg/config"
)

// AwardTier 结算评级
type AwardTier string

const (
	AwardNone   AwardTier = "none"
	AwardBronze AwardTier = "bronze"
	AwardSilver AwardTier = "silver"
	AwardGold   AwardTier = "gold"
)

// Outcome 一次完整流程（战斗 + 答题）的结算结果
type Outcome struct {
	BattleScore int
	Kills       int
	Correct     int
	Answered    int
	Total       int // BattleScore + Correct * CorrectAnswerBonus
	Tier        AwardTier
}

// ComputeOutcome 计算结算结果
// 答对题目按 CorrectAnswerBonus 加分，评级按阈值从高到低匹配
func ComputeOutcome(battleScore, kills, correct, answered int, cfg config.AwardConfig) Outcome {
	if correct < 0 {
		correct = 0
	}
	total := battleScore + correct*cfg.CorrectAnswerBonus

	tier := AwardNone
	switch {
	case total >= cfg.Gold:
		tier = AwardGold
	case total >= cfg.Silver:
		tier = AwardSilver
	case total >= cfg.Bronze:
		tier = AwardBronze
	}

	return Outcome{
		BattleScore: battleScore,
		Kills:       kills,
		Correct:     correct,
		Answered:    answered,
		Total:       total,
		Tier:        tier,
	}
}

// Summary 结算的纯文本摘要（复制到剪贴板、终端显示）
func (o Outcome) Summary(topic string, bonus int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frontline results\n")
	if topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", topic)
	}
	fmt.Fprintf(&b, "Battle score: %d (%d kills)\n", o.BattleScore, o.Kills)
	fmt.Fprintf(&b, "Knowledge check: %d/%d correct (+%d)\n", o.Correct, o.Answered, o.Correct*bonus)
	fmt.Fprintf(&b, "Total: %d\n", o.Total)
	fmt.Fprintf(&b, "Award: %s", o.Tier)
	return b.String()
}
