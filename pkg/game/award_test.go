package game

import (
	"strings"
	"testing"

	"github.com/gonewx/frontline/pkg/config"
)

func TestComputeOutcome(t *testing.T) {
	cfg := config.DefaultBattleConfig().Award // bonus 250, 500/1500/3000

	tests := []struct {
		name      string
		score     int
		correct   int
		wantTotal int
		wantTier  AwardTier
	}{
		{"nothing", 0, 0, 0, AwardNone},
		{"quiz only bronze", 0, 2, 500, AwardBronze},
		{"just below silver", 1200, 1, 1450, AwardBronze},
		{"silver", 1000, 2, 1500, AwardSilver},
		{"gold", 2500, 2, 3000, AwardGold},
		{"negative correct clamps", 300, -4, 300, AwardNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ComputeOutcome(tt.score, 5, tt.correct, 3, cfg)
			if out.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", out.Total, tt.wantTotal)
			}
			if out.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", out.Tier, tt.wantTier)
			}
			if out.BattleScore != tt.score || out.Kills != 5 || out.Answered != 3 {
				t.Errorf("pass-through fields wrong: %+v", out)
			}
		})
	}
}

func TestOutcomeSummary(t *testing.T) {
	out := ComputeOutcome(1200, 12, 2, 3, config.DefaultBattleConfig().Award)
	got := out.Summary("aviation", 250)

	for _, want := range []string{
		"Topic: aviation",
		"Battle score: 1200 (12 kills)",
		"Knowledge check: 2/3 correct (+500)",
		"Total: 1700",
		"Award: silver",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	// 没有主题时不输出主题行
	if strings.Contains(out.Summary("", 250), "Topic:") {
		t.Error("empty topic should be omitted")
	}
}
