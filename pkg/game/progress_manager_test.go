package game

import (
	"fmt"
	"testing"
)

func TestProgressManagerNilGdata(t *testing.T) {
	pm, err := NewProgressManager(nil)
	if err != nil {
		t.Fatalf("NewProgressManager(nil) error: %v", err)
	}

	newBest, err := pm.Record(BattleRecord{Score: 500, Total: 750, Kills: 5})
	if err != nil {
		t.Errorf("Record in memory-only mode should not fail: %v", err)
	}
	if !newBest {
		t.Error("first record should be a new best")
	}

	d := pm.GetData()
	if d.SessionsPlayed != 1 || d.TotalKills != 5 || d.BestTotal != 750 || d.BestScore != 500 {
		t.Errorf("unexpected data: %+v", d)
	}
}

func TestProgressManagerBestAndHistory(t *testing.T) {
	pm, _ := NewProgressManager(nil)

	totals := []int{100, 300, 200}
	wantBest := []bool{true, true, false}
	for i, total := range totals {
		got, _ := pm.Record(BattleRecord{SessionID: fmt.Sprint(i), Total: total})
		if got != wantBest[i] {
			t.Errorf("record %d (total %d): newBest=%v, want %v", i, total, got, wantBest[i])
		}
	}

	d := pm.GetData()
	if d.BestTotal != 300 {
		t.Errorf("BestTotal = %d, want 300", d.BestTotal)
	}
	if d.History[0].SessionID != "2" {
		t.Errorf("history should be newest first, got %q", d.History[0].SessionID)
	}

	for i := 0; i < MaxHistoryRecords+5; i++ {
		_, _ = pm.Record(BattleRecord{Total: 1})
	}
	if len(pm.GetData().History) != MaxHistoryRecords {
		t.Errorf("history length = %d, want %d", len(pm.GetData().History), MaxHistoryRecords)
	}
}

func TestProgressManagerPersistence(t *testing.T) {
	gdataManager := createTestGdataManager(t, "frontline_progress_test")

	pm, err := NewProgressManager(gdataManager)
	if err != nil {
		t.Fatalf("NewProgressManager failed: %v", err)
	}
	if _, err := pm.Record(BattleRecord{SessionID: "abc", Topic: "physics", Score: 900, Total: 1400, Kills: 9, Award: AwardBronze}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	reloaded, _ := NewProgressManager(gdataManager)
	d := reloaded.GetData()
	if d.BestTotal != 1400 || d.SessionsPlayed != 1 || d.TotalKills != 9 {
		t.Errorf("reloaded summary mismatch: %+v", d)
	}
	if len(d.History) != 1 || d.History[0].Topic != "physics" || d.History[0].Award != AwardBronze {
		t.Errorf("reloaded history mismatch: %+v", d.History)
	}
}
