package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/game"
)

// TestStep_KillScenario 正前方的敌人被一发子弹击毁：同一 tick 内双方移除、+100、30 个粒子
func TestStep_KillScenario(t *testing.T) {
	w := newQuietWorld(t)
	vp := testViewport()
	w.Enemies = append(w.Enemies, components.Enemy{ID: w.NextEnemyID(), Type: components.EnemyTank, Z: 0.55, Health: 1})

	res := Step(w, Intents{Fire: 1}, 1, vp)
	if res.Fired != 1 {
		t.Fatalf("Fired = %d, want 1", res.Fired)
	}

	for tick := 2; tick <= 10 && w.Kills == 0; tick++ {
		res = Step(w, Intents{}, 1, vp)
	}
	if w.Kills != 1 || w.Score != 100 {
		t.Fatalf("kills=%d score=%d, want 1/100", w.Kills, w.Score)
	}
	if len(res.Hits) != 1 || !res.Hits[0].Killed {
		t.Errorf("last step hits = %+v", res.Hits)
	}
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Errorf("enemies=%d bullets=%d, want 0/0", len(w.Enemies), len(w.Bullets))
	}
	if len(w.Particles) != 30 {
		t.Errorf("particles = %d, want 30", len(w.Particles))
	}
}

func TestStep_PauseFreezesSimulation(t *testing.T) {
	w := newQuietWorld(t)
	vp := testViewport()
	w.Enemies = append(w.Enemies, components.Enemy{ID: 1, Type: components.EnemyTank, Z: 0.3, Health: 1})

	res := Step(w, Intents{TogglePause: true, Fire: 1}, 1, vp)
	if !res.PauseToggled || !w.Paused || res.Advanced {
		t.Fatalf("pause toggle: %+v paused=%v", res, w.Paused)
	}
	if w.Enemies[0].Z != 0.3 || len(w.Bullets) != 0 || w.Tick != 0 {
		t.Error("paused step advanced the world")
	}

	res = Step(w, Intents{TogglePause: true}, 1, vp)
	if w.Paused || !res.Advanced || w.Tick != 1 {
		t.Errorf("resume failed: paused=%v advanced=%v tick=%d", w.Paused, res.Advanced, w.Tick)
	}
}

func TestStep_GameOverIsTerminal(t *testing.T) {
	w := newQuietWorld(t)
	vp := testViewport()
	w.Player.Health = 1
	w.Enemies = append(w.Enemies, components.Enemy{ID: 1, Z: 1.199})

	res := Step(w, Intents{}, 1, vp)
	if !res.GameOverNow || !w.GameOver {
		t.Fatalf("expected game over, got %+v", res)
	}

	tick := w.Tick
	res = Step(w, Intents{Fire: 3, TogglePause: true, Strafe: 1}, 1, vp)
	if res.Advanced || res.GameOverNow || res.PauseToggled {
		t.Errorf("step after game over did something: %+v", res)
	}
	if w.Tick != tick || len(w.Bullets) != 0 || w.Paused {
		t.Error("world changed after game over")
	}
}

func TestStep_ExitPassesThrough(t *testing.T) {
	w := newQuietWorld(t)
	if res := Step(w, Intents{Exit: true}, 1, testViewport()); !res.ExitRequested {
		t.Error("ExitRequested not reported")
	}
}

// TestStep_Invariants 随机长局：生命值 ∈ [0,3]、只因突破减少且每次减 1、
// 得分单调不减、游戏结束当且仅当生命值为 0 且不会被清除
func TestStep_Invariants(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		w := game.NewWorldState(nil, rand.New(rand.NewSource(seed)))
		vp := testViewport()
		input := rand.New(rand.NewSource(seed * 31))

		prevHealth := w.Player.Health
		prevScore := w.Score
		wasOver := false

		for tick := 0; tick < 20000; tick++ {
			in := Intents{
				TargetAngle: (input.Float64()*2 - 1) * 30,
				HasTarget:   input.Intn(10) == 0,
			}
			if input.Intn(8) == 0 {
				in.Fire = 1
			}
			res := Step(w, in, 1, vp)

			h := w.Player.Health
			if h < 0 || h > 3 {
				t.Fatalf("seed %d tick %d: health %d out of [0,3]", seed, tick, h)
			}
			if lost := prevHealth - h; lost != 0 && (res.Breaches == 0 || lost > res.Breaches) {
				t.Fatalf("seed %d tick %d: health dropped %d with %d breaches", seed, tick, lost, res.Breaches)
			}
			if h > prevHealth {
				t.Fatalf("seed %d tick %d: health increased", seed, tick)
			}
			if w.Score < prevScore {
				t.Fatalf("seed %d tick %d: score decreased", seed, tick)
			}
			if w.GameOver != (h == 0) {
				t.Fatalf("seed %d tick %d: gameOver=%v with health %d", seed, tick, w.GameOver, h)
			}
			if wasOver && !w.GameOver {
				t.Fatalf("seed %d tick %d: game over was cleared", seed, tick)
			}
			if w.LiveEntities() > w.Config.Limits.MaxLiveEntities || len(w.Particles) > w.Config.Limits.MaxParticles {
				t.Fatalf("seed %d tick %d: entity caps exceeded", seed, tick)
			}

			prevHealth, prevScore, wasOver = h, w.Score, w.GameOver
			if w.GameOver {
				break
			}
		}
	}
}
