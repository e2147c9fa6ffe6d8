package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/frontline/pkg/components"
)

func TestBuildSnapshot_ReadOnly(t *testing.T) {
	w := newQuietWorld(t)
	placeAlignedPair(w)
	w.Particles = append(w.Particles, components.Particle{X: 5, Y: 5, Life: 3, MaxLife: 6})
	w.SetShake(10)
	before := *w
	enemiesBefore := append([]components.Enemy(nil), w.Enemies...)

	snap := BuildSnapshot(w, testViewport(), rand.New(rand.NewSource(1)))

	if w.Score != before.Score || w.Shake != before.Shake || w.ViewAngle != before.ViewAngle || w.Tick != before.Tick {
		t.Error("BuildSnapshot mutated world scalars")
	}
	if len(w.Enemies) != len(enemiesBefore) || w.Enemies[0] != enemiesBefore[0] {
		t.Error("BuildSnapshot mutated enemies")
	}

	if len(snap.Enemies) != 1 || len(snap.Bullets) != 1 || len(snap.Particles) != 1 {
		t.Fatalf("snapshot counts: enemies=%d bullets=%d particles=%d",
			len(snap.Enemies), len(snap.Bullets), len(snap.Particles))
	}
	if !near(snap.Particles[0].Alpha, 0.5) {
		t.Errorf("particle alpha = %.2f, want 0.5", snap.Particles[0].Alpha)
	}
	if snap.ShakeX < -10 || snap.ShakeX > 10 || snap.ShakeY < -10 || snap.ShakeY > 10 {
		t.Errorf("shake offset (%.2f, %.2f) exceeds amplitude", snap.ShakeX, snap.ShakeY)
	}
	if len(snap.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(snap.Layers))
	}
}

// TestBuildSnapshot_DoesNotConsumeSimRand 渲染不消耗模拟随机源
func TestBuildSnapshot_DoesNotConsumeSimRand(t *testing.T) {
	a := newQuietWorld(t)
	b := newQuietWorld(t)
	a.SetShake(5)

	BuildSnapshot(a, testViewport(), rand.New(rand.NewSource(9)))
	if a.Rand.Int63() != b.Rand.Int63() {
		t.Error("snapshot consumed the simulation random source")
	}
}

func TestBuildSnapshot_NilFxNoShake(t *testing.T) {
	w := newQuietWorld(t)
	w.SetShake(12)
	snap := BuildSnapshot(w, testViewport(), nil)
	if snap.ShakeX != 0 || snap.ShakeY != 0 {
		t.Error("nil fx source should produce no shake offset")
	}
}

// TestBuildSnapshot_ClampedAndSorted 坐标裁剪到表面内，敌人由远到近排序
func TestBuildSnapshot_ClampedAndSorted(t *testing.T) {
	w := newQuietWorld(t)
	w.Enemies = []components.Enemy{
		{ID: 1, Type: components.EnemyTank, X: 9000, Z: 1.1},
		{ID: 2, Type: components.EnemyHelicopter, X: -9000, Z: 0.2},
		{ID: 3, Type: components.EnemyTank, X: 0, Z: 0.6},
	}
	w.Particles = []components.Particle{{X: -50, Y: 5000, Life: 1, MaxLife: 1}}

	vp := NewViewport(320, 200, w.Config.Projection)
	snap := BuildSnapshot(w, vp, nil)

	wantOrder := []uint64{2, 3, 1}
	for i, id := range wantOrder {
		if snap.Enemies[i].ID != id {
			t.Errorf("enemy[%d] = %d, want %d", i, snap.Enemies[i].ID, id)
		}
	}
	for _, e := range snap.Enemies {
		if e.X < 0 || e.X > 320 || e.Y < 0 || e.Y > 200 {
			t.Errorf("enemy %d at (%.1f, %.1f) outside 320x200", e.ID, e.X, e.Y)
		}
	}
	p := snap.Particles[0]
	if p.X != 0 || p.Y != 200 {
		t.Errorf("particle clamped to (%.1f, %.1f), want (0, 200)", p.X, p.Y)
	}
}

func TestBuildSnapshot_HUDAndRadar(t *testing.T) {
	w := newQuietWorld(t)
	w.Score = 1200
	w.Kills = 12
	w.Player.Health = 2
	w.ViewAngle = 4
	w.Paused = true
	w.Enemies = []components.Enemy{
		{ID: 1, Type: components.EnemyTank, X: 24, Z: 0.1},
		{ID: 2, Type: components.EnemyHelicopter, X: 1000, Z: 1.2},
	}

	snap := BuildSnapshot(w, testViewport(), nil)
	hud := snap.HUD
	if hud.Score != 1200 || hud.Kills != 12 || hud.Health != 2 || hud.MaxHealth != 3 {
		t.Errorf("HUD stats wrong: %+v", hud)
	}
	if hud.Heading != 4 || !hud.Paused || hud.GameOver || hud.Enemies != 2 {
		t.Errorf("HUD flags wrong: %+v", hud)
	}
	if !near(hud.MuzzleX, 480) || !near(hud.MuzzleY, 520) {
		t.Errorf("muzzle = (%.1f, %.1f)", hud.MuzzleX, hud.MuzzleY)
	}

	if len(snap.Radar) != 2 {
		t.Fatalf("radar blips = %d, want 2", len(snap.Radar))
	}
	// 正对视线、刚出生：DX=0，Dist=1
	if !near(snap.Radar[0].DX, 0) || !near(snap.Radar[0].Dist, 1) {
		t.Errorf("blip 0 = %+v, want DX 0 Dist 1", snap.Radar[0])
	}
	// 远在右侧、贴近防线：DX 贴边，Dist 归零
	if snap.Radar[1].DX != 1 || !near(snap.Radar[1].Dist, 0) {
		t.Errorf("blip 1 = %+v, want DX 1 Dist 0", snap.Radar[1])
	}
}

// TestProjectLayers_Parallax 视角变化时近景层移动得比远景层多，并在 [0,W) 内回绕
func TestProjectLayers_Parallax(t *testing.T) {
	layers := []components.BackgroundLayer{
		{Kind: components.LayerFarMountains, Parallax: 2, Shapes: []components.LayerShape{{X: 0.5, Height: 0.2, Width: 0.2}}},
		{Kind: components.LayerNearMountains, Parallax: 5, Shapes: []components.LayerShape{{X: 0.5, Height: 0.1, Width: 0.3}}},
	}
	vp := NewViewport(1000, 600, newQuietWorld(t).Config.Projection)

	at0 := projectLayers(layers, 0, vp)
	at10 := projectLayers(layers, 10, vp)

	farShift := at0[0].Shapes[0].X - at10[0].Shapes[0].X
	nearShift := at0[1].Shapes[0].X - at10[1].Shapes[0].X
	if !near(farShift, 200) || !near(nearShift, 500) {
		t.Errorf("shifts far=%.1f near=%.1f, want 200/500", farShift, nearShift)
	}

	wrapped := projectLayers(layers, 30, vp) // near: 0.5 - 1.5 → 0.0
	if x := wrapped[1].Shapes[0].X; x < 0 || x >= 1000 {
		t.Errorf("wrapped X = %.1f outside [0,1000)", x)
	}
	if !near(at0[0].Shapes[0].BaseY, vp.HorizonY) || !near(at0[0].Shapes[0].Height, 0.2*vp.HorizonY) {
		t.Errorf("mountain geometry wrong: %+v", at0[0].Shapes[0])
	}
}
