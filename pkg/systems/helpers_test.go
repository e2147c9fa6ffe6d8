package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/game"
)

// testViewport 960x600：CenterX=480，HorizonY=270，枪口 (480, 520)
func testViewport() Viewport {
	return NewViewport(960, 600, config.DefaultBattleConfig().Projection)
}

// newQuietWorld 创建不会自动刷怪的世界，便于精确控制场景
func newQuietWorld(t *testing.T) *game.WorldState {
	t.Helper()
	cfg := config.DefaultBattleConfig()
	cfg.Spawn.InitialDelay = 1 << 30
	return game.NewWorldState(cfg, rand.New(rand.NewSource(42)))
}
