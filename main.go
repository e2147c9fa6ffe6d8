package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/frontline/pkg/app"
	"github.com/gonewx/frontline/pkg/config"
	"github.com/gonewx/frontline/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	configPath := flag.String("config", "", "Battle tuning YAML (default: embedded data/battle.yaml)")
	questionsPath := flag.String("questions", "", "Question bank YAML file or directory (default: embedded banks)")
	seed := flag.Int64("seed", 0, "Battle random seed (0 = random)")
	topic := flag.String("topic", "", "Start a run with this topic, skipping the menu")
	flag.Parse()

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:          *verbose,
		BattleConfigPath: *configPath,
		QuestionsPath:    *questionsPath,
		Topic:            *topic,
		Seed:             *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Frontline")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if gameApp.State().GetSettingsManager().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	err = ebiten.RunGame(gameApp)
	gameApp.Shutdown()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}
