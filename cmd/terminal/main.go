// terminal 是 Frontline 的终端前端
//
// 使用方法:
//
//	go run ./cmd/terminal [-topic general] [-fps 30] [-seed 42]
//
// 在仓库根目录运行时读取 data/ 下的战斗配置与题库（-data 可指定其他根目录）；
// 找不到时使用内置默认值。-verbose 把日志写入 -log 指定的文件，
// 因为终端本身被画面占用。
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/frontline/pkg/embedded"
	"github.com/gonewx/frontline/pkg/game"
)

// appName 与桌面端共用设置与进度
const appName = "frontline"

func main() {
	verbose := flag.Bool("verbose", false, "Write logs to the -log file")
	logPath := flag.String("log", "frontline-terminal.log", "Log file used with -verbose")
	dataRoot := flag.String("data", ".", "Directory containing data/battle.yaml and data/questions")
	configPath := flag.String("config", "", "Battle tuning YAML (default: data/battle.yaml)")
	questionsPath := flag.String("questions", "", "Question bank YAML file or directory (default: data/questions)")
	seed := flag.Int64("seed", 0, "Battle random seed (0 = random)")
	topic := flag.String("topic", "", "Start a run with this topic, skipping the menu")
	fps := flag.Float64("fps", game.NominalTickRate, "Battle frame rate")
	flag.Parse()

	closeLog, err := setupLogging(*verbose, *logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "日志文件打开失败: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if _, err := os.Stat(filepath.Join(*dataRoot, game.EmbeddedBattleConfigPath)); err == nil {
		embedded.Init(os.DirFS(*dataRoot))
	} else {
		log.Printf("[Terminal] No data directory under %s, using built-in defaults", *dataRoot)
	}

	cfg, err := game.LoadBattleConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "战斗配置加载失败: %v\n", err)
		os.Exit(1)
	}
	questions, err := game.NewQuestionProvider(*questionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "题库加载失败: %v\n", err)
		os.Exit(1)
	}

	state := game.NewGameState(cfg, questions, appName)
	state.Seed = *seed

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "终端初始化失败: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "终端初始化失败: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	events := make(chan tcell.Event, 64)
	go pumpEvents(screen, events)

	t := newTerminal(screen, state, events, *fps)
	t.topic = *topic
	err = t.run()

	screen.Fini()
	if state.Pending != nil {
		state.Pending.Cancel()
	}
	t.saveSettings()

	if err != nil && !errors.Is(err, errInputClosed) {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}

// pumpEvents 把 tcell 事件转发到 channel；Fini 之后 PollEvent 返回 nil
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		events <- ev
	}
}

func setupLogging(verbose bool, path string) (func(), error) {
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { f.Close() }, nil
}
