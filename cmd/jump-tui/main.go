// jump-tui 在终端里玩跳一跳
//
// 用法：
//
//	go run ./cmd/jump-tui [-config data/jump.yaml] [-seed 42] [-mute] [-log jump.log]
//
// 终端没有按键松开事件：空格按一次开始蓄力，再按一次起跳。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/jump/internal/tui"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/game"
	"github.com/quasilyte/gdata/v2"
)

var (
	configPath = flag.String("config", "", "游戏配置文件路径（默认 375x667 内置参数）")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示按时间）")
	mute       = flag.Bool("mute", false, "关闭音效")
	logPath    = flag.String("log", "", "日志文件（终端被游戏占用，默认不输出日志）")
	noRecords  = flag.Bool("no-records", false, "不读写本地成绩")
)

func main() {
	flag.Parse()

	closeLog, err := setupLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	records := game.NewRecordManager(nil)
	if !*noRecords {
		if manager, err := gdata.Open(gdata.Config{AppName: game.StorageAppName}); err == nil {
			records = game.NewRecordManager(manager)
		} else {
			log.Printf("[TUI] gdata unavailable: %v", err)
		}
	}

	var sound *tui.Sound
	if !*mute {
		sound = tui.NewSound()
		defer sound.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	g, err := tui.NewGame(screen, cfg, records, sound, nil)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	g.Run()
}

// loadGameConfig 配置文件或默认配置，再叠加 JUMP_* 环境变量和 -seed
func loadGameConfig() (*config.GameConfig, error) {
	cfg := config.NewGameConfig(375, 667)
	if *configPath != "" {
		loaded, err := config.LoadGameConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := config.NewOverrideSource()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			v.Set(config.KeySeed, *seed)
		}
	})
	if err := config.ApplyOverrides(cfg, v); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}
