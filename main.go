package main

import (
	"flag"
	"log"

	"github.com/gonewx/jump/pkg/app"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configPath = flag.String("config", "", "游戏配置文件路径（默认使用内置 data/jump.yaml）")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	width      = flag.Int("width", 0, "视口宽度（覆盖配置）")
	height     = flag.Int("height", 0, "视口高度（覆盖配置）")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示按时间）")
	noRecords  = flag.Bool("no-records", false, "不读写本地成绩")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	gameConfig, err := loadGameConfig()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		Game:           gameConfig,
		DisableRecords: *noRecords,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	w, h := gameApp.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("跳一跳 - Go")
	ebiten.SetWindowClosingHandled(true)

	runErr := ebiten.RunGame(&closingGame{App: gameApp})
	gameApp.SaveOnExit()
	if runErr != nil && runErr != ebiten.Termination {
		log.Fatal(runErr)
	}
}

// loadGameConfig 读取配置文件（或内置配置），再叠加环境变量和命令行覆盖
func loadGameConfig() (*config.GameConfig, error) {
	var (
		cfg *config.GameConfig
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadGameConfig(*configPath)
	} else {
		cfg, err = embedded.LoadGameConfig()
	}
	if err != nil {
		return nil, err
	}

	v := config.NewOverrideSource()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			v.Set(config.KeyViewWidth, *width)
		case "height":
			v.Set(config.KeyViewHeight, *height)
		case "seed":
			v.Set(config.KeySeed, *seed)
		}
	})
	if err := config.ApplyOverrides(cfg, v); err != nil {
		return nil, err
	}
	return cfg, nil
}

// closingGame 在窗口关闭时结束游戏循环，由 main 统一保存成绩
type closingGame struct {
	*app.App
}

func (g *closingGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return g.App.Update()
}
