// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/scenes"
	"github.com/gonewx/jump/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Game 游戏配置，为 nil 时使用 375x667 的默认配置
	Game *config.GameConfig
	// DisableRecords 不读写本地成绩（用于调试）
	DisableRecords bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	records                  *game.RecordManager
	gameConfig               *config.GameConfig
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameConfig := cfg.Game
	if gameConfig == nil {
		gameConfig = config.NewGameConfig(375, 667)
	}
	if err := gameConfig.Validate(); err != nil {
		return nil, fmt.Errorf("游戏配置无效: %w", err)
	}

	var records *game.RecordManager
	if cfg.DisableRecords {
		records = game.NewRecordManager(nil)
	} else {
		records = game.NewRecordManager(openStorage())
	}
	log.Printf("[App] RecordManager initialized (persistent=%v, best=%d)", records.IsPersistent(), records.BestScore())

	// 创建场景管理器，每次重开都是一局新的 World
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		return scenes.NewJumpScene(gameConfig, sceneManager, records, nil)
	})
	if !sceneManager.Restart() {
		return nil, fmt.Errorf("无法创建游戏场景")
	}

	return &App{
		sceneManager: sceneManager,
		records:      records,
		gameConfig:   gameConfig,
	}, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil（成绩只保存在内存中）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir unavailable: %v", err)
		return nil
	}
	manager, err := gdata.Open(gdata.Config{AppName: game.StorageAppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v", err)
		return nil
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[App] Records stored under %s", path)
	}
	return manager
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.WindowSize()
			ebiten.SetWindowSize(w, h)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸（即视口尺寸）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.WindowSize()
}

// WindowSize 返回视口尺寸（像素）
func (a *App) WindowSize() (int, int) {
	return int(a.gameConfig.ViewWidth), int(a.gameConfig.ViewHeight)
}

// SaveOnExit 窗口关闭时保存当前场景的成绩
func (a *App) SaveOnExit() bool {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Records 返回成绩管理器
func (a *App) Records() *game.RecordManager {
	return a.records
}
