package tui

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/gonewx/jump/pkg/world"
)

// frameInterval 约 60 FPS
const frameInterval = 16 * time.Millisecond

// Game 终端版的一局（可重开）
//
// 终端收不到按键松开事件，所以空格第一次按下开始蓄力，再按一次起跳。
type Game struct {
	screen   tcell.Screen
	config   *config.GameConfig
	records  *game.RecordManager
	sound    *Sound
	clock    tween.Clock
	renderer *Renderer // 每局新建

	world    *world.World
	charging bool
}

// NewGame 创建终端游戏并开始第一局
//
// records 和 sound 可以为 nil；clock 为 nil 时使用系统时钟。
func NewGame(screen tcell.Screen, cfg *config.GameConfig, records *game.RecordManager, sound *Sound, clock tween.Clock) (*Game, error) {
	if screen == nil {
		return nil, fmt.Errorf("screen cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("game config cannot be nil")
	}

	g := &Game{
		screen:  screen,
		config:  cfg,
		records: records,
		sound:   sound,
		clock:   clock,
	}
	if err := g.newSession(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) newSession() error {
	g.renderer = NewRenderer(g.screen, DefaultUnitsPerColumn)
	w, err := world.New(g.config, g.renderer, g.clock)
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	w.SetOnScore(func(int) { g.sound.PlayLanding() })
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	g.world = w
	g.charging = false
	return nil
}

// submit 提交当前局的成绩
func (g *Game) submit() {
	if g.records == nil || g.world == nil {
		return
	}
	g.world.Stop()
	g.records.Submit(g.world.SessionID(), g.world.Score())
	if err := g.records.Save(); err != nil {
		log.Printf("[TUI] Failed to save records: %v", err)
	}
}

// Restart 提交当前成绩并开始新的一局
func (g *Game) Restart() error {
	g.submit()
	return g.newSession()
}

// HandleEvent 处理终端事件，返回 false 表示退出
func (g *Game) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			if err := g.Restart(); err != nil {
				log.Printf("[TUI] Restart failed: %v", err)
				return false
			}
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			g.togglePress()
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

// togglePress 空格在按下/松开之间切换
func (g *Game) togglePress() {
	if !g.charging {
		g.world.PressStart()
		g.charging = g.world.Player().IsCharging()
		return
	}
	g.world.PressEnd()
	g.charging = false
	if g.world.Player().IsAirborne() {
		g.sound.PlayLaunch()
	}
}

// Tick 推进一帧
func (g *Game) Tick() {
	g.world.Update()
}

// Draw 绘制平台、小人和状态栏
func (g *Game) Draw() {
	g.renderer.Draw()

	best := g.world.Score()
	if g.records != nil && g.records.BestScore() > best {
		best = g.records.BestScore()
	}
	hud := fmt.Sprintf("Score %d  Best %d", g.world.Score(), best)
	if g.charging {
		hud += "  [charging]"
	}
	g.renderer.DrawText(0, 0, hud, tcell.StyleDefault.Bold(true))

	_, h := g.screen.Size()
	g.renderer.DrawText(0, h-1, "SPACE charge/jump  r restart  q quit", tcell.StyleDefault.Dim(true))
	g.screen.Show()
}

// Run 事件与帧循环，直到用户退出
func (g *Game) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !g.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			g.Tick()
			g.Draw()
		}
	}
}

// Close 提交成绩
func (g *Game) Close() {
	g.submit()
}

// World 返回当前局
func (g *Game) World() *world.World {
	return g.world
}

// Renderer 返回当前渲染器
func (g *Game) Renderer() *Renderer {
	return g.renderer
}

// Charging 空格是否处于"按下"状态
func (g *Game) Charging() bool {
	return g.charging
}
