package scenes

import (
	"fmt"
	"log"

	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/gonewx/jump/pkg/utils"
	"github.com/gonewx/jump/pkg/world"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// HUD 文字位置
	hudX     = 12
	hudY     = 12
	hudLineH = 18
)

// JumpScene 一局跳一跳的 ebiten 场景
//
// 输入（按住蓄力、松开起跳）转发给 World，World 通过 EbitenRenderer 推送画面。
// 场景结束（重开或关闭窗口）时把得分提交给 RecordManager。
type JumpScene struct {
	sceneManager *game.SceneManager
	records      *game.RecordManager

	world    *world.World
	renderer *EbitenRenderer
	input    *utils.PressTracker

	newBest   bool
	submitted bool
}

// NewJumpScene 创建并开始一局
//
// 参数:
//   - cfg: 游戏配置
//   - sceneManager: 用于 R 键重开，可以为 nil
//   - records: 成绩记录，可以为 nil（不记录）
//   - clock: 补间时钟，nil 时使用系统时钟
func NewJumpScene(cfg *config.GameConfig, sceneManager *game.SceneManager, records *game.RecordManager, clock tween.Clock) (*JumpScene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game config cannot be nil")
	}

	// 游戏补间和镜头补间共用一个调度器
	scheduler := tween.NewScheduler(clock)
	renderer := NewEbitenRenderer(cfg.ViewWidth, cfg.ViewHeight, scheduler)
	w, err := world.NewWithScheduler(cfg, renderer, scheduler)
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	s := &JumpScene{
		sceneManager: sceneManager,
		records:      records,
		world:        w,
		renderer:     renderer,
		input:        utils.NewPressTracker(),
	}
	w.SetOnScore(s.onScore)

	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	log.Printf("[JumpScene] Session %s ready", w.SessionID())
	return s, nil
}

func (s *JumpScene) onScore(score int) {
	if s.records != nil && !s.newBest && score > s.records.BestScore() {
		s.newBest = true
		log.Printf("[JumpScene] Beat best score %d", s.records.BestScore())
	}
}

// Update 处理输入并推进一帧
func (s *JumpScene) Update(deltaTime float64) {
	if utils.IsRestartRequested() && s.sceneManager != nil {
		s.sceneManager.Restart()
		return
	}

	s.HandlePress(s.input.Poll())
	s.Tick()
}

// HandlePress 把按压边沿转成蓄力/起跳
func (s *JumpScene) HandlePress(state utils.PressState) {
	switch state {
	case utils.PressStarted:
		s.world.PressStart()
	case utils.PressEnded:
		s.world.PressEnd()
	}
}

// Tick 推进一帧（镜头补间在同一个调度器里）
func (s *JumpScene) Tick() {
	s.world.Update()
}

// Draw 绘制场景和得分
func (s *JumpScene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(screen)

	best := s.world.Score()
	if s.records != nil && s.records.BestScore() > best {
		best = s.records.BestScore()
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", s.world.Score()), hudX, hudY)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Best: %d", best), hudX, hudY+hudLineH)
	if s.newBest {
		ebitenutil.DebugPrintAt(screen, "New best!", hudX, hudY+2*hudLineH)
	}

	hint := "Hold SPACE or mouse to charge, R to restart"
	if utils.IsMobile() {
		hint = "Touch and hold to charge"
	}
	ebitenutil.DebugPrintAt(screen, hint, hudX, int(s.world.Config().ViewHeight)-hudY-hudLineH)
}

// SaveOnExit 提交本局得分并落盘，只提交一次
func (s *JumpScene) SaveOnExit() bool {
	if s.submitted || s.records == nil {
		return true
	}
	s.submitted = true
	s.world.Stop()

	s.records.Submit(s.world.SessionID(), s.world.Score())
	if err := s.records.Save(); err != nil {
		log.Printf("[JumpScene] Failed to save records: %v", err)
		return false
	}
	return true
}

// World 返回本局的 World
func (s *JumpScene) World() *world.World {
	return s.world
}

// Renderer 返回渲染器
func (s *JumpScene) Renderer() *EbitenRenderer {
	return s.renderer
}
