// Package world 把平台链、跳跃系统、镜头和补间调度器组装成一局游戏
//
// World 不是并发安全的：输入 (PressStart/PressEnd) 与 Update 必须在同一个游戏循环里调用。
package world

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/entities"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/systems"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/google/uuid"
)

const (
	// initialPlatforms 开局时创建的平台数
	initialPlatforms = 2
	// firstGeneratorPlatforms 前三个平台固定使用第一个注册的生成器
	firstGeneratorPlatforms = 3
)

// World 一局跳一跳
type World struct {
	sessionID string
	config    *config.GameConfig

	entityManager *ecs.EntityManager
	scheduler     *tween.Scheduler
	renderer      game.Renderer
	registry      *entities.PlatformFactoryRegistry

	chain  *systems.PlatformChainSystem
	camera *systems.CameraSystem
	jump   *systems.JumpSystem

	started bool
	score   int
	onScore func(score int)
}

// New 创建一局游戏
//
// 参数:
//   - cfg: 已验证的游戏配置
//   - renderer: 渲染器，nil 时不渲染
//   - clock: 补间时钟，nil 时使用系统时钟（测试传入 tween.ManualClock）
func New(cfg *config.GameConfig, renderer game.Renderer, clock tween.Clock) (*World, error) {
	return NewWithScheduler(cfg, renderer, tween.NewScheduler(clock))
}

// NewWithScheduler 用外部的补间调度器创建一局
//
// 渲染器自己的动画（如镜头跟随）放进同一个调度器后，由 Update 一起驱动。
func NewWithScheduler(cfg *config.GameConfig, renderer game.Renderer, scheduler *tween.Scheduler) (*World, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("game config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if renderer == nil {
		renderer = game.NopRenderer{}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	prims := entities.NewPrimitives(seed)

	w := &World{
		sessionID:     uuid.NewString(),
		config:        cfg,
		entityManager: ecs.NewEntityManager(),
		scheduler:     scheduler,
		renderer:      renderer,
		registry:      entities.NewPlatformFactoryRegistry(prims),
	}
	if cfg.UseDefaultFactories {
		w.registry.RegisterDefaults()
	}

	w.chain = systems.NewPlatformChainSystem(w.entityManager, cfg, renderer, w.scheduler, prims)

	camera, err := systems.NewCameraSystem(w.entityManager, cfg, renderer, w.chain)
	if err != nil {
		return nil, err
	}
	w.camera = camera

	player, err := entities.NewPlayerEntity(w.entityManager, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	w.jump = systems.NewJumpSystem(w.entityManager, cfg, w.scheduler, renderer, w.chain, player)
	w.jump.SetOnLanded(w.onLanded)

	log.Printf("[World] Session %s created (view %.0fx%.0f, seed %d)", w.sessionID, cfg.ViewWidth, cfg.ViewHeight, seed)
	return w, nil
}

// RegisterGenerator 注册自定义平台生成器，必须在 Start 之前调用
func (w *World) RegisterGenerator(gen entities.PlatformGenerator, static bool) bool {
	return w.registry.Register(gen, static)
}

// Start 开局：创建前两个平台、镜头就位、小人从第一个平台上方弹跳入场
func (w *World) Start() error {
	if w.started {
		return fmt.Errorf("session %s already started", w.sessionID)
	}
	if w.registry.Len() == 0 {
		return fmt.Errorf("no platform generator registered")
	}

	for i := 0; i < initialPlatforms; i++ {
		if err := w.createPlatform(); err != nil {
			return err
		}
	}
	w.camera.Follow(0)

	spawn := mgl64.Vec3{0, w.config.PlatformHeight + w.config.PlayerSpawnOffset, 0}
	w.jump.Enter(spawn, w.chain.Head())
	w.jump.Jump()

	w.started = true
	w.renderer.RenderFrame()
	log.Printf("[World] Session %s started", w.sessionID)
	return nil
}

// createPlatform 生成一个平台接到链尾
func (w *World) createPlatform() error {
	index := -1
	if w.chain.Created() < firstGeneratorPlatforms {
		index = 0
	}
	fp, err := w.registry.Create(index, w.chain.GeneratorOptions())
	if err != nil {
		return fmt.Errorf("failed to create platform: %w", err)
	}
	w.chain.Append(fp)
	return nil
}

// onLanded 落地：生成下一个平台 → 移动镜头 → 计分
func (w *World) onLanded() {
	if err := w.createPlatform(); err != nil {
		log.Printf("[World] Error: %v", err)
	}
	w.camera.Follow(w.config.FollowDuration)

	w.score++
	if w.onScore != nil {
		w.onScore(w.score)
	}
}

// PressStart 按下：开始蓄力（无效状态下忽略）
func (w *World) PressStart() {
	if !w.started {
		return
	}
	w.jump.PressStart()
	w.renderer.RenderFrame()
}

// PressEnd 松开：起跳（不在蓄力中时忽略）
func (w *World) PressEnd() {
	if !w.started {
		return
	}
	w.jump.PressEnd()
	w.renderer.RenderFrame()
}

// Update 推进一帧，返回是否仍有动画在进行
func (w *World) Update() bool {
	if !w.scheduler.Running() {
		return false
	}
	running := w.scheduler.Update()
	w.renderer.RenderFrame()
	return running
}

// Stop 结束本局：停止所有动画
func (w *World) Stop() {
	w.scheduler.StopAll()
	w.scheduler.Update()
	log.Printf("[World] Session %s stopped, score %d", w.sessionID, w.score)
}

// SetOnScore 设置计分回调
func (w *World) SetOnScore(f func(score int)) {
	w.onScore = f
}

// SessionID 本局ID
func (w *World) SessionID() string {
	return w.sessionID
}

// Score 本局落地次数
func (w *World) Score() int {
	return w.score
}

// Started 是否已开局
func (w *World) Started() bool {
	return w.started
}

// Animating 是否有动画在进行
func (w *World) Animating() bool {
	return w.scheduler.Running()
}

// Config 返回游戏配置
func (w *World) Config() *config.GameConfig {
	return w.config
}

// Scheduler 返回补间调度器
func (w *World) Scheduler() *tween.Scheduler {
	return w.scheduler
}

// Chain 返回平台链
func (w *World) Chain() *systems.PlatformChainSystem {
	return w.chain
}

// Camera 返回镜头系统
func (w *World) Camera() *systems.CameraSystem {
	return w.camera
}

// Jump 返回跳跃系统
func (w *World) Jump() *systems.JumpSystem {
	return w.jump
}

// Player 返回小人组件
func (w *World) Player() *components.PlayerComponent {
	return w.jump.Player()
}
