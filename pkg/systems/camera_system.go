package systems

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/physics"
)

const (
	// CameraVerticalAngle 相机俯视角（度）
	CameraVerticalAngle = 35.0
	// CameraHorizontalAngle 相机水平方位角（度）
	CameraHorizontalAngle = 225.0
	// CameraNear / CameraFar 视锥体近、远端面
	CameraNear = 0.1
	CameraFar  = 2000.0
)

// LightInitialPosition 光源初始位置（相对场景中心）
var LightInitialPosition = mgl64.Vec3{-300, 600, 200}

// CameraSystem 管理镜头跟随。
// 镜头总是看向最新两个平台的中点；实际的平滑移动交给渲染器，
// 移动完成后回收超出安全长度的平台。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	renderer      game.Renderer
	chain         *PlatformChainSystem
	cameraEntity  ecs.EntityID // 镜头实体ID
	horizon       int
}

// NewCameraSystem 创建镜头系统。
// 相机初始位置由视口高度推导，视口过矮导致无法计算时返回错误。
func NewCameraSystem(em *ecs.EntityManager, cfg *config.GameConfig, renderer game.Renderer, chain *PlatformChainSystem) (*CameraSystem, error) {
	if renderer == nil {
		renderer = game.NopRenderer{}
	}

	half := cfg.ViewHeight / 2
	cameraInitial, err := physics.CameraInitialPosition(CameraVerticalAngle, CameraHorizontalAngle, half, half, CameraNear, CameraFar)
	if err != nil {
		return nil, fmt.Errorf("failed to compute camera position: %w", err)
	}

	cs := &CameraSystem{
		entityManager: em,
		renderer:      renderer,
		chain:         chain,
		horizon:       SafeHorizon(cfg.ViewWidth, cfg.ViewHeight, cfg.PlatformSizeRange.Min),
	}

	// 创建镜头实体
	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		CameraInitial: cameraInitial,
		LightInitial:  LightInitialPosition,
		OffsetY:       cfg.ViewHeight / 10,
		CameraTarget:  cameraInitial,
		LightTarget:   LightInitialPosition,
	})

	return cs, nil
}

// Horizon 返回平台链的安全长度
func (cs *CameraSystem) Horizon() int {
	return cs.horizon
}

// FollowTarget 返回跟随点：最新两个平台的中点
func (cs *CameraSystem) FollowTarget() mgl64.Vec3 {
	return cs.chain.LastTwoCenter()
}

// Follow 把相机、光源和地面移向跟随点。
// 相机高度不变，X/Z 额外偏移 OffsetY 让可视区上移；移动完成后回收平台。
func (cs *CameraSystem) Follow(duration time.Duration) {
	cameraComp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return
	}

	center := cs.FollowTarget()
	cameraComp.CameraTarget = mgl64.Vec3{
		center.X() + cameraComp.CameraInitial.X() + cameraComp.OffsetY,
		cameraComp.CameraInitial.Y(),
		center.Z() + cameraComp.CameraInitial.Z() + cameraComp.OffsetY,
	}
	cameraComp.LightTarget = mgl64.Vec3{
		center.X() + cameraComp.LightInitial.X(),
		cameraComp.LightInitial.Y(),
		center.Z() + cameraComp.LightInitial.Z(),
	}
	cameraComp.GroundCenter = center
	cameraComp.Duration = duration
	cameraComp.IsAnimating = true
	cameraComp.Moves++

	cs.renderer.MoveFollowTarget(cameraComp.CameraTarget, cameraComp.LightTarget, center, duration, func() {
		cameraComp.IsAnimating = false
		cs.chain.EvictBefore(cs.horizon)
	})
}

// IsAnimating 返回镜头是否正在移动。
func (cs *CameraSystem) IsAnimating() bool {
	cameraComp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return false
	}
	return cameraComp.IsAnimating
}

// Camera 返回镜头组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	cameraComp, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cameraComp
}
