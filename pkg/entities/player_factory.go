package entities

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
)

const (
	// PlayerHeadRatio 头部半径 = 视口宽度 × PlayerHeadRatio
	PlayerHeadRatio = 0.03
	// PlayerBodyRatio 身体高度 = 头部半径 × PlayerBodyRatio（也是头部静止时的 Y 位移）
	PlayerBodyRatio = 4.5
	// PlayerBaseTheta 起跳基础角度（度）
	PlayerBaseTheta = 90.0
)

// PlayerColor 小人颜色
var PlayerColor = color.RGBA{R: 0x38, G: 0x68, B: 0x99, A: 0xFF}

// NewPlayerEntity 创建小人实体
// 小人出生在第一个平台正上方 (0, platformHeight+playerSpawnOffset, 0)，
// 入场时由跳跃系统让它弹跳落到平台上。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 游戏配置（视口宽度决定身体尺寸和基础初速度）
//
// 返回:
//   - ecs.EntityID: 小人实体ID
//   - error: 参数无效时返回错误
func NewPlayerEntity(em *ecs.EntityManager, cfg *config.GameConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return 0, fmt.Errorf("game config cannot be nil")
	}

	headSize := cfg.ViewWidth * PlayerHeadRatio
	bodySize := headSize * PlayerBodyRatio
	rest := components.Pose{
		HeadOffset:  bodySize,
		BodyScaleXZ: 1,
		BodyScaleY:  1,
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: mgl64.Vec3{0, cfg.PlatformHeight + cfg.PlayerSpawnOffset, 0},
	})
	ecs.AddComponent(em, id, components.NewScaleComponent())
	ecs.AddComponent(em, id, &components.PlayerComponent{
		State:       components.PlayerIdle,
		Pose:        rest,
		RestPose:    rest,
		ChargedPose: rest,
		HeadSize:    headSize,
		BodySize:    bodySize,
		V0:          cfg.V0Base(),
		Theta:       PlayerBaseTheta,
		G:           cfg.Gravity,
		Color:       PlayerColor,
	})

	return id, nil
}

// PlayerBoundingSize 小人包围盒尺寸（渲染用）
// 整体身高 = 头部位移 + 头部半径
func PlayerBoundingSize(p *components.PlayerComponent) mgl64.Vec3 {
	width := p.HeadSize * 2.4
	return mgl64.Vec3{width, p.BodySize + p.HeadSize, width}
}
