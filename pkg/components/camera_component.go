package components

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraComponent 管理镜头跟随的目标位置和动画状态。
// 镜头总是看向最新两个平台的中点，实际移动交给渲染器完成。
type CameraComponent struct {
	// CameraInitial 相机初始位置（相对场景中心）
	CameraInitial mgl64.Vec3

	// LightInitial 光源初始位置（相对场景中心）
	LightInitial mgl64.Vec3

	// OffsetY 可视区向上偏移量，让平台看起来更居中
	OffsetY float64

	// CameraTarget 最近一次的相机目标
	CameraTarget mgl64.Vec3

	// LightTarget 最近一次的光源目标
	LightTarget mgl64.Vec3

	// GroundCenter 最近一次的地面中心（跟随点）
	GroundCenter mgl64.Vec3

	// Duration 最近一次移动时长
	Duration time.Duration

	// IsAnimating 是否正在移动中
	IsAnimating bool

	// Moves 已发出的移动次数
	Moves int
}
