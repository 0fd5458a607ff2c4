package components

import "github.com/go-gl/mathgl/mgl64"

// ScaleComponent 存储实体级别的形变缩放
// 平台蓄力时压缩 Y、起跳后回弹；小人蓄力时身体 XZ 变宽、Y 变矮
//
// 1.0 = 原始大小
type ScaleComponent struct {
	X float64
	Y float64
	Z float64
}

// NewScaleComponent 返回单位缩放
func NewScaleComponent() *ScaleComponent {
	return &ScaleComponent{X: 1, Y: 1, Z: 1}
}

// Vec3 返回缩放向量
func (s *ScaleComponent) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{s.X, s.Y, s.Z}
}
