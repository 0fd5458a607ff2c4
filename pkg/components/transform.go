package components

import "github.com/go-gl/mathgl/mgl64"

// TransformComponent 世界坐标中的位置与旋转
// 平台的 Position 为底面中心；小人的 Position 为脚底
type TransformComponent struct {
	Position mgl64.Vec3
	// Rotation 欧拉角（弧度），目前只有小人空翻使用
	Rotation mgl64.Vec3
}
