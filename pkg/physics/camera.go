package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraInitialPosition 根据角度计算正交相机的初始位置
//
// 参数:
//   - verticalDeg: 相机与场景中心的垂直夹角（度）
//   - horizontalDeg: 相机与 X 轴的水平夹角（度）
//   - top, bottom: 视锥体上、下侧面
//   - near, far: 视锥体近、远端面
//
// 垂直角度过小会导致视锥体放不下场景，此时返回错误
func CameraInitialPosition(verticalDeg, horizontalDeg, top, bottom, near, far float64) (mgl64.Vec3, error) {
	vertical := mgl64.DegToRad(verticalDeg)
	horizontal := mgl64.DegToRad(horizontalDeg)

	minY := math.Cos(vertical) * bottom
	maxY := math.Sin(vertical) * (far - near - top/math.Tan(vertical))
	if minY > maxY {
		return mgl64.Vec3{}, fmt.Errorf("vertical angle %.1f is too small: minY %.2f > maxY %.2f", verticalDeg, minY, maxY)
	}

	y := minY + (maxY-minY)/2
	longEdge := y / math.Tan(vertical)
	return mgl64.Vec3{
		math.Sin(horizontal) * longEdge,
		y,
		math.Cos(horizontal) * longEdge,
	}, nil
}
