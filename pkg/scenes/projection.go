package scenes

import (
	"github.com/go-gl/mathgl/mgl64"
)

// worldUp 世界坐标系的上方向
var worldUp = mgl64.Vec3{0, 1, 0}

// OrthoView 正交投影：相机看向场景中心，中心投影到屏幕中央
//
// 屏幕 Y 轴向下，所以观察空间的 Y 需要取反。
type OrthoView struct {
	view    mgl64.Mat4
	toEye   mgl64.Vec3 // 中心指向相机的单位向量，用于判断面是否朝向相机
	centerX float64
	centerY float64
}

// NewOrthoView 由相机位置和场景中心构造投影
func NewOrthoView(camera, center mgl64.Vec3, screenW, screenH float64) OrthoView {
	toEye := camera.Sub(center)
	if toEye.Len() == 0 {
		toEye = worldUp
	}
	return OrthoView{
		view:    mgl64.LookAtV(camera, center, worldUp),
		toEye:   toEye.Normalize(),
		centerX: screenW / 2,
		centerY: screenH / 2,
	}
}

// Project 把世界坐标投影到屏幕坐标，depth 越大离相机越远
func (v OrthoView) Project(p mgl64.Vec3) (x, y, depth float64) {
	e := v.view.Mul4x1(p.Vec4(1))
	return v.centerX + e.X(), v.centerY - e.Y(), -e.Z()
}

// Facing 法线为 normal 的面是否朝向相机
func (v OrthoView) Facing(normal mgl64.Vec3) bool {
	return normal.Dot(v.toEye) > 0
}
