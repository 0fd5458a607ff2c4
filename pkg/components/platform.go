package components

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/ecs"
)

// Footprint 平台生成器的产物：平台外形尺寸与颜色
// 静态生成器会缓存它并在每次调用时返回副本，因为它之后会被原地修改（如入场、缩放）
type Footprint struct {
	Width  float64 // X 方向尺寸
	Height float64 // Y 方向尺寸（所有平台相同）
	Depth  float64 // Z 方向尺寸
	Color  color.RGBA
	Shape  string // 生成器名称，仅用于渲染区分与日志
}

// Clone 深拷贝
func (f *Footprint) Clone() *Footprint {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Size 返回尺寸向量 (Width, Height, Depth)
func (f *Footprint) Size() mgl64.Vec3 {
	return mgl64.Vec3{f.Width, f.Height, f.Depth}
}

// HalfExtentX X 方向半宽
func (f *Footprint) HalfExtentX() float64 {
	return f.Width / 2
}

// HalfExtentZ Z 方向半深
func (f *Footprint) HalfExtentZ() float64 {
	return f.Depth / 2
}

// PlatformComponent 平台链中的一个节点
//
// Prev/Next 是实体ID句柄而不是指针：链只引用邻居，不拥有它们；
// 0 表示没有邻居。链尾（前沿）的 Next 为 0。
type PlatformComponent struct {
	Footprint *Footprint

	// Prev 前一个平台（更旧），链头为 0
	Prev ecs.EntityID
	// Next 后一个平台（更新），链尾为 0
	Next ecs.EntityID

	// Sequence 本局中的创建序号，从 0 开始
	Sequence int

	// Entered 入场动画是否已完成（前两个平台创建即入场）
	Entered bool
}
