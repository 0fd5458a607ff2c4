package game

import (
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/ecs"
)

// ObjectKind 渲染对象类型
type ObjectKind int

const (
	// ObjectPlatform 平台（盒子）
	ObjectPlatform ObjectKind = iota
	// ObjectPlayer 小人
	ObjectPlayer
)

// Object 交给渲染器的对象描述
type Object struct {
	ID    ecs.EntityID
	Kind  ObjectKind
	Size  mgl64.Vec3 // 包围盒尺寸 (X, Y, Z)
	Color color.RGBA
	Shape string
}

// Transform 渲染快照：位置、缩放、旋转，以及小人的头部位移
type Transform struct {
	Position   mgl64.Vec3
	Scale      mgl64.Vec3
	Rotation   mgl64.Vec3
	HeadOffset float64
}

// Renderer 渲染器边界
//
// 核心逻辑只向渲染器推送快照，从不读取渲染器内部状态。
// MoveFollowTarget 在移动完成后必须调用 onComplete（可以同步调用）。
type Renderer interface {
	AddObject(obj Object)
	RemoveObject(id ecs.EntityID)
	UpdateTransform(id ecs.EntityID, t Transform)
	RenderFrame()
	MoveFollowTarget(camera, light, ground mgl64.Vec3, duration time.Duration, onComplete func())
}

// NopRenderer 什么也不画的渲染器，跟随移动立即完成
type NopRenderer struct{}

func (NopRenderer) AddObject(Object) {}

func (NopRenderer) RemoveObject(ecs.EntityID) {}

func (NopRenderer) UpdateTransform(ecs.EntityID, Transform) {}

func (NopRenderer) RenderFrame() {}

func (NopRenderer) MoveFollowTarget(_, _, _ mgl64.Vec3, _ time.Duration, onComplete func()) {
	if onComplete != nil {
		onComplete()
	}
}
