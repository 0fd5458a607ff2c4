package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/ecs"
)

// FollowMove 一次镜头跟随请求
type FollowMove struct {
	Camera   mgl64.Vec3
	Light    mgl64.Vec3
	Ground   mgl64.Vec3
	Duration time.Duration
}

// RecordingRenderer 记录所有调用的渲染器，用于无界面运行和测试
//
// DeferFollow 为 false 时跟随移动立即完成；为 true 时完成回调被挂起，
// 直到调用 CompleteFollows。
type RecordingRenderer struct {
	Objects    map[ecs.EntityID]Object
	Transforms map[ecs.EntityID]Transform
	Removed    []ecs.EntityID
	Follows    []FollowMove
	Frames     int

	DeferFollow bool
	pending     []func()
}

// NewRecordingRenderer 创建记录渲染器
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{
		Objects:    make(map[ecs.EntityID]Object),
		Transforms: make(map[ecs.EntityID]Transform),
	}
}

// AddObject 记录新增对象
func (r *RecordingRenderer) AddObject(obj Object) {
	r.Objects[obj.ID] = obj
}

// RemoveObject 记录移除对象
func (r *RecordingRenderer) RemoveObject(id ecs.EntityID) {
	delete(r.Objects, id)
	delete(r.Transforms, id)
	r.Removed = append(r.Removed, id)
}

// UpdateTransform 记录最新快照
func (r *RecordingRenderer) UpdateTransform(id ecs.EntityID, t Transform) {
	r.Transforms[id] = t
}

// RenderFrame 统计渲染次数
func (r *RecordingRenderer) RenderFrame() {
	r.Frames++
}

// MoveFollowTarget 记录跟随请求
func (r *RecordingRenderer) MoveFollowTarget(camera, light, ground mgl64.Vec3, duration time.Duration, onComplete func()) {
	r.Follows = append(r.Follows, FollowMove{Camera: camera, Light: light, Ground: ground, Duration: duration})
	if onComplete == nil {
		return
	}
	if r.DeferFollow {
		r.pending = append(r.pending, onComplete)
		return
	}
	onComplete()
}

// CompleteFollows 执行所有挂起的跟随完成回调
func (r *RecordingRenderer) CompleteFollows() {
	pending := r.pending
	r.pending = nil
	for _, f := range pending {
		f()
	}
}

// LastFollow 返回最近一次跟随请求
func (r *RecordingRenderer) LastFollow() (FollowMove, bool) {
	if len(r.Follows) == 0 {
		return FollowMove{}, false
	}
	return r.Follows[len(r.Follows)-1], true
}
