package systems

import (
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/entities"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/gonewx/jump/pkg/utils"
)

const (
	// EntranceDuration 新平台入场下落时长
	EntranceDuration = 400 * time.Millisecond
	// SpringBackDuration 起跳后平台回弹时长
	SpringBackDuration = 500 * time.Millisecond
	// minKeptPlatforms 回收后至少保留的平台数（镜头跟随需要最新两个）
	minKeptPlatforms = 2
)

// PlatformChainSystem 维护平台链：追加、定位、入场/回弹效果和回收
//
// 平台是 ECS 实体（PlatformComponent + TransformComponent + ScaleComponent），
// 链通过 Prev/Next 实体ID串起来。只有落地流程会修改链。
type PlatformChainSystem struct {
	entityManager *ecs.EntityManager
	config        *config.GameConfig
	renderer      game.Renderer
	scheduler     *tween.Scheduler
	prims         *entities.Primitives

	head     ecs.EntityID
	tail     ecs.EntityID
	length   int
	sequence int
	evicted  int
}

// NewPlatformChainSystem 创建平台链系统
func NewPlatformChainSystem(
	em *ecs.EntityManager,
	cfg *config.GameConfig,
	renderer game.Renderer,
	scheduler *tween.Scheduler,
	prims *entities.Primitives,
) *PlatformChainSystem {
	if renderer == nil {
		renderer = game.NopRenderer{}
	}
	return &PlatformChainSystem{
		entityManager: em,
		config:        cfg,
		renderer:      renderer,
		scheduler:     scheduler,
		prims:         prims,
	}
}

// GeneratorOptions 返回下一次生成平台时的生成器上下文
func (s *PlatformChainSystem) GeneratorOptions() entities.GeneratorOptions {
	return entities.GeneratorOptions{
		SizeRange:      s.config.PlatformSizeRange,
		PlatformHeight: s.config.PlatformHeight,
		Sequence:       s.sequence,
	}
}

// ComputePosition 根据前一个平台计算新平台的位置
//
//   - 没有前驱：原点
//   - 前驱是第一个平台：沿 +Z 固定偏移 viewWidth/2
//   - 其他：随机选 X 或 Z 轴，偏移 前驱半宽 + 随机间距 + 自身半宽，另一轴继承前驱；
//     Y 为入场高度，由入场动画落到 0
func (s *PlatformChainSystem) ComputePosition(prev ecs.EntityID, fp *components.Footprint) mgl64.Vec3 {
	if prev == 0 {
		return mgl64.Vec3{}
	}

	prevPlatform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, prev)
	prevTransform, ok2 := ecs.GetComponent[*components.TransformComponent](s.entityManager, prev)
	if !ok || !ok2 {
		return mgl64.Vec3{}
	}

	if prevPlatform.Sequence == 0 {
		return mgl64.Vec3{0, 0, s.config.ViewWidth / 2}
	}

	base := prevTransform.Position
	distance := s.prims.RandomInRange(s.config.PlatformDistanceRange)

	if s.prims.Rand.Intn(2) == 0 {
		x := base.X() + prevPlatform.Footprint.HalfExtentX() + distance + fp.HalfExtentX()
		return mgl64.Vec3{x, s.config.EnterHeight, base.Z()}
	}
	z := base.Z() + prevPlatform.Footprint.HalfExtentZ() + distance + fp.HalfExtentZ()
	return mgl64.Vec3{base.X(), s.config.EnterHeight, z}
}

// Append 把生成器产物包装成平台实体，接到链尾并交给渲染器
// 尺寸不符合配置时只打印警告，照常使用
func (s *PlatformChainSystem) Append(fp *components.Footprint) ecs.EntityID {
	s.checkBounds(fp)

	id := s.entityManager.CreateEntity()
	position := s.ComputePosition(s.tail, fp)

	platform := &components.PlatformComponent{
		Footprint: fp,
		Prev:      s.tail,
		Sequence:  s.sequence,
	}
	ecs.AddComponent(s.entityManager, id, platform)
	ecs.AddComponent(s.entityManager, id, &components.TransformComponent{Position: position})
	ecs.AddComponent(s.entityManager, id, components.NewScaleComponent())

	if s.tail != 0 {
		if tailPlatform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, s.tail); ok {
			tailPlatform.Next = id
		}
	} else {
		s.head = id
	}
	s.tail = id
	s.length++
	s.sequence++

	s.renderer.AddObject(game.Object{
		ID:    id,
		Kind:  game.ObjectPlatform,
		Size:  fp.Size(),
		Color: fp.Color,
		Shape: fp.Shape,
	})
	s.sync(id)

	s.playEntrance(id, platform)

	log.Printf("[PlatformChain] Appended platform %d (seq=%d, %s %.0fx%.0f) at (%.1f, %.1f)",
		id, platform.Sequence, fp.Shape, fp.Width, fp.Depth, position.X(), position.Z())
	return id
}

// checkBounds 软校验平台尺寸
func (s *PlatformChainSystem) checkBounds(fp *components.Footprint) {
	if fp.Height != s.config.PlatformHeight {
		log.Printf("[PlatformChain] Warning: height %.1f, platform height must be %.1f",
			fp.Height, s.config.PlatformHeight)
	}
	r := s.config.PlatformSizeRange
	if !r.Contains(fp.Width) {
		log.Printf("[PlatformChain] Warning: width %.1f, must be within %.0f - %.0f", fp.Width, r.Min, r.Max)
	}
	if !r.Contains(fp.Depth) {
		log.Printf("[PlatformChain] Warning: depth %.1f, must be within %.0f - %.0f", fp.Depth, r.Min, r.Max)
	}
}

// playEntrance 入场动画：从入场高度弹跳落到地面
func (s *PlatformChainSystem) playEntrance(id ecs.EntityID, platform *components.PlatformComponent) {
	transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	startY := transform.Position.Y()
	if startY == 0 || s.scheduler == nil {
		transform.Position[1] = 0
		platform.Entered = true
		return
	}

	s.scheduler.Animate(
		tween.Options{
			From:     tween.Values{"y": startY},
			To:       tween.Values{"y": 0},
			Duration: EntranceDuration,
			Easing:   utils.EaseOutBounce,
		},
		func(v tween.Values) {
			if !s.entityManager.IsAlive(id) {
				return
			}
			transform.Position[1] = v["y"]
			s.sync(id)
		},
		func() {
			platform.Entered = true
		},
	)
}

// SetCompression 设置平台 Y 方向压缩比例（蓄力时与小人同步）
func (s *PlatformChainSystem) SetCompression(id ecs.EntityID, scaleY float64) {
	scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id)
	if !ok {
		return
	}
	scale.Y = scaleY
	s.sync(id)
}

// SpringBack 平台从当前压缩比例弹回原始高度
func (s *PlatformChainSystem) SpringBack(id ecs.EntityID, duration time.Duration) *tween.Tween {
	scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id)
	if !ok || s.scheduler == nil {
		return nil
	}

	return s.scheduler.Animate(
		tween.Options{
			From:     tween.Values{"y": scale.Y},
			To:       tween.Values{"y": 1},
			Duration: duration,
			Easing:   utils.EaseOutBounce,
		},
		func(v tween.Values) {
			if !s.entityManager.IsAlive(id) {
				return
			}
			scale.Y = v["y"]
			s.sync(id)
		},
		nil,
	)
}

// sync 把平台当前位置与缩放推送给渲染器
func (s *PlatformChainSystem) sync(id ecs.EntityID) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return
	}
	scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id)
	if !ok {
		return
	}
	s.renderer.UpdateTransform(id, game.Transform{
		Position: transform.Position,
		Scale:    scale.Vec3(),
		Rotation: transform.Rotation,
	})
}

// EvictBefore 链长超过 horizon 时，从链头回收一批平台（批量大小见配置）
// 被回收节点与存活邻居之间的双向引用都会被清除。返回回收数量。
func (s *PlatformChainSystem) EvictBefore(horizon int) int {
	if s.length <= horizon {
		return 0
	}

	batch := s.config.EvictionBatch
	if batch > s.length-minKeptPlatforms {
		batch = s.length - minKeptPlatforms
	}

	count := 0
	for i := 0; i < batch && s.head != 0; i++ {
		s.dispose(s.head)
		count++
	}
	s.entityManager.RemoveMarkedEntities()
	s.evicted += count

	log.Printf("[PlatformChain] Evicted %d platforms (length=%d, horizon=%d, entities=%d)",
		count, s.length, horizon, s.entityManager.EntityCount())
	return count
}

// dispose 移除链头平台
func (s *PlatformChainSystem) dispose(id ecs.EntityID) {
	platform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, id)
	if !ok {
		return
	}

	next := platform.Next
	if platform.Prev != 0 {
		if prev, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, platform.Prev); ok {
			prev.Next = 0
		}
	}
	if next != 0 {
		if nextPlatform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, next); ok {
			nextPlatform.Prev = 0
		}
	}
	platform.Prev = 0
	platform.Next = 0

	s.renderer.RemoveObject(id)
	s.entityManager.DestroyEntity(id)

	if s.head == id {
		s.head = next
	}
	if s.tail == id {
		s.tail = 0
	}
	s.length--
}

// SafeHorizon 平台链的安全长度
// ⌈viewW/min⌉ + ⌈viewH/(min·√2)/2⌉ + 1，以最小平台为最坏情况
func SafeHorizon(viewWidth, viewHeight, minFootprint float64) int {
	diagonal := math.Sqrt(minFootprint*minFootprint + minFootprint*minFootprint)
	return int(math.Ceil(viewWidth/minFootprint)) + int(math.Ceil(viewHeight/diagonal/2)) + 1
}

// Head 链头（最旧的存活平台）
func (s *PlatformChainSystem) Head() ecs.EntityID {
	return s.head
}

// Tail 链尾（最新的平台）
func (s *PlatformChainSystem) Tail() ecs.EntityID {
	return s.tail
}

// Len 存活平台数量
func (s *PlatformChainSystem) Len() int {
	return s.length
}

// Created 本局创建的平台总数
func (s *PlatformChainSystem) Created() int {
	return s.sequence
}

// Evicted 本局回收的平台总数
func (s *PlatformChainSystem) Evicted() int {
	return s.evicted
}

// Live 平台是否仍在链上
func (s *PlatformChainSystem) Live(id ecs.EntityID) bool {
	return id != 0 && ecs.HasComponent[*components.PlatformComponent](s.entityManager, id)
}

// Next 返回后继平台，没有时返回 0
func (s *PlatformChainSystem) Next(id ecs.EntityID) ecs.EntityID {
	if platform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, id); ok {
		return platform.Next
	}
	return 0
}

// Prev 返回前驱平台，没有时返回 0
func (s *PlatformChainSystem) Prev(id ecs.EntityID) ecs.EntityID {
	if platform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, id); ok {
		return platform.Prev
	}
	return 0
}

// Platform 返回平台组件
func (s *PlatformChainSystem) Platform(id ecs.EntityID) (*components.PlatformComponent, bool) {
	return ecs.GetComponent[*components.PlatformComponent](s.entityManager, id)
}

// Position 返回平台底面中心位置
func (s *PlatformChainSystem) Position(id ecs.EntityID) (mgl64.Vec3, bool) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return transform.Position, true
}

// Size 返回平台尺寸 (Width, Height, Depth)
func (s *PlatformChainSystem) Size(id ecs.EntityID) (mgl64.Vec3, bool) {
	platform, ok := ecs.GetComponent[*components.PlatformComponent](s.entityManager, id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return platform.Footprint.Size(), true
}

// Scale 返回平台当前缩放
func (s *PlatformChainSystem) Scale(id ecs.EntityID) (mgl64.Vec3, bool) {
	scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return scale.Vec3(), true
}

// LastTwoCenter 最新两个平台在地面上的中点（Y 为 0）
// 只有一个平台时返回它的位置
func (s *PlatformChainSystem) LastTwoCenter() mgl64.Vec3 {
	last, ok := s.Position(s.tail)
	if !ok {
		return mgl64.Vec3{}
	}
	prev, ok := s.Position(s.Prev(s.tail))
	if !ok {
		return mgl64.Vec3{last.X(), 0, last.Z()}
	}
	return mgl64.Vec3{
		prev.X() + (last.X()-prev.X())/2,
		0,
		prev.Z() + (last.Z()-prev.Z())/2,
	}
}

// Handles 从链头到链尾的平台ID
//
// 实体ID单调递增且只从链头回收，所以按ID升序查询到的平台就是链的顺序。
func (s *PlatformChainSystem) Handles() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.PlatformComponent, *components.TransformComponent](s.entityManager)
}
