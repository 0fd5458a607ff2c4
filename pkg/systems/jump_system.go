package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/entities"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/physics"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/gonewx/jump/pkg/utils"
)

// 蓄力形变的极限值
const (
	ChargedHeadRatio   = 0.4 // 头部位移 = 身体高度 × 0.4
	ChargedBodyScaleXZ = 1.3
	ChargedBodyScaleY  = 0.6
	ChargedPlatformY   = 0.6
)

// LaunchInfo 一次起跳的计算结果
type LaunchInfo struct {
	Charge     physics.ChargeResult
	Trajectory physics.TrajectoryResult
	From       mgl64.Vec3
	Landing    mgl64.Vec3
	Profile    physics.VerticalProfile
	Flip       physics.FlipAxis
}

// JumpSystem 小人状态机：Idle → Charging → Airborne → Landing → Idle，
// 以及开局的弹跳入场 (Entering)。
//
// 所有连续变化都通过补间完成；落地缓冲结束时调用 OnLanded 钩子，
// 由上层扩展平台链、移动镜头，然后小人的 Current/Next 前进一步。
// 飞行中的输入全部忽略。
type JumpSystem struct {
	entityManager *ecs.EntityManager
	config        *config.GameConfig
	scheduler     *tween.Scheduler
	renderer      game.Renderer
	chain         *PlatformChainSystem
	playerEntity  ecs.EntityID

	chargeToken *tween.Token
	chargeTween *tween.Tween

	lastLaunch LaunchInfo
	launches   int
	landings   int

	onLanded func()
}

// NewJumpSystem 创建跳跃系统
func NewJumpSystem(
	em *ecs.EntityManager,
	cfg *config.GameConfig,
	scheduler *tween.Scheduler,
	renderer game.Renderer,
	chain *PlatformChainSystem,
	player ecs.EntityID,
) *JumpSystem {
	if renderer == nil {
		renderer = game.NopRenderer{}
	}
	return &JumpSystem{
		entityManager: em,
		config:        cfg,
		scheduler:     scheduler,
		renderer:      renderer,
		chain:         chain,
		playerEntity:  player,
	}
}

// SetOnLanded 设置落地钩子（在小人前进到下一个平台之前调用）
func (s *JumpSystem) SetOnLanded(f func()) {
	s.onLanded = f
}

// Player 返回小人组件
func (s *JumpSystem) Player() *components.PlayerComponent {
	player, _ := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerEntity)
	return player
}

// PlayerEntity 返回小人实体ID
func (s *JumpSystem) PlayerEntity() ecs.EntityID {
	return s.playerEntity
}

// Position 返回小人脚底位置
func (s *JumpSystem) Position() mgl64.Vec3 {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if !ok {
		return mgl64.Vec3{}
	}
	return transform.Position
}

// LastLaunch 返回最近一次起跳的计算结果
func (s *JumpSystem) LastLaunch() LaunchInfo {
	return s.lastLaunch
}

// Launches 起跳次数（不含入场）
func (s *JumpSystem) Launches() int {
	return s.launches
}

// Landings 落地次数（不含入场）
func (s *JumpSystem) Landings() int {
	return s.landings
}

// Enter 把小人放到 start，目标设为 next（通常是链头），并交给渲染器
func (s *JumpSystem) Enter(start mgl64.Vec3, next ecs.EntityID) {
	player := s.Player()
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if player == nil || !ok {
		return
	}

	transform.Position = start
	transform.Rotation = mgl64.Vec3{}
	player.Current = 0
	player.Next = next
	player.State = components.PlayerIdle
	player.Pose = player.RestPose

	s.renderer.AddObject(game.Object{
		ID:    s.playerEntity,
		Kind:  game.ObjectPlayer,
		Size:  entities.PlayerBoundingSize(player),
		Color: player.Color,
		Shape: "player",
	})
	s.sync()
}

// Jump 开局入场：还没有站上任何平台，且正好位于目标平台正上方时，
// 弹跳落到平台顶面。其他情况下起跳只能由 PressEnd 触发，这里什么也不做。
func (s *JumpSystem) Jump() {
	player := s.Player()
	if player == nil || player.Current != 0 || player.State != components.PlayerIdle {
		return
	}

	start := s.Position()
	target, ok := s.chain.Position(player.Next)
	if !ok || start.X() != target.X() || start.Z() != target.Z() {
		return
	}

	player.State = components.PlayerEntering
	log.Printf("[JumpSystem] Entering: drop from y=%.1f onto platform %d", start.Y(), player.Next)

	s.scheduler.Animate(
		tween.Options{
			From:     tween.Values{"y": start.Y()},
			To:       tween.Values{"y": s.config.PlatformHeight},
			Duration: s.config.FlightDuration,
			Easing:   utils.EaseOutBounce,
		},
		func(v tween.Values) {
			s.setY(v["y"])
		},
		func() {
			player.Current = player.Next
			player.Next = s.chain.Next(player.Current)
			player.State = components.PlayerIdle
			log.Printf("[JumpSystem] Entered platform %d, next %d", player.Current, player.Next)
		},
	)
}

// PressStart 开始蓄力
// 需要已站在平台上且不在蓄力/跳跃中，否则忽略
func (s *JumpSystem) PressStart() {
	player := s.Player()
	if player == nil || player.Current == 0 || player.State != components.PlayerIdle {
		return
	}

	player.State = components.PlayerCharging
	player.ChargeStartedAt = s.scheduler.Now()

	rest := player.RestPose
	current := player.Current
	token := tween.NewToken()
	s.chargeToken = token

	s.chargeTween = s.scheduler.New(
		tween.Values{
			"head":     rest.HeadOffset,
			"bodyXZ":   rest.BodyScaleXZ,
			"bodyY":    rest.BodyScaleY,
			"platform": 1,
		},
		tween.Values{
			"head":     player.BodySize * ChargedHeadRatio,
			"bodyXZ":   ChargedBodyScaleXZ,
			"bodyY":    ChargedBodyScaleY,
			"platform": ChargedPlatformY,
		},
		s.config.ChargeDuration,
	).Bind(token).OnUpdate(func(v tween.Values) {
		player.Pose = components.Pose{
			HeadOffset:  v["head"],
			BodyScaleXZ: v["bodyXZ"],
			BodyScaleY:  v["bodyY"],
		}
		s.chain.SetCompression(current, v["platform"])
		s.setY(s.config.PlatformHeight * v["platform"])
	}).OnComplete(func() {
		log.Printf("[JumpSystem] Charge full")
	}).Start()
}

// PressEnd 松开起跳
// 只在蓄力中有效：取消蓄力补间（不触发完成回调），按已蓄力时长计算初速度和角度
func (s *JumpSystem) PressEnd() {
	player := s.Player()
	if player == nil || player.State != components.PlayerCharging {
		return
	}

	s.chargeToken.Cancel()
	s.chargeToken = nil
	player.ChargedPose = player.Pose
	player.State = components.PlayerAirborne

	s.launch(player)
}

// launch 起跳：水平移动与姿态复原、上升 → 下降 → 落地缓冲、空翻、平台回弹同时开始
func (s *JumpSystem) launch(player *components.PlayerComponent) {
	elapsed := s.scheduler.Now().Sub(player.ChargeStartedAt)
	charge := physics.Charge(elapsed, s.config.ChargeDuration, player.V0, player.Theta)
	trajectory := physics.ObliqueThrow(charge.V0, mgl64.DegToRad(charge.Theta), player.G)

	start := s.Position()
	target, _ := s.chain.Position(player.Next)
	landing := physics.LandingPoint(trajectory.Range, start, target)
	profile := physics.NewVerticalProfile(trajectory.ApexHeight, s.config.ViewWidth, s.config.PlatformHeight, s.config.FlightDuration)

	from, _ := s.chain.Position(player.Current)
	flip := physics.FlipDirection(from, target)

	s.lastLaunch = LaunchInfo{
		Charge:     charge,
		Trajectory: trajectory,
		From:       start,
		Landing:    landing,
		Profile:    profile,
		Flip:       flip,
	}
	s.launches++

	log.Printf("[JumpSystem] Launch: charge=%v v0=%.2f theta=%.2f range=%.2f apex=%.2f flip=%s",
		elapsed, charge.V0, charge.Theta, trajectory.Range, trajectory.ApexHeight, flip)

	charged := player.ChargedPose
	rest := player.RestPose

	// 水平匀速移动，同时复原蓄力形变
	s.scheduler.Animate(
		tween.Options{
			From: tween.Values{
				"x": start.X(), "z": start.Z(),
				"head": charged.HeadOffset, "bodyXZ": charged.BodyScaleXZ, "bodyY": charged.BodyScaleY,
			},
			To: tween.Values{
				"x": landing.X(), "z": landing.Z(),
				"head": rest.HeadOffset, "bodyXZ": rest.BodyScaleXZ, "bodyY": rest.BodyScaleY,
			},
			Duration: s.config.FlightDuration,
		},
		func(v tween.Values) {
			transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
			if !ok {
				return
			}
			transform.Position[0] = v["x"]
			transform.Position[2] = v["z"]
			player.Pose = components.Pose{
				HeadOffset:  v["head"],
				BodyScaleXZ: v["bodyXZ"],
				BodyScaleY:  v["bodyY"],
			}
			s.sync()
		},
		nil,
	)

	// 竖直方向：上升（缓出）→ 下降（缓入）→ 落地缓冲
	up := s.scheduler.New(tween.Values{"y": start.Y()}, tween.Values{"y": profile.PeakY}, profile.AscentDuration).
		Easing(utils.EaseOutCubic).
		OnUpdate(func(v tween.Values) { s.setY(v["y"]) })
	down := s.scheduler.New(tween.Values{"y": profile.PeakY}, tween.Values{"y": profile.GroundY}, profile.DescentDuration).
		Easing(utils.EaseInCubic).
		OnUpdate(func(v tween.Values) { s.setY(v["y"]) }).
		OnComplete(func() { player.State = components.PlayerLanding })
	damping := s.scheduler.New(tween.Values{"s": physics.LandingSquash}, tween.Values{"s": 1}, profile.DampingDuration).
		OnUpdate(func(v tween.Values) {
			player.Pose.BodyScaleY = v["s"]
			s.sync()
		}).
		OnComplete(func() { s.land(player) })

	down.Chain(damping)
	up.Chain(down).Start()

	// 空翻
	s.scheduler.Animate(
		tween.Options{
			From:     tween.Values{"deg": 0},
			To:       tween.Values{"deg": 360},
			Duration: s.config.FlightDuration,
			Easing:   utils.EaseInOutSine,
		},
		func(v tween.Values) {
			s.setRotation(flip.Rotation(v["deg"]))
		},
		func() {
			s.setRotation(mgl64.Vec3{})
		},
	)

	// 起跳平台从起跳开始回弹
	s.chain.SpringBack(player.Current, SpringBackDuration)
}

// land 落地缓冲结束：扩展平台链、移动镜头（OnLanded），然后前进一步
func (s *JumpSystem) land(player *components.PlayerComponent) {
	s.landings++
	if s.onLanded != nil {
		s.onLanded()
	}

	player.Current = player.Next
	player.Next = s.chain.Next(player.Current)
	player.State = components.PlayerIdle

	log.Printf("[JumpSystem] Landed on platform %d at (%.1f, %.1f), next %d",
		player.Current, s.Position().X(), s.Position().Z(), player.Next)
}

// setY 设置小人高度并推送给渲染器
func (s *JumpSystem) setY(y float64) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if !ok {
		return
	}
	transform.Position[1] = y
	s.sync()
}

func (s *JumpSystem) setRotation(r mgl64.Vec3) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if !ok {
		return
	}
	transform.Rotation = r
	s.sync()
}

// sync 把小人的位置、姿态推送给渲染器
func (s *JumpSystem) sync() {
	player := s.Player()
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if player == nil || !ok {
		return
	}
	scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, s.playerEntity)
	if ok {
		scale.X = player.Pose.BodyScaleXZ
		scale.Y = player.Pose.BodyScaleY
		scale.Z = player.Pose.BodyScaleXZ
	}
	s.renderer.UpdateTransform(s.playerEntity, game.Transform{
		Position:   transform.Position,
		Scale:      mgl64.Vec3{player.Pose.BodyScaleXZ, player.Pose.BodyScaleY, player.Pose.BodyScaleXZ},
		Rotation:   transform.Rotation,
		HeadOffset: player.Pose.HeadOffset,
	})
}
