package components

import (
	"image/color"
	"time"

	"github.com/gonewx/jump/pkg/ecs"
)

// PlayerState 小人的状态机状态
type PlayerState int

const (
	// PlayerIdle 站在平台上等待输入
	PlayerIdle PlayerState = iota
	// PlayerEntering 开局从第一个平台上方弹跳落下
	PlayerEntering
	// PlayerCharging 按住蓄力中
	PlayerCharging
	// PlayerAirborne 空中飞行（水平移动、上升/下降、空翻同时进行）
	PlayerAirborne
	// PlayerLanding 落地缓冲
	PlayerLanding
)

// String 返回状态名称（用于日志）
func (s PlayerState) String() string {
	switch s {
	case PlayerIdle:
		return "Idle"
	case PlayerEntering:
		return "Entering"
	case PlayerCharging:
		return "Charging"
	case PlayerAirborne:
		return "Airborne"
	case PlayerLanding:
		return "Landing"
	default:
		return "Unknown"
	}
}

// Pose 蓄力产生的身体形变
type Pose struct {
	HeadOffset  float64 // 头部相对身体的 Y 位移
	BodyScaleXZ float64
	BodyScaleY  float64
}

// PlayerComponent 小人的模拟状态（每局一个）
type PlayerComponent struct {
	State PlayerState

	// Current 当前所站平台，首次落地前为 0
	Current ecs.EntityID
	// Next 下一个目标平台：Current 的链上后继（首次落地前为链头）
	Next ecs.EntityID

	// ChargeStartedAt 本次蓄力开始时间
	ChargeStartedAt time.Time

	// Pose 当前姿态
	Pose Pose
	// RestPose 静止姿态；ChargedPose 蓄力中断时记录的姿态，起跳后在空中复原
	RestPose    Pose
	ChargedPose Pose

	// HeadSize 头部半径，身体各部分尺寸由它推导
	HeadSize float64
	// BodySize 身体高度
	BodySize float64

	// V0 / Theta 起跳基础初速度与角度（度），蓄力在此基础上变化
	V0    float64
	Theta float64
	// G 重力加速度
	G float64

	Color color.RGBA
}

// IsCharging 是否蓄力中
func (p *PlayerComponent) IsCharging() bool {
	return p.State == PlayerCharging
}

// IsJumping 是否处于跳跃流程（入场、飞行、落地缓冲）
func (p *PlayerComponent) IsJumping() bool {
	return p.State == PlayerEntering || p.State == PlayerAirborne || p.State == PlayerLanding
}

// IsAirborne 是否在空中（含落地缓冲）
func (p *PlayerComponent) IsAirborne() bool {
	return p.State == PlayerAirborne || p.State == PlayerLanding
}
