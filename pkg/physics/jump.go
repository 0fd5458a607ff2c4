// Package physics 跳跃物理：蓄力、斜抛、落点与空翻方向
//
// 所有函数都是纯函数，不依赖 ECS 或渲染，便于单独测试。
// 坐标约定：Y 轴向上，X/Z 为地面平面。
package physics

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ChargeSpeedGain 蓄力满时初速度增量
	ChargeSpeedGain = 30.0
	// ChargeAngleDrop 蓄力满时抛射角减小量（度）
	ChargeAngleDrop = 40.0
)

// ChargeResult 蓄力结果
type ChargeResult struct {
	V0    float64 // 初速度
	Theta float64 // 抛射角（度）
}

// TrajectoryResult 斜抛轨迹结果
type TrajectoryResult struct {
	Range      float64 // 水平射程
	ApexHeight float64 // 最大高度
}

// ChargePercentage 计算蓄力百分比，elapsed 被限制在 [0, duration]
func ChargePercentage(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}
	return float64(elapsed) / float64(duration)
}

// Charge 根据蓄力时长计算初速度与抛射角
// 蓄力越久，速度越快、角度越平
func Charge(elapsed, duration time.Duration, v0Base, thetaBase float64) ChargeResult {
	p := ChargePercentage(elapsed, duration)
	return ChargeResult{
		V0:    v0Base + ChargeSpeedGain*p,
		Theta: thetaBase - ChargeAngleDrop*p,
	}
}

// ObliqueThrow 斜抛射程与最大高度（无空气阻力）
//
//	Range      = v0² · sin(2θ) / G
//	ApexHeight = (v0 · sinθ)² / (2G)
//
// theta 为弧度
func ObliqueThrow(v0, theta, g float64) TrajectoryResult {
	sinTheta := math.Sin(theta)
	return TrajectoryResult{
		Range:      v0 * v0 * math.Sin(2*theta) / g,
		ApexHeight: math.Pow(v0*sinTheta, 2) / (2 * g),
	}
}

// LandingPoint 根据射程计算落点
// 沿起跳点指向目标中心的地面方向前进 rangeR，Y 保持起跳点高度；
// 起跳点与目标在地面上重合时返回起跳点
func LandingPoint(rangeR float64, launch, target mgl64.Vec3) mgl64.Vec3 {
	dir := mgl64.Vec2{target.X() - launch.X(), target.Z() - launch.Z()}
	length := dir.Len()
	if length == 0 {
		return launch
	}
	offset := dir.Mul(rangeR / length)
	return mgl64.Vec3{launch.X() + offset.X(), launch.Y(), launch.Z() + offset.Y()}
}

// FlipAxis 空翻旋转轴
type FlipAxis int

const (
	// FlipAboutZ 沿 X 方向移动，绕 Z 轴（负方向）翻转
	FlipAboutZ FlipAxis = iota
	// FlipAboutX 沿 Z 方向移动，绕 X 轴翻转
	FlipAboutX
)

// String 返回轴名称
func (a FlipAxis) String() string {
	if a == FlipAboutZ {
		return "z"
	}
	return "x"
}

// FlipDirection 根据起跳平台与目标平台决定空翻轴
// 两者 Z 相同说明只沿 X 移动，绕 Z 轴翻；否则绕 X 轴翻
func FlipDirection(from, to mgl64.Vec3) FlipAxis {
	if from.Z() == to.Z() {
		return FlipAboutZ
	}
	return FlipAboutX
}

// Rotation 返回空翻角度 deg（度）对应的欧拉角（弧度）
func (a FlipAxis) Rotation(deg float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(deg)
	if a == FlipAboutZ {
		return mgl64.Vec3{0, 0, -rad}
	}
	return mgl64.Vec3{rad, 0, 0}
}
