package physics

import (
	"math"
	"time"
)

const (
	// AscentShare 上升段占总飞行时长的比例
	AscentShare = 0.65
	// DescentShare 下降段占总飞行时长的比例
	DescentShare = 0.35
	// LandingDamping 落地缓冲段时长
	LandingDamping = 100 * time.Millisecond
	// LandingSquash 落地缓冲起始的身体 Y 缩放
	LandingSquash = 0.8
)

// VerticalProfile 跳跃竖直方向的分段参数
type VerticalProfile struct {
	PeakY           float64       // 上升段终点高度
	GroundY         float64       // 下降段终点高度（平台顶面）
	AscentDuration  time.Duration // 上升段时长（缓出）
	DescentDuration time.Duration // 下降段时长（缓入）
	DampingDuration time.Duration // 落地缓冲时长
}

// NewVerticalProfile 计算竖直分段
// 顶点高度 = max(viewWidth/3, apexHeight) + platformHeight，保证低抛也有可见弧线
func NewVerticalProfile(apexHeight, viewWidth, platformHeight float64, flight time.Duration) VerticalProfile {
	return VerticalProfile{
		PeakY:           math.Max(viewWidth/3, apexHeight) + platformHeight,
		GroundY:         platformHeight,
		AscentDuration:  time.Duration(float64(flight) * AscentShare),
		DescentDuration: time.Duration(float64(flight) * DescentShare),
		DampingDuration: LandingDamping,
	}
}

// Total 返回从起跳到落地缓冲结束的总时长
func (p VerticalProfile) Total() time.Duration {
	return p.AscentDuration + p.DescentDuration + p.DampingDuration
}
