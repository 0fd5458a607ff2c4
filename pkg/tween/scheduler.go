package tween

import (
	"time"

	"github.com/gonewx/jump/pkg/utils"
)

// Scheduler 补间调度器（每个进程/会话一个）
//
// 生命周期：
//   - 空闲：没有活动补间，Running() 为 false，帧驱动方不需要调用 Update
//   - 运行：任意补间 Start 后立即进入运行状态
//   - 最后一个补间结束（完成或停止）后的那次 Update 把状态切回空闲
type Scheduler struct {
	clock   Clock
	active  []*Tween
	running bool
	frames  uint64
}

// NewScheduler 创建调度器，clock 为 nil 时使用系统时钟
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock:  clock,
		active: make([]*Tween, 0, 16),
	}
}

// Clock 返回调度器使用的时钟
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Now 返回调度器时钟的当前时间
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Running 调度器是否处于运行状态
func (s *Scheduler) Running() bool {
	return s.running
}

// Len 返回活动补间数量（包括本帧已结束、尚未清理的）
func (s *Scheduler) Len() int {
	return len(s.active)
}

// Frames 返回累计推进的帧数
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// New 创建一个未启动的补间
func (s *Scheduler) New(from, to Values, duration time.Duration) *Tween {
	return &Tween{
		scheduler: s,
		from:      from.Clone(),
		to:        to.Clone(),
		duration:  duration,
		easing:    utils.EaseLinear,
	}
}

// Options Animate 的参数
type Options struct {
	From     Values
	To       Values
	Duration time.Duration
	Easing   utils.EasingFunc // nil 为线性
	Manual   bool             // true 时不自动启动（用于 Chain）
}

// Animate 创建补间并（默认）立即启动
func (s *Scheduler) Animate(opts Options, onUpdate func(Values), onComplete func()) *Tween {
	t := s.New(opts.From, opts.To, opts.Duration).
		Easing(opts.Easing).
		OnUpdate(onUpdate).
		OnComplete(onComplete)
	if !opts.Manual {
		t.Start()
	}
	return t
}

// add 登记一个刚启动的补间，并在需要时恢复运行状态
func (s *Scheduler) add(t *Tween) {
	s.active = append(s.active, t)
	s.running = true
}

// Update 推进一帧，返回推进后是否仍有活动补间
//
// 本帧内启动的后继补间会在同一帧继续推进，
// 所以零时长的链节点也会按声明顺序在一帧内依次完成。
func (s *Scheduler) Update() bool {
	if !s.running {
		return false
	}

	now := s.clock.Now()
	s.frames++

	for i := 0; i < len(s.active); i++ {
		s.active[i].step(now)
	}

	kept := s.active[:0]
	for _, t := range s.active {
		if t.state == stateRunning {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept

	if len(s.active) == 0 {
		s.running = false
	}
	return s.running
}

// StopAll 停止全部活动补间（会话结束时使用）
func (s *Scheduler) StopAll() {
	for _, t := range s.active {
		t.Stop()
	}
}
