// Package tween 提供基于帧 tick 的补间动画（时间线）调度
//
// 一个 Tween 在固定时长内把一组数值从 from 插值到 to，每个 tick 回调 OnUpdate，
// 到时后调用一次 OnComplete，然后启动通过 Chain 声明的后继补间。
// 所有补间由 Scheduler 统一推进：有活动补间时调度器处于运行状态，
// 全部结束后自动转为空闲，下一次 Start 时再惰性恢复。
//
// 本包不是并发安全的，调用方需保证在同一个游戏循环里使用。
package tween

import (
	"time"

	"github.com/gonewx/jump/pkg/utils"
)

// Values 一组命名的数值（如 {"x": 0, "z": 0}）
type Values map[string]float64

// Clone 返回 Values 的副本
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge 返回 v 与 other 合并后的新 Values，键冲突时 other 优先
func (v Values) Merge(other Values) Values {
	out := v.Clone()
	for k, val := range other {
		out[k] = val
	}
	return out
}

type tweenState int

const (
	statePending tweenState = iota
	stateRunning
	stateCompleted
	stateStopped
)

// Tween 单个补间（一条时间线）
type Tween struct {
	scheduler *Scheduler

	from     Values
	to       Values
	duration time.Duration
	easing   utils.EasingFunc

	onUpdate   func(Values)
	onComplete func()
	next       *Tween
	token      *Token

	startedAt time.Time
	state     tweenState
}

// Easing 设置缓动函数，nil 表示线性
func (t *Tween) Easing(f utils.EasingFunc) *Tween {
	if f == nil {
		f = utils.EaseLinear
	}
	t.easing = f
	return t
}

// OnUpdate 设置每个 tick 的回调，参数为当前插值快照
func (t *Tween) OnUpdate(f func(Values)) *Tween {
	t.onUpdate = f
	return t
}

// OnComplete 设置完成回调（被停止或取消时不会触发）
func (t *Tween) OnComplete(f func()) *Tween {
	t.onComplete = f
	return t
}

// Chain 声明后继补间：仅在本补间的完成回调执行之后才启动
// 返回接收者本身，便于 a.Chain(b).Start()
func (t *Tween) Chain(next *Tween) *Tween {
	t.next = next
	return t
}

// Bind 绑定取消令牌
func (t *Tween) Bind(token *Token) *Tween {
	t.token = token
	return t
}

// Start 以调度器时钟的当前时间启动补间
func (t *Tween) Start() *Tween {
	return t.startAt(t.scheduler.clock.Now())
}

// startAt 以指定时间启动补间；已运行、已完成或已停止的补间保持不变
func (t *Tween) startAt(at time.Time) *Tween {
	if t.state != statePending {
		return t
	}
	t.startedAt = at
	t.state = stateRunning
	t.scheduler.add(t)
	return t
}

// Stop 立即停止补间：不再回调，后继补间不会启动
func (t *Tween) Stop() {
	if t.state == statePending || t.state == stateRunning {
		t.state = stateStopped
	}
}

// IsRunning 补间是否正在运行
func (t *Tween) IsRunning() bool {
	return t.state == stateRunning
}

// IsCompleted 补间是否已正常完成
func (t *Tween) IsCompleted() bool {
	return t.state == stateCompleted
}

// IsStopped 补间是否被停止或取消
func (t *Tween) IsStopped() bool {
	return t.state == stateStopped
}

// Duration 返回补间时长
func (t *Tween) Duration() time.Duration {
	return t.duration
}

// Next 返回声明的后继补间
func (t *Tween) Next() *Tween {
	return t.next
}

// step 在 now 时刻推进一次
func (t *Tween) step(now time.Time) {
	if t.state != stateRunning {
		return
	}
	if t.token.Cancelled() {
		t.state = stateStopped
		return
	}

	progress := 1.0
	if t.duration > 0 {
		progress = float64(now.Sub(t.startedAt)) / float64(t.duration)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	var snapshot Values
	if progress == 1 {
		snapshot = t.interpolateEnd()
	} else {
		snapshot = t.interpolate(t.easing(progress))
	}
	if t.onUpdate != nil {
		t.onUpdate(snapshot)
	}

	// OnUpdate 里可能已经停止了自己
	if t.state != stateRunning || progress < 1 {
		return
	}

	t.state = stateCompleted
	if t.onComplete != nil {
		t.onComplete()
	}
	if t.next != nil {
		// 后继从本补间的理论结束时刻开始计时，避免逐段累积帧误差
		t.next.startAt(t.startedAt.Add(t.duration))
	}
}

// interpolateEnd 终点快照：直接取 to 的值，不经过缓动与插值的浮点误差
func (t *Tween) interpolateEnd() Values {
	out := make(Values, len(t.from))
	for k, start := range t.from {
		if end, ok := t.to[k]; ok {
			out[k] = end
		} else {
			out[k] = start
		}
	}
	return out
}

// interpolate 按缓动后的进度计算快照；只在 from 中出现的键保持不变，只在 to 中出现的键被忽略
func (t *Tween) interpolate(eased float64) Values {
	out := make(Values, len(t.from))
	for k, start := range t.from {
		end, ok := t.to[k]
		if !ok {
			out[k] = start
			continue
		}
		out[k] = utils.Lerp(start, end, eased)
	}
	return out
}
