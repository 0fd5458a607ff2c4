package tween

import (
	"sync"
	"time"
)

// Clock 时间源
// 调度器、蓄力计时都从同一个 Clock 读取时间，测试中替换为 ManualClock 即可脱离真实帧率
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统单调时钟
type SystemClock struct{}

// Now 返回当前系统时间
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock 可手动推进的时钟，用于测试
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前模拟时间
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set 直接设置当前时间
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance 将时间向前推进 d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
