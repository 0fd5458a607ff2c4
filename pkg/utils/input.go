// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PressState 按压状态
type PressState int

const (
	// PressNone 未按下
	PressNone PressState = iota
	// PressStarted 本帧刚按下
	PressStarted
	// PressHeld 持续按住
	PressHeld
	// PressEnded 本帧刚松开
	PressEnded
)

// PressTracker 把鼠标、触摸和空格键合并成一个"按住蓄力/松开起跳"的输入源
//
// 多个输入同时按住时视为一次按压，全部松开才算结束。
type PressTracker struct {
	state PressState
}

// NewPressTracker 创建按压跟踪器
func NewPressTracker() *PressTracker {
	return &PressTracker{state: PressNone}
}

// Update 根据本帧是否按住推进状态（每帧调用一次）
func (pt *PressTracker) Update(held bool) PressState {
	switch pt.state {
	case PressNone, PressEnded:
		if held {
			pt.state = PressStarted
		} else {
			pt.state = PressNone
		}
	case PressStarted, PressHeld:
		if held {
			pt.state = PressHeld
		} else {
			pt.state = PressEnded
		}
	}
	return pt.state
}

// Poll 读取本帧的 ebiten 输入并推进状态
func (pt *PressTracker) Poll() PressState {
	return pt.Update(IsPressHeld())
}

// IsPressHeld 是否有任意按压输入（触摸、鼠标左键、空格）
func IsPressHeld() bool {
	if len(ebiten.AppendTouchIDs(nil)) > 0 {
		return true
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return ebiten.IsKeyPressed(ebiten.KeySpace)
}

// IsRestartRequested 是否请求重开一局（R 键）
func IsRestartRequested() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyR)
}
