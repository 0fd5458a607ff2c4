package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 表示一个可绘制的场景（一局游戏即一个场景）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 是可选接口，窗口关闭时由 App 调用以落盘成绩
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败，程序仍会正常退出
	SaveOnExit() bool
}
