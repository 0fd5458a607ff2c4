package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 创建一局新游戏的场景，避免 game 包反向依赖 scenes 包
type SceneFactory func() (Scene, error)

// SceneManager 管理当前活动场景，同一时刻只驱动一个场景的 Update/Draw
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	restarts     int
}

// NewSceneManager 创建一个没有活动场景的管理器
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Restarts 返回 Restart 成功的次数
func (sm *SceneManager) Restarts() int {
	return sm.restarts
}

// Restart 通过工厂开启新一局
//
// 旧场景若实现 Saveable，会先保存成绩。
// 工厂失败时保留旧场景并返回 false。
func (sm *SceneManager) Restart() bool {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return false
	}

	newScene, err := sm.sceneFactory()
	if err != nil || newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建新场景: %v", err)
		return false
	}

	if saveable, ok := sm.currentScene.(Saveable); ok {
		saveable.SaveOnExit()
	}

	sm.SwitchTo(newScene)
	sm.restarts++
	log.Printf("[SceneManager] 已开始第 %d 局", sm.restarts)
	return true
}

// Update 驱动当前场景，没有场景时什么都不做
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有场景时什么都不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
