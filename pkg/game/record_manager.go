package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameRecord 本机游戏记录
type GameRecord struct {
	BestScore     int    `yaml:"bestScore"`     // 最高分
	GamesPlayed   int    `yaml:"gamesPlayed"`   // 已完成局数
	LastScore     int    `yaml:"lastScore"`     // 最近一局得分
	LastSessionID string `yaml:"lastSessionId"` // 最近一局ID
}

// RecordManager 记录管理器
// 负责最高分的加载、保存和内存管理
type RecordManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	record       *GameRecord
}

// StorageAppName gdata 存储使用的应用名（窗口版与终端版共用成绩）
const StorageAppName = "gonewx_jump"

// 存储路径常量
const (
	recordObject   = "records"
	recordProperty = "local"
)

// NewRecordManager 创建记录管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存记录）
//
// 加载失败不是致命错误，使用空记录
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{
		gdataManager: gdataManager,
		record:       &GameRecord{},
	}

	if err := rm.Load(); err != nil {
		log.Printf("[RecordManager] Warning: Failed to load records: %v (starting fresh)", err)
	}
	return rm
}

// IsPersistent 记录是否能持久化
func (rm *RecordManager) IsPersistent() bool {
	return rm.gdataManager != nil
}

// Load 从 gdata 加载记录
// gdataManager 为 nil 或记录不存在时使用空记录
func (rm *RecordManager) Load() error {
	rm.record = &GameRecord{}

	if rm.gdataManager == nil {
		return nil
	}
	if !rm.gdataManager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}

	data, err := rm.gdataManager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var loaded GameRecord
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	rm.record = &loaded
	log.Printf("[RecordManager] Records loaded (best %d, games %d)", loaded.BestScore, loaded.GamesPlayed)
	return nil
}

// Save 保存记录到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (rm *RecordManager) Save() error {
	if rm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(rm.record)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := rm.gdataManager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Submit 提交一局的得分，返回是否刷新了最高分
// 注意：仅修改内存中的记录，需调用 Save() 方法持久化
func (rm *RecordManager) Submit(sessionID string, score int) bool {
	rm.record.GamesPlayed++
	rm.record.LastScore = score
	rm.record.LastSessionID = sessionID

	if score > rm.record.BestScore {
		rm.record.BestScore = score
		log.Printf("[RecordManager] New best score %d (session %s)", score, sessionID)
		return true
	}
	return false
}

// BestScore 返回最高分
func (rm *RecordManager) BestScore() int {
	return rm.record.BestScore
}

// Record 返回当前记录
func (rm *RecordManager) Record() *GameRecord {
	return rm.record
}
