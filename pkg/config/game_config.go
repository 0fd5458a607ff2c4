package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值（与原版一致）
const (
	DefaultGravity           = 9.8
	DefaultChargeDuration    = 1500 * time.Millisecond
	DefaultFlightDuration    = 400 * time.Millisecond
	DefaultFollowDuration    = 500 * time.Millisecond
	DefaultEnterHeight       = 100.0
	DefaultEvictionBatch     = 4
	DefaultPlayerSpawnOffset = 80.0
)

// Range 闭区间 [Min, Max]
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains 检查 v 是否在区间内
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsZero 区间是否未配置
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// GameConfig 跳跃游戏配置
//
// 配置文件位置: data/jump.yaml
//
// 未配置的平台尺寸、间距、高度由视口宽度推导：
//   - 尺寸区间 [⌊w/6⌋, ⌊w/3.5⌋]
//   - 平台高度 ⌊max/2⌋
//   - 间距区间 [⌊min/2⌋, 2·max]
type GameConfig struct {
	// ViewWidth / ViewHeight 视口尺寸（世界单位）
	ViewWidth  float64 `yaml:"viewWidth"`
	ViewHeight float64 `yaml:"viewHeight"`

	// Gravity 重力加速度
	Gravity float64 `yaml:"gravity"`

	// ChargeDuration 蓄力满所需时长
	ChargeDuration time.Duration `yaml:"chargeDuration"`

	// FlightDuration 起跳到落地（不含缓冲）的时长
	FlightDuration time.Duration `yaml:"flightDuration"`

	// FollowDuration 镜头跟随时长
	FollowDuration time.Duration `yaml:"followDuration"`

	// PlatformSizeRange 平台宽/深区间
	PlatformSizeRange Range `yaml:"platformSizeRange"`

	// PlatformDistanceRange 相邻平台边缘间距区间
	PlatformDistanceRange Range `yaml:"platformDistanceRange"`

	// PlatformHeight 平台高度（所有平台相同）
	PlatformHeight float64 `yaml:"platformHeight"`

	// EnterHeight 新平台入场时的下落高度（前两个平台不下落）
	EnterHeight float64 `yaml:"enterHeight"`

	// EvictionBatch 每次回收的平台数量
	EvictionBatch int `yaml:"evictionBatch"`

	// PlayerSpawnOffset 小人开局时位于第一个平台顶面之上的高度
	PlayerSpawnOffset float64 `yaml:"playerSpawnOffset"`

	// UseDefaultFactories 是否注册默认平台生成器
	UseDefaultFactories bool `yaml:"useDefaultFactories"`

	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`

	// derived 记录哪些平台参数是 ApplyDefaults 按视口宽度推导出来的
	derived derivedFields
}

type derivedFields struct {
	sizeRange     bool
	height        bool
	distanceRange bool
}

// rederive 清空由视口宽度推导的平台参数，下一次 ApplyDefaults 会按新宽度重新推导
// 配置文件显式填写的值保持不变；返回被保留的字段名
func (c *GameConfig) rederive() (kept []string) {
	if c.derived.sizeRange {
		c.PlatformSizeRange = Range{}
	} else {
		kept = append(kept, "platformSizeRange")
	}
	if c.derived.height {
		c.PlatformHeight = 0
	} else {
		kept = append(kept, "platformHeight")
	}
	if c.derived.distanceRange {
		c.PlatformDistanceRange = Range{}
	} else {
		kept = append(kept, "platformDistanceRange")
	}
	c.derived = derivedFields{}
	return kept
}

// NewGameConfig 返回指定视口尺寸下的默认配置
func NewGameConfig(viewWidth, viewHeight float64) *GameConfig {
	cfg := &GameConfig{
		ViewWidth:           viewWidth,
		ViewHeight:          viewHeight,
		UseDefaultFactories: true,
	}
	cfg.ApplyDefaults()
	return cfg
}

// LoadGameConfig 加载游戏配置
//
// 参数:
//   - path: 配置文件路径（如 "data/jump.yaml"）
//
// 返回:
//   - *GameConfig: 已补全默认值并通过验证的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig 从 YAML 数据解析游戏配置（嵌入资源使用）
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := &GameConfig{UseDefaultFactories: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults 补全未配置（零值）的字段
func (c *GameConfig) ApplyDefaults() {
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
	if c.ChargeDuration == 0 {
		c.ChargeDuration = DefaultChargeDuration
	}
	if c.FlightDuration == 0 {
		c.FlightDuration = DefaultFlightDuration
	}
	if c.FollowDuration == 0 {
		c.FollowDuration = DefaultFollowDuration
	}
	if c.EnterHeight == 0 {
		c.EnterHeight = DefaultEnterHeight
	}
	if c.EvictionBatch == 0 {
		c.EvictionBatch = DefaultEvictionBatch
	}
	if c.PlayerSpawnOffset == 0 {
		c.PlayerSpawnOffset = DefaultPlayerSpawnOffset
	}

	if c.PlatformSizeRange.IsZero() {
		c.PlatformSizeRange = Range{
			Min: math.Floor(c.ViewWidth / 6),
			Max: math.Floor(c.ViewWidth / 3.5),
		}
		c.derived.sizeRange = true
	}
	if c.PlatformHeight == 0 {
		c.PlatformHeight = math.Floor(c.PlatformSizeRange.Max / 2)
		c.derived.height = true
	}
	if c.PlatformDistanceRange.IsZero() {
		c.PlatformDistanceRange = Range{
			Min: math.Floor(c.PlatformSizeRange.Min / 2),
			Max: c.PlatformSizeRange.Max * 2,
		}
		c.derived.distanceRange = true
	}
}

// Validate 验证配置有效性
//
// 检查：
//   - 视口尺寸、重力、各时长为正
//   - 尺寸区间、间距区间 Min <= Max，且尺寸下限为正
//   - 回收批量为正
func (c *GameConfig) Validate() error {
	if c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		return fmt.Errorf("view size must be positive, got %.1fx%.1f", c.ViewWidth, c.ViewHeight)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %.2f", c.Gravity)
	}
	if c.ChargeDuration <= 0 {
		return fmt.Errorf("chargeDuration must be positive, got %v", c.ChargeDuration)
	}
	if c.FlightDuration <= 0 {
		return fmt.Errorf("flightDuration must be positive, got %v", c.FlightDuration)
	}
	if c.FollowDuration < 0 {
		return fmt.Errorf("followDuration must not be negative, got %v", c.FollowDuration)
	}
	if c.PlatformSizeRange.Min <= 0 || c.PlatformSizeRange.Min > c.PlatformSizeRange.Max {
		return fmt.Errorf("platformSizeRange invalid: min(%.1f) max(%.1f)",
			c.PlatformSizeRange.Min, c.PlatformSizeRange.Max)
	}
	if c.PlatformDistanceRange.Min < 0 || c.PlatformDistanceRange.Min > c.PlatformDistanceRange.Max {
		return fmt.Errorf("platformDistanceRange invalid: min(%.1f) max(%.1f)",
			c.PlatformDistanceRange.Min, c.PlatformDistanceRange.Max)
	}
	if c.PlatformHeight <= 0 {
		return fmt.Errorf("platformHeight must be positive, got %.1f", c.PlatformHeight)
	}
	if c.EvictionBatch <= 0 {
		return fmt.Errorf("evictionBatch must be positive, got %d", c.EvictionBatch)
	}
	return nil
}

// V0Base 起跳基础初速度
func (c *GameConfig) V0Base() float64 {
	return c.ViewWidth / 10
}
