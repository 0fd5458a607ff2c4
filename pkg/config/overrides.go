package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// 可以通过命令行/环境变量覆盖的配置键
const (
	KeyViewWidth           = "viewWidth"
	KeyViewHeight          = "viewHeight"
	KeyGravity             = "gravity"
	KeyChargeDuration      = "chargeDuration"
	KeyFlightDuration      = "flightDuration"
	KeyFollowDuration      = "followDuration"
	KeyUseDefaultFactories = "useDefaultFactories"
	KeySeed                = "seed"
)

// EnvPrefix 环境变量前缀，例如 JUMP_GRAVITY、JUMP_VIEWWIDTH
const EnvPrefix = "JUMP"

// NewOverrideSource 创建读取 JUMP_* 环境变量的 viper 实例
// 命令行参数通过 v.Set 写入同一个实例，优先级高于环境变量
func NewOverrideSource() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// ApplyOverrides 把 viper 中已设置的键覆盖到配置上
//
// 视口宽度被覆盖时，原本由宽度推导的平台尺寸/间距/高度按新的宽度重新推导，
// 配置文件显式填写的保持不变（会打印警告）。覆盖后重新补全默认值并验证。
func ApplyOverrides(cfg *GameConfig, v *viper.Viper) error {
	if v == nil {
		return nil
	}

	resized := false
	if v.IsSet(KeyViewWidth) {
		cfg.ViewWidth = v.GetFloat64(KeyViewWidth)
		resized = true
	}
	if v.IsSet(KeyViewHeight) {
		cfg.ViewHeight = v.GetFloat64(KeyViewHeight)
	}
	if v.IsSet(KeyGravity) {
		cfg.Gravity = v.GetFloat64(KeyGravity)
	}
	if v.IsSet(KeyChargeDuration) {
		cfg.ChargeDuration = v.GetDuration(KeyChargeDuration)
	}
	if v.IsSet(KeyFlightDuration) {
		cfg.FlightDuration = v.GetDuration(KeyFlightDuration)
	}
	if v.IsSet(KeyFollowDuration) {
		cfg.FollowDuration = v.GetDuration(KeyFollowDuration)
	}
	if v.IsSet(KeyUseDefaultFactories) {
		cfg.UseDefaultFactories = v.GetBool(KeyUseDefaultFactories)
	}
	if v.IsSet(KeySeed) {
		cfg.Seed = v.GetInt64(KeySeed)
	}

	if resized {
		kept := cfg.rederive()
		log.Printf("[Config] View width overridden to %.0f, derived platform parameters recomputed", cfg.ViewWidth)
		if len(kept) > 0 {
			log.Printf("[Config] Warning: keeping explicit %v, they do not follow the new view width", kept)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid game config after overrides: %w", err)
	}
	return nil
}
