package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestNewGameConfigDerivesRanges 测试由视口宽度推导平台参数
func TestNewGameConfigDerivesRanges(t *testing.T) {
	tests := []struct {
		name         string
		width        float64
		height       float64
		wantSize     Range
		wantHeight   float64
		wantDistance Range
	}{
		{
			name:         "375x667（原版尺寸）",
			width:        375,
			height:       667,
			wantSize:     Range{Min: 62, Max: 107},
			wantHeight:   53,
			wantDistance: Range{Min: 31, Max: 214},
		},
		{
			name:         "750x1334",
			width:        750,
			height:       1334,
			wantSize:     Range{Min: 125, Max: 214},
			wantHeight:   107,
			wantDistance: Range{Min: 62, Max: 428},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewGameConfig(tt.width, tt.height)

			if cfg.PlatformSizeRange != tt.wantSize {
				t.Errorf("PlatformSizeRange = %+v, want %+v", cfg.PlatformSizeRange, tt.wantSize)
			}
			if cfg.PlatformHeight != tt.wantHeight {
				t.Errorf("PlatformHeight = %.1f, want %.1f", cfg.PlatformHeight, tt.wantHeight)
			}
			if cfg.PlatformDistanceRange != tt.wantDistance {
				t.Errorf("PlatformDistanceRange = %+v, want %+v", cfg.PlatformDistanceRange, tt.wantDistance)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// TestNewGameConfigDefaults 测试默认值
func TestNewGameConfigDefaults(t *testing.T) {
	cfg := NewGameConfig(375, 667)

	if cfg.Gravity != DefaultGravity {
		t.Errorf("Gravity = %.2f, want %.2f", cfg.Gravity, DefaultGravity)
	}
	if cfg.ChargeDuration != 1500*time.Millisecond {
		t.Errorf("ChargeDuration = %v, want 1.5s", cfg.ChargeDuration)
	}
	if cfg.FlightDuration != 400*time.Millisecond {
		t.Errorf("FlightDuration = %v, want 400ms", cfg.FlightDuration)
	}
	if cfg.EvictionBatch != 4 {
		t.Errorf("EvictionBatch = %d, want 4", cfg.EvictionBatch)
	}
	if !cfg.UseDefaultFactories {
		t.Error("UseDefaultFactories should default to true")
	}
	if cfg.V0Base() != 37.5 {
		t.Errorf("V0Base() = %.2f, want 37.5", cfg.V0Base())
	}
}

// TestParseGameConfig 测试 YAML 解析
func TestParseGameConfig(t *testing.T) {
	data := []byte(`
viewWidth: 375
viewHeight: 667
chargeDuration: 2s
platformSizeRange:
  min: 50
  max: 100
useDefaultFactories: false
seed: 42
`)

	cfg, err := ParseGameConfig(data)
	if err != nil {
		t.Fatalf("ParseGameConfig() error: %v", err)
	}

	if cfg.ChargeDuration != 2*time.Second {
		t.Errorf("ChargeDuration = %v, want 2s", cfg.ChargeDuration)
	}
	if cfg.PlatformSizeRange != (Range{Min: 50, Max: 100}) {
		t.Errorf("PlatformSizeRange = %+v", cfg.PlatformSizeRange)
	}
	// 间距和高度仍由（配置的）尺寸区间推导
	if cfg.PlatformHeight != 50 {
		t.Errorf("PlatformHeight = %.1f, want 50", cfg.PlatformHeight)
	}
	if cfg.PlatformDistanceRange != (Range{Min: 25, Max: 200}) {
		t.Errorf("PlatformDistanceRange = %+v", cfg.PlatformDistanceRange)
	}
	if cfg.UseDefaultFactories {
		t.Error("UseDefaultFactories should be false")
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
}

// TestParseGameConfigErrors 测试无效配置
func TestParseGameConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "缺少视口尺寸",
			data:    "gravity: 9.8\n",
			wantErr: "view size",
		},
		{
			name:    "负重力",
			data:    "viewWidth: 375\nviewHeight: 667\ngravity: -1\n",
			wantErr: "gravity",
		},
		{
			name:    "尺寸区间颠倒",
			data:    "viewWidth: 375\nviewHeight: 667\nplatformSizeRange: {min: 100, max: 50}\n",
			wantErr: "platformSizeRange",
		},
		{
			name:    "YAML 语法错误",
			data:    "viewWidth: [375\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want contains %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestLoadGameConfig 测试从文件加载
func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jump.yaml")
	if err := os.WriteFile(path, []byte("viewWidth: 375\nviewHeight: 667\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig() error: %v", err)
	}
	if cfg.PlatformSizeRange.Max != 107 {
		t.Errorf("PlatformSizeRange.Max = %.1f, want 107", cfg.PlatformSizeRange.Max)
	}

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadRepositoryGameConfig 测试仓库自带的配置文件
func TestLoadRepositoryGameConfig(t *testing.T) {
	cfg, err := LoadGameConfig("../../data/jump.yaml")
	if err != nil {
		t.Fatalf("LoadGameConfig(data/jump.yaml) error: %v", err)
	}
	if cfg.ViewWidth != 375 || cfg.ViewHeight != 667 {
		t.Errorf("view = %.0fx%.0f, want 375x667", cfg.ViewWidth, cfg.ViewHeight)
	}
}

// TestApplyOverrides 测试 viper 覆盖
func TestApplyOverrides(t *testing.T) {
	t.Run("覆盖视口宽度会重新推导区间", func(t *testing.T) {
		cfg := NewGameConfig(375, 667)
		v := viper.New()
		v.Set(KeyViewWidth, 750)

		if err := ApplyOverrides(cfg, v); err != nil {
			t.Fatalf("ApplyOverrides() error: %v", err)
		}
		if cfg.PlatformSizeRange != (Range{Min: 125, Max: 214}) {
			t.Errorf("PlatformSizeRange = %+v, want {125 214}", cfg.PlatformSizeRange)
		}
		if cfg.PlatformHeight != 107 {
			t.Errorf("PlatformHeight = %.1f, want 107", cfg.PlatformHeight)
		}
	})

	t.Run("覆盖视口宽度保留显式配置的平台参数", func(t *testing.T) {
		cfg, err := ParseGameConfig([]byte(
			"viewWidth: 375\nviewHeight: 667\nplatformSizeRange: {min: 50, max: 90}\nplatformHeight: 30\n"))
		if err != nil {
			t.Fatalf("ParseGameConfig() error: %v", err)
		}
		v := viper.New()
		v.Set(KeyViewWidth, 750)

		if err := ApplyOverrides(cfg, v); err != nil {
			t.Fatalf("ApplyOverrides() error: %v", err)
		}
		if cfg.PlatformSizeRange != (Range{Min: 50, Max: 90}) {
			t.Errorf("PlatformSizeRange = %+v, want explicit {50 90}", cfg.PlatformSizeRange)
		}
		if cfg.PlatformHeight != 30 {
			t.Errorf("PlatformHeight = %.1f, want explicit 30", cfg.PlatformHeight)
		}
		// 间距区间未配置，按显式尺寸区间推导
		if cfg.PlatformDistanceRange != (Range{Min: 25, Max: 180}) {
			t.Errorf("PlatformDistanceRange = %+v, want {25 180}", cfg.PlatformDistanceRange)
		}
	})

	t.Run("连续两次覆盖宽度都会重新推导", func(t *testing.T) {
		cfg := NewGameConfig(375, 667)
		for _, width := range []float64{750, 375} {
			v := viper.New()
			v.Set(KeyViewWidth, width)
			if err := ApplyOverrides(cfg, v); err != nil {
				t.Fatalf("ApplyOverrides(%v) error: %v", width, err)
			}
		}
		if cfg.PlatformSizeRange != (Range{Min: 62, Max: 107}) {
			t.Errorf("PlatformSizeRange = %+v, want {62 107}", cfg.PlatformSizeRange)
		}
	})

	t.Run("未设置的键保持原值", func(t *testing.T) {
		cfg := NewGameConfig(375, 667)
		v := viper.New()
		v.Set(KeyChargeDuration, "3s")
		v.Set(KeySeed, 7)

		if err := ApplyOverrides(cfg, v); err != nil {
			t.Fatalf("ApplyOverrides() error: %v", err)
		}
		if cfg.ChargeDuration != 3*time.Second {
			t.Errorf("ChargeDuration = %v, want 3s", cfg.ChargeDuration)
		}
		if cfg.Seed != 7 {
			t.Errorf("Seed = %d, want 7", cfg.Seed)
		}
		if cfg.PlatformSizeRange != (Range{Min: 62, Max: 107}) {
			t.Errorf("PlatformSizeRange changed: %+v", cfg.PlatformSizeRange)
		}
	})

	t.Run("无效覆盖返回错误", func(t *testing.T) {
		cfg := NewGameConfig(375, 667)
		v := viper.New()
		v.Set(KeyGravity, -5)

		if err := ApplyOverrides(cfg, v); err == nil {
			t.Error("expected error for negative gravity")
		}
	})

	t.Run("nil viper 不做任何修改", func(t *testing.T) {
		cfg := NewGameConfig(375, 667)
		if err := ApplyOverrides(cfg, nil); err != nil {
			t.Errorf("ApplyOverrides(nil) error: %v", err)
		}
	})
}

func TestOverrideSourceReadsEnv(t *testing.T) {
	t.Setenv("JUMP_GRAVITY", "12.5")
	t.Setenv("JUMP_CHARGEDURATION", "2s")

	cfg := NewGameConfig(375, 667)
	v := NewOverrideSource()
	v.Set(KeySeed, 99)

	if err := ApplyOverrides(cfg, v); err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if cfg.Gravity != 12.5 {
		t.Errorf("Gravity = %v, want 12.5", cfg.Gravity)
	}
	if cfg.ChargeDuration != 2*time.Second {
		t.Errorf("ChargeDuration = %v, want 2s", cfg.ChargeDuration)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.ViewWidth != 375 {
		t.Errorf("ViewWidth = %v, want unchanged 375", cfg.ViewWidth)
	}
}
