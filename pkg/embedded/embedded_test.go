package embedded

import (
	"strings"
	"testing"
	"testing/fstest"
)

const testConfig = "viewWidth: 375\nviewHeight: 667\n"

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/jump.yaml": {Data: []byte(testConfig)},
	}
}

// TestNotInitialized 测试未初始化时的调用
func TestNotInitialized(t *testing.T) {
	Init(nil)

	if _, err := ReadFile("data/jump.yaml"); err == nil {
		t.Error("Expected error when calling ReadFile() before Init()")
	}
	if _, err := LoadGameConfig(); err == nil {
		t.Error("Expected error when calling LoadGameConfig() before Init()")
	}
}

// TestInvalidPrefix 测试无效路径前缀
func TestInvalidPrefix(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	tests := []string{"assets/a.png", "jump.yaml", "/data/jump.yaml"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			_, err := ReadFile(path)
			if err == nil {
				t.Fatal("expected error for invalid prefix")
			}
			if !strings.Contains(err.Error(), "unknown resource path prefix") {
				t.Errorf("Unexpected error message: %v", err)
			}
		})
	}
}

// TestPathNormalization 测试路径标准化
func TestPathNormalization(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	for _, path := range []string{"data/jump.yaml", "./data/jump.yaml"} {
		data, err := ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile(%q) error: %v", path, err)
			continue
		}
		if string(data) != testConfig {
			t.Errorf("ReadFile(%q) = %q", path, data)
		}
	}
}

// TestReadMissingFile 测试读取不存在的文件
func TestReadMissingFile(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	if _, err := ReadFile("data/missing.yaml"); err == nil {
		t.Error("ReadFile(data/missing.yaml) should fail")
	}
}

// TestLoadGameConfig 测试解析嵌入的游戏配置
func TestLoadGameConfig(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	cfg, err := LoadGameConfig()
	if err != nil {
		t.Fatalf("LoadGameConfig() error: %v", err)
	}
	if cfg.PlatformSizeRange.Min != 62 || cfg.PlatformSizeRange.Max != 107 {
		t.Errorf("PlatformSizeRange = %+v, want {62 107}", cfg.PlatformSizeRange)
	}
}
