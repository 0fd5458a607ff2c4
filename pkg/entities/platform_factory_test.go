package entities

import (
	"testing"

	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
)

func testOptions(seq int) GeneratorOptions {
	return GeneratorOptions{
		SizeRange:      config.Range{Min: 62, Max: 107},
		PlatformHeight: 53,
		Sequence:       seq,
	}
}

// countingGenerator 记录调用次数的生成器
type countingGenerator struct {
	calls int
	width float64
}

func (g *countingGenerator) Generate(p *Primitives, opts GeneratorOptions) *components.Footprint {
	g.calls++
	return &components.Footprint{Width: g.width, Height: opts.PlatformHeight, Depth: g.width, Shape: "counting"}
}

// TestDefaultBoxSizing 测试默认生成器尺寸规则
func TestDefaultBoxSizing(t *testing.T) {
	p := NewPrimitives(7)

	for seq := 0; seq < 2; seq++ {
		fp := DefaultBox.Generate(p, testOptions(seq))
		if fp.Width != 107 || fp.Depth != 107 {
			t.Errorf("sequence %d: size = %.0fx%.0f, want 107x107", seq, fp.Width, fp.Depth)
		}
	}

	for seq := 2; seq < 200; seq++ {
		fp := DefaultBox.Generate(p, testOptions(seq))
		if fp.Width < 62 || fp.Width > 107 {
			t.Fatalf("sequence %d: width %.0f out of [62, 107]", seq, fp.Width)
		}
		if fp.Width != fp.Depth {
			t.Fatalf("sequence %d: width %.0f != depth %.0f", seq, fp.Width, fp.Depth)
		}
		if fp.Height != 53 {
			t.Fatalf("sequence %d: height %.0f, want 53", seq, fp.Height)
		}
	}
}

// TestRegisterDeduplicates 测试重复注册被忽略
func TestRegisterDeduplicates(t *testing.T) {
	r := NewPlatformFactoryRegistry(NewPrimitives(1))

	if !r.Register(DefaultBox, false) {
		t.Error("first Register(DefaultBox) should succeed")
	}
	if r.Register(DefaultBox, true) {
		t.Error("second Register(DefaultBox) should be ignored")
	}

	gen := &countingGenerator{width: 80}
	if !r.Register(gen, false) {
		t.Error("Register(pointer generator) should succeed")
	}
	if r.Register(gen, false) {
		t.Error("Register(same pointer) should be ignored")
	}
	if !r.Register(&countingGenerator{width: 80}, false) {
		t.Error("Register(different pointer) should succeed")
	}

	// 闭包按对象判重：同一个值重复注册被忽略，不同参数构造的闭包各自独立
	makeGen := func(shape string) GeneratorFunc {
		return func(p *Primitives, opts GeneratorOptions) *components.Footprint {
			return &components.Footprint{Width: 70, Depth: 70, Height: opts.PlatformHeight, Shape: shape}
		}
	}
	star := makeGen("star")
	if !r.Register(star, false) {
		t.Error("Register(star) should succeed")
	}
	if r.Register(star, true) {
		t.Error("Register(same closure value) should be ignored")
	}
	if !r.Register(makeGen("hexagon"), false) {
		t.Error("Register(hexagon) should succeed: closure with different captures is a different generator")
	}
	if !r.Register(DefaultCylinder, false) {
		t.Error("Register(DefaultCylinder) should succeed")
	}

	if r.Register(nil, false) {
		t.Error("Register(nil) should be ignored")
	}
	if r.Register(GeneratorFunc(nil), false) {
		t.Error("Register(nil func) should be ignored")
	}

	if r.Len() != 6 {
		t.Errorf("Len() = %d, want 6", r.Len())
	}

	shapes := map[string]bool{}
	for i := 0; i < r.Len(); i++ {
		fp, err := r.Create(i, testOptions(5))
		if err != nil {
			t.Fatalf("Create(%d) error: %v", i, err)
		}
		shapes[fp.Shape] = true
	}
	for _, want := range []string{"box", "counting", "star", "hexagon", "cylinder"} {
		if !shapes[want] {
			t.Errorf("registered generator %q was lost", want)
		}
	}
}

// TestRandomInRangeStaysInside 测试非整数区间的随机取值不越界
func TestRandomInRangeStaysInside(t *testing.T) {
	tests := []struct {
		name  string
		r     config.Range
		allow []float64
	}{
		{"整数区间", config.Range{Min: 3, Max: 5}, []float64{3, 4, 5}},
		{"小数区间", config.Range{Min: 10.5, Max: 11.5}, []float64{10.5, 11.5}},
		{"跨度不足整数", config.Range{Min: 10.5, Max: 12.25}, []float64{10.5, 11.5}},
		{"退化区间", config.Range{Min: 7.25, Max: 7.25}, []float64{7.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrimitives(11)
			seen := map[float64]bool{}
			for i := 0; i < 500; i++ {
				v := p.RandomInRange(tt.r)
				if v < tt.r.Min || v > tt.r.Max {
					t.Fatalf("RandomInRange(%v) = %v, out of range", tt.r, v)
				}
				seen[v] = true
			}
			for _, want := range tt.allow {
				if !seen[want] {
					t.Errorf("value %v never drawn (seen %v)", want, seen)
				}
			}
			if len(seen) != len(tt.allow) {
				t.Errorf("drawn values %v, want exactly %v", seen, tt.allow)
			}
		})
	}
}

// TestDefaultSizeFractionalRange 测试小数尺寸区间下默认生成器不低于下限
func TestDefaultSizeFractionalRange(t *testing.T) {
	p := NewPrimitives(3)
	opts := GeneratorOptions{SizeRange: config.Range{Min: 53.5, Max: 107.2}, PlatformHeight: 53}

	for seq := 0; seq < 200; seq++ {
		opts.Sequence = seq
		fp := DefaultBox.Generate(p, opts)
		if seq < 2 && fp.Width != 107.2 {
			t.Errorf("sequence %d: width %v, want max 107.2", seq, fp.Width)
		}
		if !opts.SizeRange.Contains(fp.Width) {
			t.Fatalf("sequence %d: width %v outside %v", seq, fp.Width, opts.SizeRange)
		}
	}
}
// TestStaticGeneratorCaching 测试静态生成器缓存与副本语义
func TestStaticGeneratorCaching(t *testing.T) {
	tests := []struct {
		name      string
		static    bool
		wantCalls int
	}{
		{name: "静态生成器只调用一次", static: true, wantCalls: 1},
		{name: "动态生成器每次调用", static: false, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPlatformFactoryRegistry(NewPrimitives(1))
			gen := &countingGenerator{width: 80}
			r.Register(gen, tt.static)

			first, err := r.Create(0, testOptions(0))
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			// 原地修改返回值不能影响后续结果
			first.Width = 1

			for i := 0; i < 2; i++ {
				fp, err := r.Create(0, testOptions(i+1))
				if err != nil {
					t.Fatalf("Create() error: %v", err)
				}
				if fp.Width != 80 {
					t.Errorf("Create() width = %.0f, want 80", fp.Width)
				}
				if fp == first {
					t.Error("Create() returned the same pointer twice")
				}
			}

			if gen.calls != tt.wantCalls {
				t.Errorf("generator calls = %d, want %d", gen.calls, tt.wantCalls)
			}
		})
	}
}

// TestCreateSelection 测试按索引选择与随机回退
func TestCreateSelection(t *testing.T) {
	nilGen := GeneratorFunc(func(p *Primitives, opts GeneratorOptions) *components.Footprint {
		return nil
	})
	a := &countingGenerator{width: 70}
	b := &countingGenerator{width: 90}

	t.Run("索引有效", func(t *testing.T) {
		r := NewPlatformFactoryRegistry(NewPrimitives(1))
		r.Register(a, false)
		r.Register(b, false)

		fp, err := r.Create(1, testOptions(0))
		if err != nil {
			t.Fatalf("Create(1) error: %v", err)
		}
		if fp.Width != 90 {
			t.Errorf("Create(1) width = %.0f, want 90", fp.Width)
		}
	})

	t.Run("索引越界或为负时随机", func(t *testing.T) {
		r := NewPlatformFactoryRegistry(NewPrimitives(3))
		r.Register(a, false)
		r.Register(b, false)

		seen := map[float64]bool{}
		for i := 0; i < 200; i++ {
			index := -1
			if i%2 == 0 {
				index = 5
			}
			fp, err := r.Create(index, testOptions(i))
			if err != nil {
				t.Fatalf("Create(%d) error: %v", index, err)
			}
			seen[fp.Width] = true
		}
		if !seen[70] || !seen[90] {
			t.Errorf("random selection should reach both generators, seen %v", seen)
		}
	})

	t.Run("生成器返回 nil 时随机回退", func(t *testing.T) {
		r := NewPlatformFactoryRegistry(NewPrimitives(5))
		r.Register(nilGen, false)
		r.Register(a, false)

		got := 0
		for i := 0; i < 50; i++ {
			fp, err := r.Create(0, testOptions(i))
			if err == nil && fp.Width == 70 {
				got++
			}
		}
		if got == 0 {
			t.Error("fallback should sometimes pick the working generator")
		}
	})

	t.Run("空注册表返回错误", func(t *testing.T) {
		r := NewPlatformFactoryRegistry(nil)
		if _, err := r.Create(0, testOptions(0)); err == nil {
			t.Error("expected error for empty registry")
		}
	})
}

// TestRegisterDefaults 测试默认生成器
func TestRegisterDefaults(t *testing.T) {
	r := NewPlatformFactoryRegistry(NewPrimitives(9))
	r.RegisterDefaults()
	r.RegisterDefaults()

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	shapes := map[string]bool{}
	for i := 0; i < 100; i++ {
		fp, err := r.Create(-1, testOptions(i))
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		shapes[fp.Shape] = true
	}
	if !shapes["box"] || !shapes["cylinder"] {
		t.Errorf("expected both default shapes, got %v", shapes)
	}
}
