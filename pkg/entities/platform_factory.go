package entities

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"reflect"
	"unsafe"

	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
)

// DefaultPalette 默认平台颜色
var DefaultPalette = []color.RGBA{
	{R: 0x67, G: 0xC2, B: 0x3A, A: 0xFF},
	{R: 0xE6, G: 0xA2, B: 0x3C, A: 0xFF},
	{R: 0xF5, G: 0x6C, B: 0x6C, A: 0xFF},
	{R: 0x90, G: 0x93, B: 0x99, A: 0xFF},
	{R: 0x40, G: 0x9E, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
}

// Primitives 生成器可用的基础工具：随机源与调色板
type Primitives struct {
	Rand    *rand.Rand
	Palette []color.RGBA
}

// NewPrimitives 创建基础工具（配置的种子为 0 时，调用方负责换成时间种子）
func NewPrimitives(seed int64) *Primitives {
	return &Primitives{
		Rand:    rand.New(rand.NewSource(seed)),
		Palette: DefaultPalette,
	}
}

// RandomInRange 返回 Min 加上一个随机整数步长，结果始终落在 [Min, Max] 内
func (p *Primitives) RandomInRange(r config.Range) float64 {
	span := math.Floor(r.Max - r.Min)
	if span <= 0 {
		return r.Min
	}
	return r.Min + float64(p.Rand.Intn(int(span)+1))
}

// RandomColor 从调色板随机取一个颜色
func (p *Primitives) RandomColor() color.RGBA {
	if len(p.Palette) == 0 {
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return p.Palette[p.Rand.Intn(len(p.Palette))]
}

// GeneratorOptions 生成器调用上下文
type GeneratorOptions struct {
	SizeRange      config.Range
	PlatformHeight float64
	// Sequence 本局中的平台创建序号（从 0 开始），由平台链维护
	Sequence int
}

// PlatformGenerator 平台生成器，由嵌入方提供
// 返回 nil 表示本次无法生成，注册表会随机换一个生成器
type PlatformGenerator interface {
	Generate(p *Primitives, opts GeneratorOptions) *components.Footprint
}

// GeneratorFunc 函数形式的生成器
type GeneratorFunc func(p *Primitives, opts GeneratorOptions) *components.Footprint

// Generate 实现 PlatformGenerator
func (f GeneratorFunc) Generate(p *Primitives, opts GeneratorOptions) *components.Footprint {
	return f(p, opts)
}

// DefaultBox 默认纯色方块：前两个平台固定为最大尺寸，之后在尺寸区间内随机
var DefaultBox = GeneratorFunc(func(p *Primitives, opts GeneratorOptions) *components.Footprint {
	size := defaultSize(p, opts)
	return &components.Footprint{
		Width:  size,
		Height: opts.PlatformHeight,
		Depth:  size,
		Color:  p.RandomColor(),
		Shape:  "box",
	}
})

// DefaultCylinder 默认纯色圆柱，尺寸规则与 DefaultBox 相同（Width/Depth 为直径）
var DefaultCylinder = GeneratorFunc(func(p *Primitives, opts GeneratorOptions) *components.Footprint {
	size := defaultSize(p, opts)
	return &components.Footprint{
		Width:  size,
		Height: opts.PlatformHeight,
		Depth:  size,
		Color:  p.RandomColor(),
		Shape:  "cylinder",
	}
})

func defaultSize(p *Primitives, opts GeneratorOptions) float64 {
	if opts.Sequence < 2 {
		return opts.SizeRange.Max
	}
	return p.RandomInRange(opts.SizeRange)
}

// factoryEntry 注册表中的一个生成器及其缓存策略
type factoryEntry struct {
	gen    PlatformGenerator
	key    any
	static bool
	cached *components.Footprint
}

// produce 动态生成器每次调用；静态生成器只调用一次，之后返回缓存的副本
func (e *factoryEntry) produce(p *Primitives, opts GeneratorOptions) *components.Footprint {
	if e.static && e.cached != nil {
		return e.cached.Clone()
	}
	fp := e.gen.Generate(p, opts)
	if fp == nil {
		return nil
	}
	if e.static {
		e.cached = fp
		return fp.Clone()
	}
	return fp
}

// PlatformFactoryRegistry 平台生成器注册表（有序、去重）
type PlatformFactoryRegistry struct {
	prims   *Primitives
	entries []*factoryEntry
}

// NewPlatformFactoryRegistry 创建注册表
func NewPlatformFactoryRegistry(prims *Primitives) *PlatformFactoryRegistry {
	if prims == nil {
		prims = NewPrimitives(1)
	}
	return &PlatformFactoryRegistry{prims: prims}
}

// RegisterDefaults 注册默认生成器（均为动态）
func (r *PlatformFactoryRegistry) RegisterDefaults() {
	r.Register(DefaultBox, false)
	r.Register(DefaultCylinder, false)
}

// Register 注册生成器，static 为 true 时只生成一次并缓存
// 同一个生成器重复注册会被忽略，返回是否新增
//
// 可比较的值按 == 判重，函数按闭包对象判重：
// 同一个函数值重复注册会被忽略，捕获不同参数的两个闭包是两个生成器。
func (r *PlatformFactoryRegistry) Register(gen PlatformGenerator, static bool) bool {
	if gen == nil {
		return false
	}
	if v := reflect.ValueOf(gen); v.Kind() == reflect.Func && v.IsNil() {
		return false
	}
	key := identity(gen)
	if key != nil {
		for _, e := range r.entries {
			if e.key == key {
				return false
			}
		}
	}
	r.entries = append(r.entries, &factoryEntry{gen: gen, key: key, static: static})
	return true
}

// identity 返回生成器的判重键，无法判重时返回 nil
func identity(gen PlatformGenerator) any {
	v := reflect.ValueOf(gen)
	if v.Kind() == reflect.Func {
		return funcKey{typ: v.Type(), closure: closureOf(v)}
	}
	if v.Type().Comparable() {
		return gen
	}
	return nil
}

type funcKey struct {
	typ     reflect.Type
	closure unsafe.Pointer
}

// closureOf 返回函数值指向的闭包对象
//
// reflect.Value.Pointer 只给出代码地址，会受内联影响；
// 函数变量本身存的是闭包对象指针，每次求值闭包字面量都会得到新的对象。
func closureOf(fn reflect.Value) unsafe.Pointer {
	slot := reflect.New(fn.Type())
	slot.Elem().Set(fn)
	return *(*unsafe.Pointer)(slot.UnsafePointer())
}

// Len 返回已注册生成器数量
func (r *PlatformFactoryRegistry) Len() int {
	return len(r.entries)
}

// Primitives 返回生成器使用的基础工具
func (r *PlatformFactoryRegistry) Primitives() *Primitives {
	return r.prims
}

// Create 生成一个平台外形
//
// index 在范围内时使用对应生成器，它返回 nil 时改用随机生成器；
// index < 0 或越界时随机选择。
func (r *PlatformFactoryRegistry) Create(index int, opts GeneratorOptions) (*components.Footprint, error) {
	if len(r.entries) == 0 {
		return nil, fmt.Errorf("no platform generator registered")
	}

	if index >= 0 && index < len(r.entries) {
		if fp := r.entries[index].produce(r.prims, opts); fp != nil {
			return fp, nil
		}
	}

	e := r.entries[r.prims.Rand.Intn(len(r.entries))]
	fp := e.produce(r.prims, opts)
	if fp == nil {
		return nil, fmt.Errorf("platform generator returned nil (sequence %d)", opts.Sequence)
	}
	return fp, nil
}
