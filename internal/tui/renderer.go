// Package tui 终端版跳一跳：用 tcell 俯视绘制平台链，用 beep 播放音效
package tui

import (
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/game"
)

const (
	// DefaultUnitsPerColumn 每列代表的世界长度；终端字符高约为宽的两倍，所以每行是它的两倍
	DefaultUnitsPerColumn = 8.0

	runePlatform   = '█'
	runeCompressed = '▓'
	runeFalling    = '░'
	runePlayer     = '@'
	runeFlipping   = 'o'
)

// Renderer 俯视终端渲染器：+X 向右，+Z 向上
//
// 终端不做平滑镜头，跟随请求立即到位并同步完成。
type Renderer struct {
	screen tcell.Screen

	objects    map[ecs.EntityID]game.Object
	transforms map[ecs.EntityID]game.Transform

	ground      mgl64.Vec3
	unitsPerCol float64
	unitsPerRow float64

	frames  int
	follows int
}

// NewRenderer 创建终端渲染器，unitsPerCol <= 0 时使用默认值
func NewRenderer(screen tcell.Screen, unitsPerCol float64) *Renderer {
	if unitsPerCol <= 0 {
		unitsPerCol = DefaultUnitsPerColumn
	}
	return &Renderer{
		screen:      screen,
		objects:     make(map[ecs.EntityID]game.Object),
		transforms:  make(map[ecs.EntityID]game.Transform),
		unitsPerCol: unitsPerCol,
		unitsPerRow: unitsPerCol * 2,
	}
}

func (r *Renderer) AddObject(obj game.Object) {
	r.objects[obj.ID] = obj
	if _, ok := r.transforms[obj.ID]; !ok {
		r.transforms[obj.ID] = game.Transform{Scale: mgl64.Vec3{1, 1, 1}}
	}
}

func (r *Renderer) RemoveObject(id ecs.EntityID) {
	delete(r.objects, id)
	delete(r.transforms, id)
}

func (r *Renderer) UpdateTransform(id ecs.EntityID, t game.Transform) {
	r.transforms[id] = t
}

func (r *Renderer) RenderFrame() {
	r.frames++
}

func (r *Renderer) MoveFollowTarget(_, _, ground mgl64.Vec3, _ time.Duration, onComplete func()) {
	r.ground = ground
	r.follows++
	if onComplete != nil {
		onComplete()
	}
}

// Follows 返回跟随请求次数
func (r *Renderer) Follows() int {
	return r.follows
}

// Len 返回对象数量
func (r *Renderer) Len() int {
	return len(r.objects)
}

// CellOf 世界坐标对应的终端格子
func (r *Renderer) CellOf(p mgl64.Vec3) (col, row int) {
	w, h := r.screen.Size()
	col = w/2 + int(math.Floor((p.X()-r.ground.X())/r.unitsPerCol))
	row = h/2 - int(math.Floor((p.Z()-r.ground.Z())/r.unitsPerRow))
	return col, row
}

// Draw 清屏并绘制所有对象（不调用 Show）
func (r *Renderer) Draw() {
	r.screen.Clear()

	ids := make([]ecs.EntityID, 0, len(r.objects))
	for id := range r.objects {
		ids = append(ids, id)
	}
	// 平台按创建顺序画，小人最后画
	sort.Slice(ids, func(i, j int) bool {
		ki, kj := r.objects[ids[i]].Kind, r.objects[ids[j]].Kind
		if ki != kj {
			return ki < kj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		obj := r.objects[id]
		t := r.transforms[id]
		switch obj.Kind {
		case game.ObjectPlatform:
			r.drawPlatform(obj, t)
		case game.ObjectPlayer:
			r.drawPlayer(obj, t)
		}
	}
}

func (r *Renderer) drawPlatform(obj game.Object, t game.Transform) {
	hw := obj.Size.X() / 2 * t.Scale.X()
	hd := obj.Size.Z() / 2 * t.Scale.Z()
	c0, rowBottom := r.CellOf(t.Position.Add(mgl64.Vec3{-hw, 0, -hd}))
	c1, rowTop := r.CellOf(t.Position.Add(mgl64.Vec3{hw, 0, hd}))
	if c1 == c0 {
		c1 = c0 + 1
	}
	if rowBottom == rowTop {
		rowBottom = rowTop + 1
	}

	ch := runePlatform
	switch {
	case t.Position.Y() > 0:
		ch = runeFalling
	case t.Scale.Y() < 1:
		ch = runeCompressed
	}
	style := tcell.StyleDefault.Foreground(toTcellColor(obj.Color))

	for row := rowTop; row < rowBottom; row++ {
		for col := c0; col < c1; col++ {
			r.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func (r *Renderer) drawPlayer(obj game.Object, t game.Transform) {
	col, row := r.CellOf(t.Position)
	ch := runePlayer
	if t.Rotation != (mgl64.Vec3{}) {
		ch = runeFlipping
	}
	style := tcell.StyleDefault.Foreground(toTcellColor(obj.Color)).Bold(true)
	r.screen.SetContent(col, row, ch, nil, style)
}

// DrawText 在第 row 行从第 col 列开始写一行文字
func (r *Renderer) DrawText(col, row int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		r.screen.SetContent(col+i, row, ch, nil, style)
	}
}

func toTcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
