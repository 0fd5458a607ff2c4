package scenes

import (
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// cylinderSegments 圆柱平台侧面分段数
	cylinderSegments = 20
	// ambientShade 背光面的最低亮度
	ambientShade = 0.55
)

// BackgroundColor 场景背景色
var BackgroundColor = color.RGBA{R: 0xD6, G: 0xDB, B: 0xDF, A: 0xFF}

// EbitenRenderer 用 ebiten 绘制平台和小人的渲染器
//
// 核心逻辑通过 game.Renderer 推送快照；镜头跟随的平滑移动由渲染器自己的
// 补间调度器完成，所以 Update 必须每帧调用。
type EbitenRenderer struct {
	width  float64
	height float64

	objects    map[ecs.EntityID]game.Object
	transforms map[ecs.EntityID]game.Transform

	camera mgl64.Vec3
	light  mgl64.Vec3
	ground mgl64.Vec3

	scheduler  *tween.Scheduler
	follow     *tween.Tween
	followTo   [3]mgl64.Vec3
	followDone func()

	frames int
	white  *ebiten.Image
}

// NewEbitenRenderer 创建渲染器
//
// 镜头补间放进 scheduler，通常传入 World 使用的同一个调度器，由 World.Update 统一驱动；
// scheduler 为 nil 时使用系统时钟新建一个。
func NewEbitenRenderer(width, height float64, scheduler *tween.Scheduler) *EbitenRenderer {
	if scheduler == nil {
		scheduler = tween.NewScheduler(nil)
	}
	return &EbitenRenderer{
		width:      width,
		height:     height,
		objects:    make(map[ecs.EntityID]game.Object),
		transforms: make(map[ecs.EntityID]game.Transform),
		camera:     mgl64.Vec3{-1, 1, -1},
		scheduler:  scheduler,
	}
}

// AddObject 注册对象
func (r *EbitenRenderer) AddObject(obj game.Object) {
	r.objects[obj.ID] = obj
	if _, ok := r.transforms[obj.ID]; !ok {
		r.transforms[obj.ID] = game.Transform{Scale: mgl64.Vec3{1, 1, 1}}
	}
}

// RemoveObject 移除对象
func (r *EbitenRenderer) RemoveObject(id ecs.EntityID) {
	delete(r.objects, id)
	delete(r.transforms, id)
}

// UpdateTransform 更新对象快照
func (r *EbitenRenderer) UpdateTransform(id ecs.EntityID, t game.Transform) {
	r.transforms[id] = t
}

// RenderFrame 标记一帧逻辑更新完成，实际绘制在 Draw 里进行
func (r *EbitenRenderer) RenderFrame() {
	r.frames++
}

// MoveFollowTarget 平滑移动相机、光源和场景中心
//
// 新的移动会让尚未完成的上一次移动立即到位并触发其完成回调，
// 保证每次请求的回调都恰好执行一次。
func (r *EbitenRenderer) MoveFollowTarget(camera, light, ground mgl64.Vec3, duration time.Duration, onComplete func()) {
	r.finishFollow()

	if duration <= 0 {
		r.camera, r.light, r.ground = camera, light, ground
		if onComplete != nil {
			onComplete()
		}
		return
	}

	from := tween.Values{}
	to := tween.Values{}
	putVec(from, "camera", r.camera)
	putVec(from, "light", r.light)
	putVec(from, "ground", r.ground)
	putVec(to, "camera", camera)
	putVec(to, "light", light)
	putVec(to, "ground", ground)

	r.followTo = [3]mgl64.Vec3{camera, light, ground}
	r.followDone = onComplete
	r.follow = r.scheduler.New(from, to, duration).
		OnUpdate(func(v tween.Values) {
			r.camera = getVec(v, "camera")
			r.light = getVec(v, "light")
			r.ground = getVec(v, "ground")
		}).
		OnComplete(r.completeFollow).
		Start()
}

// finishFollow 让进行中的跟随立即到位
func (r *EbitenRenderer) finishFollow() {
	if r.follow == nil {
		return
	}
	r.follow.Stop()
	r.camera, r.light, r.ground = r.followTo[0], r.followTo[1], r.followTo[2]
	r.completeFollow()
}

func (r *EbitenRenderer) completeFollow() {
	done := r.followDone
	r.follow = nil
	r.followDone = nil
	if done != nil {
		done()
	}
}

// Scheduler 返回驱动镜头补间的调度器
func (r *EbitenRenderer) Scheduler() *tween.Scheduler {
	return r.scheduler
}

// Following 镜头是否正在移动
func (r *EbitenRenderer) Following() bool {
	return r.follow != nil
}

// Frames 返回 RenderFrame 被调用的次数
func (r *EbitenRenderer) Frames() int {
	return r.frames
}

// Camera 返回当前相机、光源和场景中心
func (r *EbitenRenderer) Camera() (camera, light, ground mgl64.Vec3) {
	return r.camera, r.light, r.ground
}

// Len 返回已注册对象数量
func (r *EbitenRenderer) Len() int {
	return len(r.objects)
}

// View 返回当前镜头的投影
func (r *EbitenRenderer) View() OrthoView {
	return NewOrthoView(r.camera, r.ground, r.width, r.height)
}

// DrawOrder 按从远到近返回对象ID；深度相同时平台先于小人
func (r *EbitenRenderer) DrawOrder(view OrthoView) []ecs.EntityID {
	type item struct {
		id    ecs.EntityID
		depth float64
		kind  game.ObjectKind
	}
	items := make([]item, 0, len(r.objects))
	for id, obj := range r.objects {
		_, _, depth := view.Project(r.transforms[id].Position)
		items = append(items, item{id: id, depth: depth, kind: obj.Kind})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].depth != items[j].depth {
			return items[i].depth > items[j].depth
		}
		if items[i].kind != items[j].kind {
			return items[i].kind < items[j].kind
		}
		return items[i].id < items[j].id
	})

	ids := make([]ecs.EntityID, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}

// Draw 绘制全部对象
func (r *EbitenRenderer) Draw(screen *ebiten.Image) {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	screen.Fill(BackgroundColor)

	view := r.View()
	lightDir := r.light.Sub(r.ground)
	if lightDir.Len() > 0 {
		lightDir = lightDir.Normalize()
	}

	for _, id := range r.DrawOrder(view) {
		obj := r.objects[id]
		t := r.transforms[id]
		switch obj.Kind {
		case game.ObjectPlatform:
			r.drawPlatform(screen, view, lightDir, obj, t)
		case game.ObjectPlayer:
			r.drawPlayer(screen, view, obj, t)
		}
	}
}

// drawPlatform 把平台画成直棱柱：先画朝向相机的侧面，再画顶面
func (r *EbitenRenderer) drawPlatform(screen *ebiten.Image, view OrthoView, lightDir mgl64.Vec3, obj game.Object, t game.Transform) {
	base := PlatformBase(obj, t.Scale)
	bottom := t.Position.Y()
	top := bottom + obj.Size.Y()*t.Scale.Y()
	cx, cz := t.Position.X(), t.Position.Z()

	n := len(base)
	for i := 0; i < n; i++ {
		a, b := base[i], base[(i+1)%n]
		normal := mgl64.Vec3{b[1] - a[1], 0, -(b[0] - a[0])}
		if normal.Len() == 0 || !view.Facing(normal) {
			continue
		}
		normal = normal.Normalize()

		quad := []mgl64.Vec3{
			{cx + a[0], bottom, cz + a[1]},
			{cx + b[0], bottom, cz + b[1]},
			{cx + b[0], top, cz + b[1]},
			{cx + a[0], top, cz + a[1]},
		}
		r.fillPolygon(screen, view, quad, shade(obj.Color, normal, lightDir))
	}

	lid := make([]mgl64.Vec3, n)
	for i, p := range base {
		lid[i] = mgl64.Vec3{cx + p[0], top, cz + p[1]}
	}
	r.fillPolygon(screen, view, lid, shade(obj.Color, worldUp, lightDir))
}

// drawPlayer 小人：身体画成粗线，头画成圆，空翻时绕身体中点旋转
func (r *EbitenRenderer) drawPlayer(screen *ebiten.Image, view OrthoView, obj game.Object, t game.Transform) {
	headR := obj.Size.X() / 2.4
	bodyH := (obj.Size.Y() - headR) * t.Scale.Y()
	bodyW := headR * 2 * t.Scale.X()

	feet := t.Position
	pivot := feet.Add(mgl64.Vec3{0, bodyH / 2, 0})
	rot := mgl64.Rotate3DX(t.Rotation.X()).Mul3(mgl64.Rotate3DZ(t.Rotation.Z()))
	place := func(p mgl64.Vec3) (float32, float32) {
		x, y, _ := view.Project(pivot.Add(rot.Mul3x1(p.Sub(pivot))))
		return float32(x), float32(y)
	}

	x0, y0 := place(feet)
	x1, y1 := place(feet.Add(mgl64.Vec3{0, bodyH, 0}))
	hx, hy := place(feet.Add(mgl64.Vec3{0, t.HeadOffset + headR, 0}))

	body := obj.Color
	vector.StrokeLine(screen, x0, y0, x1, y1, float32(bodyW), body, true)
	vector.DrawFilledCircle(screen, x0, y0, float32(bodyW/2), body, true)
	vector.DrawFilledCircle(screen, x1, y1, float32(bodyW/2), body, true)
	vector.DrawFilledCircle(screen, hx, hy, float32(headR), color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}, true)
}

// fillPolygon 以扇形三角化填充凸多边形
func (r *EbitenRenderer) fillPolygon(screen *ebiten.Image, view OrthoView, pts []mgl64.Vec3, clr color.RGBA) {
	if len(pts) < 3 {
		return
	}
	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(clr.A) / 255

	vertices := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		x, y, _ := view.Project(p)
		vertices[i] = ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	indices := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i < len(pts)-1; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.FillRule = ebiten.FillAll
	screen.DrawTriangles(vertices, indices, r.white, op)
}

// PlatformBase 平台底面轮廓（相对平台中心的 X/Z 坐标），逆时针
// "cylinder" 画成椭圆，其余形状画成矩形
func PlatformBase(obj game.Object, scale mgl64.Vec3) [][2]float64 {
	hw := obj.Size.X() / 2 * scale.X()
	hd := obj.Size.Z() / 2 * scale.Z()

	if obj.Shape == "cylinder" {
		pts := make([][2]float64, cylinderSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / cylinderSegments
			pts[i] = [2]float64{math.Cos(a) * hw, math.Sin(a) * hd}
		}
		return pts
	}

	return [][2]float64{{-hw, -hd}, {hw, -hd}, {hw, hd}, {-hw, hd}}
}

// shade 按面法线与光线方向的夹角调整颜色亮度
func shade(c color.RGBA, normal, lightDir mgl64.Vec3) color.RGBA {
	f := ambientShade + (1-ambientShade)*math.Max(0, normal.Dot(lightDir))
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
		A: c.A,
	}
}

func putVec(v tween.Values, prefix string, p mgl64.Vec3) {
	v[prefix+".x"] = p.X()
	v[prefix+".y"] = p.Y()
	v[prefix+".z"] = p.Z()
}

func getVec(v tween.Values, prefix string) mgl64.Vec3 {
	return mgl64.Vec3{v[prefix+".x"], v[prefix+".y"], v[prefix+".z"]}
}
