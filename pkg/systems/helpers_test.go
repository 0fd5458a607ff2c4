package systems

import (
	"math"
	"testing"
	"time"

	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/ecs"
	"github.com/gonewx/jump/pkg/entities"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
)

const (
	testFrame = 16 * time.Millisecond
	floatEps  = 1e-6
)

// testRig 平台链/镜头/跳跃系统的测试环境
type testRig struct {
	em        *ecs.EntityManager
	cfg       *config.GameConfig
	clock     *tween.ManualClock
	scheduler *tween.Scheduler
	renderer  *game.RecordingRenderer
	registry  *entities.PlatformFactoryRegistry
	chain     *PlatformChainSystem
}

func newTestRig(t *testing.T, seed int64) *testRig {
	t.Helper()

	cfg := config.NewGameConfig(375, 667)
	clock := tween.NewManualClock(time.Unix(1700000000, 0))
	scheduler := tween.NewScheduler(clock)
	prims := entities.NewPrimitives(seed)
	registry := entities.NewPlatformFactoryRegistry(prims)
	registry.RegisterDefaults()
	em := ecs.NewEntityManager()
	renderer := game.NewRecordingRenderer()

	return &testRig{
		em:        em,
		cfg:       cfg,
		clock:     clock,
		scheduler: scheduler,
		renderer:  renderer,
		registry:  registry,
		chain:     NewPlatformChainSystem(em, cfg, renderer, scheduler, prims),
	}
}

// appendPlatform 用注册表生成一个平台并追加到链尾
func (r *testRig) appendPlatform(t *testing.T) ecs.EntityID {
	t.Helper()
	fp, err := r.registry.Create(-1, r.chain.GeneratorOptions())
	if err != nil {
		t.Fatalf("registry.Create() error: %v", err)
	}
	return r.chain.Append(fp)
}

// advance 推进时钟并更新一帧
func (r *testRig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.scheduler.Update()
}

// runUntilIdle 逐帧推进直到没有活动补间，每帧后调用 check（可为 nil）
func (r *testRig) runUntilIdle(t *testing.T, check func()) {
	t.Helper()
	for i := 0; r.scheduler.Running(); i++ {
		if i > 10000 {
			t.Fatal("scheduler did not become idle")
		}
		r.advance(testFrame)
		if check != nil {
			check()
		}
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < floatEps
}
