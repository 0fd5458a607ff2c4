package scenes

import (
	"testing"
	"time"

	"github.com/gonewx/jump/pkg/components"
	"github.com/gonewx/jump/pkg/config"
	"github.com/gonewx/jump/pkg/game"
	"github.com/gonewx/jump/pkg/tween"
	"github.com/gonewx/jump/pkg/utils"
)

const sceneFrame = 16 * time.Millisecond

func newTestScene(t *testing.T, records *game.RecordManager) (*JumpScene, *tween.ManualClock) {
	t.Helper()
	cfg := config.NewGameConfig(375, 667)
	cfg.Seed = 7
	clock := tween.NewManualClock(time.Unix(0, 0))

	s, err := NewJumpScene(cfg, nil, records, clock)
	if err != nil {
		t.Fatalf("NewJumpScene() error = %v", err)
	}
	return s, clock
}

func tickFor(s *JumpScene, clock *tween.ManualClock, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += sceneFrame {
		clock.Advance(sceneFrame)
		s.Tick()
	}
}

func TestNewJumpSceneNilConfig(t *testing.T) {
	if _, err := NewJumpScene(nil, nil, nil, nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestJumpSceneStart(t *testing.T) {
	s, clock := newTestScene(t, nil)

	if s.Renderer().Scheduler() != s.World().Scheduler() {
		t.Error("camera follow and game tweens should share one scheduler")
	}

	// 两个平台 + 小人
	if got := s.Renderer().Len(); got != 3 {
		t.Errorf("renderer objects = %d, want 3", got)
	}
	if s.World().Player().State != components.PlayerEntering {
		t.Errorf("player state = %v, want Entering", s.World().Player().State)
	}

	tickFor(s, clock, 500*time.Millisecond)
	if s.World().Player().State != components.PlayerIdle {
		t.Errorf("player state after entrance = %v, want Idle", s.World().Player().State)
	}
}

func TestJumpSceneJumpCycle(t *testing.T) {
	records := game.NewRecordManager(nil)
	s, clock := newTestScene(t, records)
	tickFor(s, clock, 500*time.Millisecond)

	s.HandlePress(utils.PressStarted)
	if s.World().Player().State != components.PlayerCharging {
		t.Fatalf("player state = %v, want Charging", s.World().Player().State)
	}
	tickFor(s, clock, 300*time.Millisecond)

	s.HandlePress(utils.PressHeld)
	if s.World().Player().State != components.PlayerCharging {
		t.Fatalf("holding must keep charging, got %v", s.World().Player().State)
	}

	s.HandlePress(utils.PressEnded)
	if s.World().Player().State != components.PlayerAirborne {
		t.Fatalf("player state = %v, want Airborne", s.World().Player().State)
	}

	// 飞行 400ms + 落地缓冲 100ms，随后镜头跟随 500ms
	for i := 0; s.World().Score() == 0; i++ {
		if i > 100 {
			t.Fatal("player did not land")
		}
		tickFor(s, clock, sceneFrame)
	}
	if !s.Renderer().Following() || !s.World().Animating() {
		t.Fatal("camera follow should run on the world scheduler right after landing")
	}

	tickFor(s, clock, time.Second)
	if s.World().Score() != 1 {
		t.Fatalf("score = %d, want 1", s.World().Score())
	}
	if s.Renderer().Following() || s.World().Animating() {
		t.Error("camera follow should have finished by ticking the world alone")
	}
	if got := s.Renderer().Len(); got != 4 {
		t.Errorf("renderer objects = %d, want 4", got)
	}
	if !s.newBest {
		t.Error("first landing should beat an empty record")
	}

	if !s.SaveOnExit() {
		t.Fatal("SaveOnExit() = false")
	}
	s.SaveOnExit()

	rec := records.Record()
	if rec.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d, want 1 (submitted once)", rec.GamesPlayed)
	}
	if rec.BestScore != 1 || rec.LastSessionID != s.World().SessionID() {
		t.Errorf("record = %+v", rec)
	}
}

func TestJumpSceneSaveWithoutRecords(t *testing.T) {
	s, _ := newTestScene(t, nil)
	if !s.SaveOnExit() {
		t.Error("SaveOnExit() without records should succeed")
	}
}
