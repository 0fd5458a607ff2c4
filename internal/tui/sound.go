package tui

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	launchToneHz  = 440
	landingToneHz = 880
	toneDuration  = 60 * time.Millisecond
)

// Sound 起跳/落地提示音
//
// 扬声器初始化失败不是致命错误，之后所有播放调用都会被忽略。
// nil *Sound 也可以安全调用。
type Sound struct {
	ready bool
}

// NewSound 初始化扬声器
func NewSound() *Sound {
	s := &Sound{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Sound] Audio initialization failed: %v", err)
		return s
	}
	s.ready = true
	return s
}

// Ready 扬声器是否可用
func (s *Sound) Ready() bool {
	return s != nil && s.ready
}

// PlayLaunch 起跳音
func (s *Sound) PlayLaunch() {
	s.playTone(launchToneHz)
}

// PlayLanding 落地音
func (s *Sound) PlayLanding() {
	s.playTone(landingToneHz)
}

func (s *Sound) playTone(freq int) {
	if !s.Ready() {
		return
	}
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		log.Printf("[Sound] Failed to create tone: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(toneDuration), sine))
}

// Close 关闭扬声器
func (s *Sound) Close() {
	if s.Ready() {
		speaker.Close()
		s.ready = false
	}
}
