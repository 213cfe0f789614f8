package audio

import (
	"math"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager manages all game audio. A manager that failed to initialise
// stays silent; every method is then a no-op.
type SoundManager struct {
	mu          sync.Mutex
	humCtrl     *beep.Ctrl
	humVolume   *effects.Volume
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the audio device and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return errors.Wrap(err, "init speaker")
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	glog.Infof("Audio initialised at %d Hz", sampleRate)
	return nil
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	if sm.humCtrl != nil {
		sm.humCtrl.Paused = true
	}
	sm.mixer.Clear()
	speaker.Unlock()
	sm.humCtrl, sm.humVolume = nil, nil
	sm.initialized = false
}

// StartDrain starts the drain hum if it is not already playing.
func (sm *SoundManager) StartDrain() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if sm.humCtrl != nil {
		sm.humCtrl.Paused = false
		return
	}
	sm.humVolume = newVolume(NewHumGenerator(sampleRate), 0.3)
	sm.humCtrl = &beep.Ctrl{Streamer: sm.humVolume}
	sm.mixer.Add(sm.humCtrl)
}

// SetDrainVolume sets the hum loudness in [0,1].
func (sm *SoundManager) SetDrainVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.humVolume == nil {
		return
	}
	speaker.Lock()
	setVolume(sm.humVolume, v)
	speaker.Unlock()
}

// StopDrain pauses the drain hum.
func (sm *SoundManager) StopDrain() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.humCtrl == nil {
		return
	}
	speaker.Lock()
	sm.humCtrl.Paused = true
	speaker.Unlock()
}

// PlayJump plays the jump blip.
func (sm *SoundManager) PlayJump() {
	sm.play(NewJumpSound(sampleRate))
}

// PlayVictory plays the completion chime.
func (sm *SoundManager) PlayVictory() {
	sm.play(NewVictorySound(sampleRate))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// newVolume wraps s in a volume effect at linear gain v.
func newVolume(s beep.Streamer, v float64) *effects.Volume {
	vol := &effects.Volume{Streamer: s, Base: 2}
	setVolume(vol, v)
	return vol
}

// setVolume maps a linear gain to the effect's log scale; 0 is silent.
func setVolume(vol *effects.Volume, v float64) {
	if v <= 0 {
		vol.Silent = true
		vol.Volume = 0
		return
	}
	vol.Silent = false
	vol.Volume = math.Log2(math.Min(v, 1))
}
