package animatic

import (
	"sync"
	"time"
)

// AudioSource is the clock of the narration track. The player only reads
// its position; it seeks solely on restart.
type AudioSource interface {
	Play()
	Pause()
	Seek(position time.Duration)
	Position() time.Duration
	Duration() time.Duration
}

// WallClockAudio plays a track of known duration against the monotonic clock.
// It stands in for a browser audio element when playback runs server side.
type WallClockAudio struct {
	mu        sync.Mutex
	duration  time.Duration
	offset    time.Duration
	startedAt time.Time
	playing   bool
	now       func() time.Time
}

func NewWallClockAudio(duration time.Duration) *WallClockAudio {
	return &WallClockAudio{duration: duration, now: time.Now}
}

func (a *WallClockAudio) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.playing || a.positionLocked() >= a.duration {
		return
	}
	a.startedAt = a.now()
	a.playing = true
}

func (a *WallClockAudio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return
	}
	a.offset = a.positionLocked()
	a.playing = false
}

func (a *WallClockAudio) Seek(position time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if position < 0 {
		position = 0
	}
	if position > a.duration {
		position = a.duration
	}
	a.offset = position
	if a.playing {
		a.startedAt = a.now()
	}
}

func (a *WallClockAudio) Position() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positionLocked()
}

func (a *WallClockAudio) positionLocked() time.Duration {
	pos := a.offset
	if a.playing {
		pos += a.now().Sub(a.startedAt)
	}
	if pos > a.duration {
		return a.duration
	}
	return pos
}

func (a *WallClockAudio) Duration() time.Duration {
	return a.duration
}
