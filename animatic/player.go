package animatic

import (
	"errors"
	"sync"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
)

var (
	ErrNothingToPlay = errors.New("no renderable shots")
	ErrPlayerClosed  = errors.New("player closed")
)

type Mode string

const (
	ModeAudio Mode = "audio"
	ModeTimer Mode = "timer"
)

type State struct {
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
	Playing  bool    `json:"playing"`
	Mode     Mode    `json:"mode"`
	Shots    int     `json:"shots"`
	Ranges   []Range `json:"ranges,omitempty"`
}

type Options struct {
	// Interval between play-head samples.
	Interval time.Duration
	// SlideDuration is the per-shot time in timer mode.
	SlideDuration time.Duration
}

// Player drives the play-head over the renderable shots. With an AudioSource
// the audio position is the only clock; without one progress advances by a
// fixed step per tick.
type Player struct {
	mu       sync.Mutex
	lines    []string
	ranges   []Range
	audio    AudioSource
	interval time.Duration
	slide    time.Duration

	index    int
	progress float64
	playing  bool
	closed   bool

	stop chan struct{}
	wg   sync.WaitGroup

	subMu       sync.Mutex
	subscribers map[chan State]struct{}
}

func NewPlayer(lines []string, audio AudioSource, opts Options) *Player {
	if opts.Interval <= 0 {
		opts.Interval = config.AnimaticTickInterval
	}
	if opts.SlideDuration <= 0 {
		opts.SlideDuration = config.AnimaticSlideDuration
	}
	p := &Player{
		lines:       append([]string(nil), lines...),
		audio:       audio,
		interval:    opts.Interval,
		slide:       opts.SlideDuration,
		subscribers: make(map[chan State]struct{}),
	}
	if audio != nil {
		p.ranges = Partition(p.lines)
	}
	return p
}

func (p *Player) mode() Mode {
	if p.audio != nil {
		return ModeAudio
	}
	return ModeTimer
}

func (p *Player) stateLocked() State {
	return State{
		Index:    p.index,
		Progress: p.progress,
		Playing:  p.playing,
		Mode:     p.mode(),
		Shots:    len(p.lines),
		Ranges:   p.ranges,
	}
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Play resumes playback; after completion it starts over from the first shot.
// Calling Play while playing is a no-op.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	if len(p.lines) == 0 {
		p.mu.Unlock()
		return ErrNothingToPlay
	}
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	if p.progress >= 1 {
		p.resetLocked()
	}
	if p.audio != nil {
		p.audio.Play()
	}
	p.playing = true
	p.stop = make(chan struct{})
	p.wg.Add(1)
	go p.loop(p.stop)
	s := p.stateLocked()
	p.mu.Unlock()
	p.publish(s)
	return nil
}

// Pause is a no-op when already paused.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.pauseLocked()
	s := p.stateLocked()
	p.mu.Unlock()
	p.publish(s)
}

func (p *Player) Toggle() error {
	p.mu.Lock()
	playing := p.playing
	p.mu.Unlock()
	if playing {
		p.Pause()
		return nil
	}
	return p.Play()
}

// Restart rewinds to the first shot without changing the play state.
func (p *Player) Restart() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.resetLocked()
	s := p.stateLocked()
	p.mu.Unlock()
	p.publish(s)
}

// Close stops the sampling loop and detaches the audio source. No goroutine
// started by the player survives it.
func (p *Player) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.playing {
		p.pauseLocked()
	}
	p.closed = true
	p.audio = nil
	p.mu.Unlock()
	p.wg.Wait()

	p.subMu.Lock()
	for ch := range p.subscribers {
		close(ch)
	}
	p.subscribers = map[chan State]struct{}{}
	p.subMu.Unlock()
}

func (p *Player) resetLocked() {
	p.progress = 0
	p.index = 0
	if p.audio != nil {
		p.audio.Seek(0)
	}
}

func (p *Player) pauseLocked() {
	p.playing = false
	if p.audio != nil {
		p.audio.Pause()
	}
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *Player) loop(stop <-chan struct{}) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.tick(stop) {
				return
			}
		}
	}
}

// Tick samples the clock once and reports whether playback continues.
func (p *Player) Tick() bool {
	return p.tick(nil)
}

// tick from a loop is ignored once that loop's stop channel is retired.
func (p *Player) tick(stop <-chan struct{}) bool {
	p.mu.Lock()
	if !p.playing || p.closed || (stop != nil && stop != (<-chan struct{})(p.stop)) {
		p.mu.Unlock()
		return false
	}
	n := len(p.lines)
	if p.audio != nil {
		duration := p.audio.Duration()
		position := p.audio.Position()
		if duration <= 0 || position >= duration {
			p.finishLocked()
		} else {
			p.progress = float64(position) / float64(duration)
			index, ok := ActiveIndex(p.ranges, p.progress)
			p.index = index
			if !ok {
				p.finishLocked()
			}
		}
	} else {
		p.progress += float64(p.interval) / (float64(p.slide) * float64(n))
		if p.progress >= 1 {
			p.finishLocked()
		} else {
			p.index = EqualIndex(n, p.progress)
		}
	}
	playing := p.playing
	s := p.stateLocked()
	p.mu.Unlock()
	p.publish(s)
	return playing
}

// finishLocked parks the play-head on the final shot, paused.
func (p *Player) finishLocked() {
	p.progress = 1
	p.index = len(p.lines) - 1
	p.pauseLocked()
}

// Subscribe returns a channel of state changes. Slow readers miss samples.
func (p *Player) Subscribe(buffer int) (<-chan State, func()) {
	ch := make(chan State, buffer)
	p.subMu.Lock()
	p.subscribers[ch] = struct{}{}
	p.subMu.Unlock()
	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
	}
}

func (p *Player) publish(s State) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for ch := range p.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}
