package animatic

import (
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudio struct {
	mu       sync.Mutex
	position time.Duration
	duration time.Duration
	playing  bool
	seeks    []time.Duration
}

func (f *fakeAudio) Play()  { f.mu.Lock(); f.playing = true; f.mu.Unlock() }
func (f *fakeAudio) Pause() { f.mu.Lock(); f.playing = false; f.mu.Unlock() }

func (f *fakeAudio) Seek(position time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = position
	f.seeks = append(f.seeks, position)
}

func (f *fakeAudio) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeAudio) Duration() time.Duration { return f.duration }

func (f *fakeAudio) set(position time.Duration) {
	f.mu.Lock()
	f.position = position
	f.mu.Unlock()
}

// manual keeps the background loop idle so tests drive Tick themselves.
var manual = Options{Interval: time.Hour, SlideDuration: 3000 * time.Millisecond}

func fixtureLines() []string {
	return []string{"abc", strings.Repeat("x", 50), ""}
}

func TestAudioDrivenPlayback(t *testing.T) {
	audio := &fakeAudio{duration: 9 * time.Second}
	p := NewPlayer(fixtureLines(), audio, manual)
	defer p.Close()

	require.NoError(t, p.Play())
	assert.True(t, audio.playing)

	audio.set(4500 * time.Millisecond)
	assert.True(t, p.Tick())
	s := p.State()
	assert.Equal(t, ModeAudio, s.Mode)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
	assert.Equal(t, 1, s.Index)

	audio.set(9 * time.Second)
	assert.False(t, p.Tick())
	s = p.State()
	assert.False(t, s.Playing)
	assert.Equal(t, 1.0, s.Progress)
	assert.Equal(t, 2, s.Index)
	assert.False(t, audio.playing)

	// no wrap without an explicit action
	assert.False(t, p.Tick())
	assert.Equal(t, 2, p.State().Index)
}

func TestPlayAfterCompletionRestarts(t *testing.T) {
	audio := &fakeAudio{duration: time.Second}
	p := NewPlayer(fixtureLines(), audio, manual)
	defer p.Close()

	require.NoError(t, p.Play())
	audio.set(time.Second)
	p.Tick()
	require.Equal(t, 1.0, p.State().Progress)

	require.NoError(t, p.Play())
	s := p.State()
	assert.True(t, s.Playing)
	assert.Equal(t, 0.0, s.Progress)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, []time.Duration{0}, audio.seeks)
}

func TestTimerDrivenPlayback(t *testing.T) {
	p := NewPlayer([]string{"a", "b", "c"}, nil, Options{Interval: time.Hour, SlideDuration: 3 * time.Hour})
	defer p.Close()

	require.NoError(t, p.Play())
	// each tick adds interval/(slide*n) = 1/9
	for i := 0; i < 4; i++ {
		require.True(t, p.Tick())
	}
	s := p.State()
	assert.Equal(t, ModeTimer, s.Mode)
	assert.InDelta(t, 4.0/9.0, s.Progress, 1e-9)
	assert.Equal(t, 1, s.Index)

	for p.Tick() {
	}
	s = p.State()
	assert.False(t, s.Playing)
	assert.Equal(t, 1.0, s.Progress)
	assert.Equal(t, 2, s.Index)

	require.NoError(t, p.Play())
	assert.Equal(t, 0.0, p.State().Progress)
}

func TestTimerModeIgnoresWeights(t *testing.T) {
	p := NewPlayer(fixtureLines(), nil, Options{Interval: time.Hour, SlideDuration: 2 * time.Hour})
	defer p.Close()
	require.NoError(t, p.Play())
	// 1/6 per tick; at 0.5 equal division gives index 1, at 5/6 index 2
	p.Tick()
	p.Tick()
	p.Tick()
	assert.Equal(t, 1, p.State().Index)
	p.Tick()
	p.Tick()
	assert.Equal(t, 2, p.State().Index)
	assert.Empty(t, p.State().Ranges)
}

func TestPlayPauseIdempotent(t *testing.T) {
	audio := &fakeAudio{duration: time.Second}
	p := NewPlayer(fixtureLines(), audio, manual)
	defer p.Close()

	p.Pause()
	assert.False(t, p.State().Playing)
	require.NoError(t, p.Play())
	require.NoError(t, p.Play())
	assert.True(t, p.State().Playing)
	p.Pause()
	p.Pause()
	assert.False(t, p.State().Playing)

	require.NoError(t, p.Toggle())
	assert.True(t, p.State().Playing)
	require.NoError(t, p.Toggle())
	assert.False(t, p.State().Playing)
}

func TestRestartKeepsPlayState(t *testing.T) {
	audio := &fakeAudio{duration: 10 * time.Second}
	p := NewPlayer(fixtureLines(), audio, manual)
	defer p.Close()
	require.NoError(t, p.Play())
	audio.set(8 * time.Second)
	p.Tick()

	p.Restart()
	s := p.State()
	assert.True(t, s.Playing)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, time.Duration(0), audio.Position())
}

func TestEmptyPlayer(t *testing.T) {
	p := NewPlayer(nil, nil, manual)
	defer p.Close()
	assert.ErrorIs(t, p.Play(), ErrNothingToPlay)
}

func TestCloseStopsLoop(t *testing.T) {
	before := runtime.NumGoroutine()
	p := NewPlayer([]string{"a", "b"}, nil, Options{Interval: time.Millisecond, SlideDuration: time.Hour})
	states, _ := p.Subscribe(16)
	require.NoError(t, p.Play())

	select {
	case <-states:
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
	p.Close()
	p.Close()

	assert.False(t, p.State().Playing)
	assert.ErrorIs(t, p.Play(), ErrPlayerClosed)
	for range states {
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
}

func TestWallClockAudio(t *testing.T) {
	now := time.Unix(0, 0)
	a := NewWallClockAudio(10 * time.Second)
	a.now = func() time.Time { return now }

	a.Play()
	now = now.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, a.Position())

	a.Pause()
	now = now.Add(time.Hour)
	assert.Equal(t, 3*time.Second, a.Position())

	a.Play()
	now = now.Add(20 * time.Second)
	assert.Equal(t, 10*time.Second, a.Position())

	a.Seek(0)
	assert.Equal(t, time.Duration(0), a.Position())
	now = now.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, a.Position())
}
