package model

import (
	"errors"
	"sync"
	"time"

	"github.com/jinzhu/copier"
)

var (
	ErrStaleRun          = errors.New("campaign run is no longer active")
	ErrShotNotFound      = errors.New("shot not found")
	ErrShotNotRenderable = errors.New("shot has no rendered image")
	ErrVideoBusy         = errors.New("another video is being generated")
	ErrOutOfOrder        = errors.New("shot status written out of order")
)

type FileData struct {
	Data     string `json:"data" validate:"required,base64"`
	MimeType string `json:"mime_type" validate:"required"`
}

type CampaignBrief struct {
	Topic            string      `json:"topic"`
	Style            string      `json:"style" validate:"required"`
	Language         string      `json:"language"`
	Tone             string      `json:"tone"`
	ProductImage     *FileData   `json:"product_image,omitempty"`
	ModelImage       *FileData   `json:"model_image,omitempty"`
	BackgroundImage  *FileData   `json:"background_image,omitempty"`
	OutfitImages     []*FileData `json:"outfit_images,omitempty" validate:"max=6,dive"`
	LocationImages   []*FileData `json:"location_images,omitempty" validate:"max=6,dive"`
	ModelPrompt      string      `json:"model_prompt"`
	BackgroundPrompt string      `json:"background_prompt"`
	AudioType        string      `json:"audio_type"`
	HighQuality      bool        `json:"high_quality"`
}

type Metadata struct {
	Title         string `json:"title"`
	Hashtags      string `json:"hashtags"`
	ScriptOutline string `json:"script_outline"`
}

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhasePlanning     Phase = "planning"
	PhaseRendering    Phase = "rendering"
	PhaseDone         Phase = "done"
	PhaseError        Phase = "error"
	PhaseAuthRequired Phase = "auth_required"
)

type NarrationAsset struct {
	WAV        []byte
	SampleRate int
	Channels   int
	Duration   time.Duration
	Voice      string
	CreatedAt  int64
}

type VideoState struct {
	Active bool   `json:"active"`
	Run    uint64 `json:"run,omitempty"`
	Index  int    `json:"index"`
	Status string `json:"status"`
}

// Campaign is a read-only copy of the store handed out to callers.
type Campaign struct {
	Run                uint64         `json:"run"`
	Phase              Phase          `json:"phase"`
	Progress           string         `json:"progress"`
	Brief              *CampaignBrief `json:"brief,omitempty"`
	Metadata           Metadata       `json:"metadata"`
	ConsistencyProfile string         `json:"consistency_profile"`
	Script             string         `json:"script"`
	Shots              []Shot         `json:"shots"`
	Error              string         `json:"error,omitempty"`
	HasNarration       bool           `json:"has_narration"`
	NarrationDuration  float64        `json:"narration_duration"`
	Video              VideoState     `json:"video"`
}

type EventType string

const (
	EventPhase     EventType = "phase"
	EventShot      EventType = "shot"
	EventScript    EventType = "script"
	EventError     EventType = "error"
	EventNarration EventType = "narration"
	EventVideo     EventType = "video"
	EventDiscard   EventType = "discard"
)

type Event struct {
	Type     EventType `json:"type"`
	Run      uint64    `json:"run"`
	Phase    Phase     `json:"phase,omitempty"`
	Index    int       `json:"index,omitempty"`
	Message  string    `json:"message,omitempty"`
	Progress string    `json:"progress,omitempty"`
}

// CampaignStore holds the single in-memory campaign. Every write coming from
// asynchronous work carries the run generation it was started under and is
// dropped with ErrStaleRun once that generation is no longer current.
type CampaignStore struct {
	mu sync.RWMutex

	gen       uint64
	phase     Phase
	progress  string
	brief     *CampaignBrief
	metadata  Metadata
	profile   string
	script    string
	shots     []Shot
	lastShot  int
	errMsg    string
	narration *NarrationAsset
	video     VideoState

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewCampaignStore() *CampaignStore {
	return &CampaignStore{
		phase:       PhaseIdle,
		lastShot:    -1,
		subscribers: make(map[chan Event]struct{}),
	}
}

// BeginRun starts a fresh generation pass and returns its generation.
// Previous shots, metadata and narration are cleared; the script is kept
// until a new plan replaces it.
func (s *CampaignStore) BeginRun(brief *CampaignBrief) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.phase = PhasePlanning
	s.progress = ""
	s.shots = nil
	s.lastShot = -1
	s.metadata = Metadata{}
	s.profile = ""
	s.errMsg = ""
	s.narration = nil
	s.brief = nil
	if brief != nil {
		b := &CampaignBrief{}
		if err := copier.CopyWithOption(b, brief, copier.Option{DeepCopy: true}); err == nil {
			s.brief = b
		}
	}
	s.mu.Unlock()
	s.publish(Event{Type: EventPhase, Run: gen, Phase: PhasePlanning})
	return gen
}

func (s *CampaignStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *CampaignStore) IsActive(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gen == s.gen
}

// ApplyPlan installs the planned shots (all loading), metadata and script in
// one step.
func (s *CampaignStore) ApplyPlan(gen uint64, metadata Metadata, profile string, script string, shots []Shot) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	s.shots = make([]Shot, len(shots))
	for i, shot := range shots {
		shot = shot.clone()
		shot.Number = i + 1
		shot.Render = RenderLoading{}
		s.shots[i] = shot
	}
	s.lastShot = -1
	s.metadata = metadata
	s.profile = profile
	s.script = script
	s.phase = PhaseRendering
	s.mu.Unlock()
	s.publish(Event{Type: EventPhase, Run: gen, Phase: PhaseRendering})
	s.publish(Event{Type: EventScript, Run: gen})
	return nil
}

func (s *CampaignStore) SetPhase(gen uint64, phase Phase, progress string) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	s.phase = phase
	s.progress = progress
	s.mu.Unlock()
	s.publish(Event{Type: EventPhase, Run: gen, Phase: phase, Progress: progress})
	return nil
}

// SetShotRender settles a loading shot. Indices must be written in
// increasing order within a run.
func (s *CampaignStore) SetShotRender(gen uint64, index int, render Render) error {
	if render == nil || render.Status() == RenderStatusLoading {
		return errors.New("shot render must be settled")
	}
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	if index < 0 || index >= len(s.shots) {
		s.mu.Unlock()
		return ErrShotNotFound
	}
	if index <= s.lastShot {
		s.mu.Unlock()
		return ErrOutOfOrder
	}
	s.shots[index].Render = render
	s.lastShot = index
	s.mu.Unlock()
	s.publish(Event{Type: EventShot, Run: gen, Index: index})
	return nil
}

// AttachVideo sets the video reference of a rendered shot.
func (s *CampaignStore) AttachVideo(gen uint64, index int, videoURL string) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	if index < 0 || index >= len(s.shots) {
		s.mu.Unlock()
		return ErrShotNotFound
	}
	r, ok := s.shots[index].Render.(RenderSuccess)
	if !ok {
		s.mu.Unlock()
		return ErrShotNotRenderable
	}
	r.Video = videoURL
	s.shots[index].Render = r
	s.mu.Unlock()
	s.publish(Event{Type: EventShot, Run: gen, Index: index})
	return nil
}

// SetError replaces the banner error. Only one banner exists at a time.
func (s *CampaignStore) SetError(gen uint64, message string) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	s.errMsg = message
	s.mu.Unlock()
	s.publish(Event{Type: EventError, Run: gen, Message: message})
	return nil
}

func (s *CampaignStore) DismissError() {
	s.mu.Lock()
	s.errMsg = ""
	gen := s.gen
	s.mu.Unlock()
	s.publish(Event{Type: EventError, Run: gen})
}

// UpdateScript is the user edit path; last writer wins.
func (s *CampaignStore) UpdateScript(script string) {
	s.mu.Lock()
	s.script = script
	gen := s.gen
	s.mu.Unlock()
	s.publish(Event{Type: EventScript, Run: gen})
}

func (s *CampaignStore) Script() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.script
}

func (s *CampaignStore) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

func (s *CampaignStore) SetNarration(gen uint64, asset *NarrationAsset) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrStaleRun
	}
	s.narration = asset
	s.mu.Unlock()
	s.publish(Event{Type: EventNarration, Run: gen})
	return nil
}

func (s *CampaignStore) Narration() *NarrationAsset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.narration
}

// BeginVideo reserves the single video slot for index and returns the run
// generation the slot belongs to.
func (s *CampaignStore) BeginVideo(index int, status string) (uint64, error) {
	s.mu.Lock()
	if s.video.Active {
		s.mu.Unlock()
		return 0, ErrVideoBusy
	}
	if index < 0 || index >= len(s.shots) {
		s.mu.Unlock()
		return 0, ErrShotNotFound
	}
	if !s.shots[index].Renderable() {
		s.mu.Unlock()
		return 0, ErrShotNotRenderable
	}
	gen := s.gen
	s.video = VideoState{Active: true, Run: gen, Index: index, Status: status}
	s.mu.Unlock()
	s.publish(Event{Type: EventVideo, Run: gen, Index: index, Message: status})
	return gen, nil
}

// ownsVideo reports whether the slot is held by the job reserved under gen for index.
func (s *CampaignStore) ownsVideo(gen uint64, index int) bool {
	return s.video.Active && s.video.Run == gen && s.video.Index == index
}

func (s *CampaignStore) SetVideoStatus(gen uint64, index int, status string) {
	s.mu.Lock()
	if !s.ownsVideo(gen, index) {
		s.mu.Unlock()
		return
	}
	s.video.Status = status
	s.mu.Unlock()
	s.publish(Event{Type: EventVideo, Run: gen, Index: index, Message: status})
}

// EndVideo releases the slot. A job from a discarded run leaves the slot alone.
func (s *CampaignStore) EndVideo(gen uint64, index int) {
	s.mu.Lock()
	if !s.ownsVideo(gen, index) {
		s.mu.Unlock()
		return
	}
	s.video = VideoState{}
	s.mu.Unlock()
	s.publish(Event{Type: EventVideo, Run: gen, Index: index})
}

// Discard clears the campaign and orphans any in-flight work.
func (s *CampaignStore) Discard() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.phase = PhaseIdle
	s.progress = ""
	s.brief = nil
	s.metadata = Metadata{}
	s.profile = ""
	s.script = ""
	s.shots = nil
	s.lastShot = -1
	s.errMsg = ""
	s.narration = nil
	s.video = VideoState{}
	s.mu.Unlock()
	s.publish(Event{Type: EventDiscard, Run: gen, Phase: PhaseIdle})
	return gen
}

func (s *CampaignStore) Snapshot() *Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := &Campaign{
		Run:                s.gen,
		Phase:              s.phase,
		Progress:           s.progress,
		Metadata:           s.metadata,
		ConsistencyProfile: s.profile,
		Script:             s.script,
		Shots:              make([]Shot, len(s.shots)),
		Error:              s.errMsg,
		Video:              s.video,
	}
	if s.brief != nil {
		b := &CampaignBrief{}
		if err := copier.CopyWithOption(b, s.brief, copier.Option{DeepCopy: true}); err == nil {
			c.Brief = b
		}
	}
	for i, shot := range s.shots {
		c.Shots[i] = shot.clone()
	}
	if s.narration != nil {
		c.HasNarration = true
		c.NarrationDuration = s.narration.Duration.Seconds()
	}
	return c
}

func (s *CampaignStore) Shot(index int) (Shot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.shots) {
		return Shot{}, ErrShotNotFound
	}
	return s.shots[index].clone(), nil
}

// RenderableShots returns the shots with a generated image, in order.
func (s *CampaignStore) RenderableShots() []Shot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shots := make([]Shot, 0, len(s.shots))
	for _, shot := range s.shots {
		if shot.Renderable() {
			shots = append(shots, shot.clone())
		}
	}
	return shots
}

// Subscribe registers a listener; slow listeners miss events rather than
// block writers.
func (s *CampaignStore) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *CampaignStore) publish(e Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}
