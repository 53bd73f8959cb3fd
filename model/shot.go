package model

import (
	"encoding/json"
)

type RenderStatus string

const (
	RenderStatusLoading RenderStatus = "loading"
	RenderStatusSuccess RenderStatus = "success"
	RenderStatusFailed  RenderStatus = "failed"
)

// Render is the per-shot outcome. Exactly one of RenderLoading, RenderSuccess
// or RenderFailed.
type Render interface {
	Status() RenderStatus
	isRender()
}

type RenderLoading struct{}

type RenderSuccess struct {
	Image string
	Video string
}

type RenderFailed struct {
	Message string
}

func (RenderLoading) Status() RenderStatus { return RenderStatusLoading }
func (RenderSuccess) Status() RenderStatus { return RenderStatusSuccess }
func (RenderFailed) Status() RenderStatus  { return RenderStatusFailed }

func (RenderLoading) isRender() {}
func (RenderSuccess) isRender() {}
func (RenderFailed) isRender()  {}

type Shot struct {
	Number          int
	VisualPrompt    string
	VoiceoverScript string
	PlatformPrompts map[string]string
	FlowLabel       string
	Render          Render
}

func NewLoadingShot(number int, visual string, script string, platformPrompts map[string]string) Shot {
	if platformPrompts == nil {
		platformPrompts = map[string]string{}
	}
	return Shot{
		Number:          number,
		VisualPrompt:    visual,
		VoiceoverScript: script,
		PlatformPrompts: platformPrompts,
		Render:          RenderLoading{},
	}
}

// Image returns the generated image reference, empty unless rendered.
func (s *Shot) Image() string {
	if r, ok := s.Render.(RenderSuccess); ok {
		return r.Image
	}
	return ""
}

func (s *Shot) Video() string {
	if r, ok := s.Render.(RenderSuccess); ok {
		return r.Video
	}
	return ""
}

func (s *Shot) Renderable() bool {
	return s.Image() != ""
}

func (s Shot) clone() Shot {
	prompts := make(map[string]string, len(s.PlatformPrompts))
	for k, v := range s.PlatformPrompts {
		prompts[k] = v
	}
	s.PlatformPrompts = prompts
	return s
}

type shotJSON struct {
	Number          int               `json:"shot_number"`
	VisualPrompt    string            `json:"visual_prompt"`
	VoiceoverScript string            `json:"voiceover_script"`
	PlatformPrompts map[string]string `json:"platform_prompts"`
	FlowLabel       string            `json:"flow_label,omitempty"`
	Status          RenderStatus      `json:"status"`
	ImageURL        string            `json:"image_url,omitempty"`
	VideoURL        string            `json:"video_url,omitempty"`
	Error           string            `json:"error,omitempty"`
}

func (s Shot) MarshalJSON() ([]byte, error) {
	out := shotJSON{
		Number:          s.Number,
		VisualPrompt:    s.VisualPrompt,
		VoiceoverScript: s.VoiceoverScript,
		PlatformPrompts: s.PlatformPrompts,
		FlowLabel:       s.FlowLabel,
		Status:          RenderStatusLoading,
	}
	switch r := s.Render.(type) {
	case RenderSuccess:
		out.Status = r.Status()
		out.ImageURL = r.Image
		out.VideoURL = r.Video
	case RenderFailed:
		out.Status = r.Status()
		out.Error = r.Message
	}
	return json.Marshal(out)
}
