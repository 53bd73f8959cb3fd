package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/pkg/errors"
)

// FlexString accepts any JSON value and flattens it to text.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*f = FlexString(common.EnsureString(v))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexList is a list of strings; any non-array value decodes as empty.
type FlexList []FlexString

func (l *FlexList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make(FlexList, len(raw))
	for i, item := range raw {
		if err := out[i].UnmarshalJSON(item); err != nil {
			return err
		}
	}
	*l = out
	return nil
}

// Get 缺失下标按空串处理
func (l FlexList) Get(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return string(l[i])
}

// PromptBundle maps platform name to a provider-authored prompt.
type PromptBundle map[string]string

func (p *PromptBundle) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = PromptBundle{}
		return nil
	}
	out := make(PromptBundle, len(raw))
	for k, v := range raw {
		var s FlexString
		if err := s.UnmarshalJSON(v); err != nil {
			return err
		}
		out[k] = string(s)
	}
	*p = out
	return nil
}

type PromptBundles []PromptBundle

func (l *PromptBundles) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make(PromptBundles, len(raw))
	for i, item := range raw {
		if err := out[i].UnmarshalJSON(item); err != nil {
			return err
		}
	}
	*l = out
	return nil
}

type PlanMetadata struct {
	Description FlexString `json:"description"`
	Keywords    FlexList   `json:"keywords"`
}

// CreativePlan is the planning provider's storyboard response.
type CreativePlan struct {
	TiktokScript       FlexString    `json:"tiktokScript"`
	ShotPrompts        FlexList      `json:"shotPrompts"`
	ShotScripts        FlexList      `json:"shotScripts"`
	PlatformPrompts    PromptBundles `json:"platformPrompts,omitempty"`
	ConsistencyProfile FlexString    `json:"consistency_profile"`
	TiktokMetadata     *PlanMetadata `json:"tiktokMetadata,omitempty"`
}

func (p *CreativePlan) ShotCount() int {
	return len(p.ShotPrompts)
}

func (p *CreativePlan) ShotPrompt(i int) string {
	return p.ShotPrompts.Get(i)
}

func (p *CreativePlan) ShotScript(i int) string {
	return p.ShotScripts.Get(i)
}

// PlatformPrompt returns a copy of the bundle at i, empty when absent.
func (p *CreativePlan) PlatformPrompt(i int) map[string]string {
	out := map[string]string{}
	if i < 0 || i >= len(p.PlatformPrompts) {
		return out
	}
	for k, v := range p.PlatformPrompts[i] {
		out[k] = v
	}
	return out
}

func (p *CreativePlan) Title() string {
	if p.TiktokMetadata != nil && p.TiktokMetadata.Description != "" {
		return string(p.TiktokMetadata.Description)
	}
	return "Campaign"
}

func (p *CreativePlan) Hashtags() string {
	if p.TiktokMetadata == nil {
		return ""
	}
	tags := make([]string, 0, len(p.TiktokMetadata.Keywords))
	for _, k := range p.TiktokMetadata.Keywords {
		tags = append(tags, "#"+string(k))
	}
	return strings.Join(tags, " ")
}

// SeedScript joins the non-empty shot lines with a blank line, falling back
// to the overall narration script.
func (p *CreativePlan) SeedScript() string {
	lines := make([]string, 0, len(p.ShotScripts))
	for _, s := range p.ShotScripts {
		if s != "" {
			lines = append(lines, string(s))
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n\n")
	}
	return string(p.TiktokScript)
}

// ParsePlan decodes the provider body, retrying once with code fences stripped.
func ParsePlan(text string) (*CreativePlan, error) {
	plan := &CreativePlan{}
	err := json.Unmarshal([]byte(text), plan)
	if err == nil {
		return plan, nil
	}
	plan = &CreativePlan{}
	if err2 := json.Unmarshal([]byte(common.StripCodeFence(text)), plan); err2 != nil {
		return nil, errors.Wrap(err2, "decode creative plan")
	}
	return plan, nil
}
