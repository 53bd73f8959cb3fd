package composer

import (
	"fmt"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
)

type Platform string

const (
	PlatformDreamina Platform = "dreamina"
	PlatformGrok     Platform = "grok"
	PlatformMeta     Platform = "meta"
)

var Platforms = []Platform{PlatformDreamina, PlatformGrok, PlatformMeta}

const DreaminaMaxLength = 990

const PlaceholderPrompt = "Prompt loading..."

const (
	negativeBase    = "--negative_prompt teks, subtitle, caption, grafis, watermark, logo, tulisan, UI, kartun, anime, palsu, distorsi, wajah barat, rambut pirang, orang utuh, tubuh manusia (jika POV), wajah (jika POV), background asli, background sumber, background input, sisa background"
	stableNegative  = "gerakan berlebihan, morphing, perubahan bentuk produk, tangan aneh, anatomi buruk, glitch, pergerakan kamera cepat, zoom cepat, baju berubah, warna berubah"
	silenceNegative = "talking, moving mouth, speaking, open mouth"
	missingVisual   = "Adegan visual tidak tersedia."
)

// Input 生成平台提示词所需的全部参数
type Input struct {
	Platform     Platform
	VisualPrompt string
	ScriptLine   string
	StyleId      string
	// Strategy overrides the style's catalog strategy when set.
	Strategy  AudioStrategy
	ShotIndex int
	ShotCount int
	AudioType string
	Tone      string
}

// StrategyForStyle looks up the audio strategy of a catalog style, dubbing when unknown.
func StrategyForStyle(styleId string) AudioStrategy {
	if style, ok := config.GetStyle(styleId); ok && style.AudioStrategy != "" {
		return AudioStrategy(style.AudioStrategy)
	}
	return StrategyDubbing
}

func (in Input) strategy() AudioStrategy {
	if in.Strategy != "" {
		return in.Strategy
	}
	return StrategyForStyle(in.StyleId)
}

// ComposePrompt builds the platform prompt locally. Pure.
func ComposePrompt(in Input) string {
	visual := in.VisualPrompt
	if visual == "" {
		visual = missingVisual
	}
	negatives := negativeBase + ", " + stableNegative

	switch in.Platform {
	case PlatformDreamina:
		p := fmt.Sprintf("%s. 8k, photorealistic, cinematic lighting. %s", visual, negatives)
		return helper.Truncate(p, DreaminaMaxLength)
	case PlatformMeta:
		return fmt.Sprintf("%s, Very Slow Zoom In, Slow Motion, fotorealistik, 8k, model Indonesia. %s", visual, negatives)
	case PlatformGrok:
		return composeGrok(in, visual, negatives)
	default:
		return visual
	}
}

func composeGrok(in Input, visual string, negatives string) string {
	strategy := in.strategy()
	line := in.ScriptLine
	speaks := Speaks(strategy, SpeechContext{
		Index:     in.ShotIndex,
		Count:     in.ShotCount,
		AudioType: in.AudioType,
		Line:      line,
	})
	if speaks && nonTrivial(line) {
		return fmt.Sprintf("%s (Gerakan Kamera Halus, Fokus Wajah Bicara), model berbicara: \"%s\" %s", visual, line, negatives)
	}
	voice := ""
	if nonTrivial(line) && !OmitsNarration(strategy) {
		voice = fmt.Sprintf(", Narator berbicara: \"%s\"", line)
	}
	return fmt.Sprintf("%s (Gerakan Kamera Halus, Fokus Aksi/Pose, Mode Voice Over/Dubbing)%s %s, %s", visual, voice, negatives, silenceNegative)
}

// NeedsFallback reports whether a provider-origin prompt is unusable.
func NeedsFallback(provided string) bool {
	return strings.TrimSpace(provided) == "" ||
		provided == PlaceholderPrompt ||
		strings.Contains(provided, "...")
}

// ResolvePrompt picks the prompt shown for a platform. The lip-sync platform
// is always composed locally since its speech rules depend on run settings.
func ResolvePrompt(in Input, provided string) string {
	if in.Platform == PlatformGrok || NeedsFallback(provided) {
		return ComposePrompt(in)
	}
	return provided
}

// ResolveAll resolves every supported platform for one shot.
func ResolveAll(in Input, provided map[string]string) map[Platform]string {
	out := make(map[Platform]string, len(Platforms))
	for _, p := range Platforms {
		pin := in
		pin.Platform = p
		out[p] = ResolvePrompt(pin, provided[string(p)])
	}
	return out
}

// ImagePrompt 主 provider 渲染单个镜头时的提示词模板
func ImagePrompt(styleId string, consistencyProfile string, action string) string {
	return fmt.Sprintf("TUGAS: RENDER VISUAL PRODUK/MODEL.\nGAYA: %s, REALISTIS, 8K.\nKONSISTENSI: %s\nAKSI: %s\n(Photorealistic, high fidelity)",
		strings.ToUpper(styleId), consistencyProfile, action)
}

func VideoPrompt(visual string) string {
	return visual + ", cinematic movement, high quality"
}
