package composer

import (
	"fmt"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
)

// PlanBrief is the planning request in provider-neutral form.
type PlanBrief struct {
	Topic            string
	StyleId          string
	Language         string
	Tone             string
	ShotCount        int
	ModelPrompt      string
	BackgroundPrompt string
	AudioType        string
}

type PlanInstruction struct {
	SystemInstruction string
	UserQuery         string
	UseGoogleSearch   bool
}

const planOutputContract = `ATURAN OUTPUT JSON:
Struktur: { "tiktokScript": "...", "shotScripts": ["...", "..."], "shotPrompts": ["...", "..."], "platformPrompts": [{ "dreamina": "...", "grok": "...", "meta": "..." }], "tiktokMetadata": { "keywords": ["...", "..."], "description": "..." }, "consistency_profile": "..." }`

// ShotCountHint 批量风格按已上传的批量图片数决定镜头数
func ShotCountHint(style *config.ContentStyle, outfitCount int, locationCount int) int {
	count := 0
	switch {
	case style.RequiresInput(config.InputOutfitBatch):
		count = outfitCount
	case style.RequiresInput(config.InputRealEstateBatch):
		count = locationCount
	}
	if count <= 0 {
		return config.DefaultShotCount
	}
	return count
}

func grokRule(audioType string) string {
	switch AudioStrategy(audioType) {
	case StrategyLipsync:
		return `2. **Grok (LIP SYNC MODE)**:
   - JIKA shot menampilkan wajah model, tambahkan: "...model berbicara: [Kutip Naskah Shot Ini]"
   - Tambahkan "--negative_prompt mouth closed, silence, no talking, ..."`
	case StrategyDubbing:
		return `2. **Grok (DUBBING/VOICEOVER MODE)**:
   - JANGAN PERNAH menyuruh model berbicara/lip sync.
   - FOKUS pada gerakan/aksi/ekspresi (smiling, nodding, pointing), tapi DALAM MODE VOICE OVER (Tanpa Lip Sync).
   - Jika ada instruksi suara, gunakan: "Narator berbicara: [Kutip Naskah]" (Agar Grok generate audio tanpa lip sync).
   - Tambahkan "--negative_prompt talking, speaking, moving mouth, ..."`
	default:
		return `2. **Grok (NO AUDIO MODE)**:
   - Fokus murni visual estetik dan gerakan kamera.
   - JANGAN ada instruksi bicara atau script.`
	}
}

func styleDirective(styleId string) string {
	mapping := "direct"
	if style, ok := config.GetStyle(styleId); ok {
		mapping = style.Mapping
	}
	switch mapping {
	case "professional_ads":
		return "GAYA: PROFESSIONAL ADS."
	case "direct", "quick_review":
		return "GAYA: UGC REVIEW."
	default:
		return fmt.Sprintf("GAYA: %s.", strings.ToUpper(styleId))
	}
}

// BuildPlanInstruction renders the creative-director instruction and user query.
func BuildPlanInstruction(b PlanBrief) PlanInstruction {
	shots := b.ShotCount
	if shots <= 0 {
		shots = config.DefaultShotCount
	}
	audioType := b.AudioType
	if audioType == "" {
		audioType = string(StrategyDubbing)
	}

	var query strings.Builder
	query.WriteString(fmt.Sprintf("Buat konten: %s. Gaya: %s. Bahasa: %s. Tone: %s. Jumlah Shot: %d.",
		b.Topic, b.StyleId, b.Language, b.Tone, shots))
	if b.ModelPrompt != "" {
		query.WriteString(fmt.Sprintf("\nModel Deskripsi: \"%s\"", b.ModelPrompt))
	}
	if b.BackgroundPrompt != "" {
		query.WriteString(fmt.Sprintf("\nBackground Deskripsi: \"%s\"", b.BackgroundPrompt))
	}

	system := strings.Join([]string{
		"Anda adalah AI Creative Director. Tugas Anda adalah membuat rencana konten (storyboard) untuk affiliate marketing.",
		"",
		"ATURAN UTAMA (VISUAL CONSISTENCY IS KING):",
		"1.  **ANALISIS:** Lihat 'Foto Model'. Ikuti VISUAL FOTO MODEL 100%.",
		"2.  **PENGULANGAN:** Salin-tempel deskripsi visual karakter ke SETIAP prompt.",
		"3.  **STRUKTUR PROMPT:** \"[Karakter] wearing [Pakaian] in [Lokasi], [Action], [Angle], [Lighting].\"",
		"",
		"RUMUS PROMPT KHUSUS PLATFORM:",
		"1. **Dreamina**: [Visual Only].",
		grokRule(audioType),
		"",
		planOutputContract,
		styleDirective(b.StyleId),
	}, "\n")

	return PlanInstruction{
		SystemInstruction: system,
		UserQuery:         query.String(),
	}
}
