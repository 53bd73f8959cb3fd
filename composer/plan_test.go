package composer

import (
	"testing"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShotCountHint(t *testing.T) {
	treadmill, ok := config.GetStyle("treadmill")
	require.True(t, ok)
	realestate, ok := config.GetStyle("realestate")
	require.True(t, ok)
	ugc, ok := config.GetStyle("ugc")
	require.True(t, ok)

	assert.Equal(t, 3, ShotCountHint(treadmill, 3, 6))
	assert.Equal(t, 5, ShotCountHint(treadmill, 0, 6))
	assert.Equal(t, 4, ShotCountHint(realestate, 1, 4))
	assert.Equal(t, 5, ShotCountHint(ugc, 6, 6))
}

func TestBuildPlanInstruction(t *testing.T) {
	inst := BuildPlanInstruction(PlanBrief{
		Topic:            "Serum vitamin C",
		StyleId:          "ads",
		Language:         "Indonesian",
		Tone:             "Hype",
		ShotCount:        5,
		ModelPrompt:      "wanita berhijab",
		BackgroundPrompt: "kamar minimalis",
		AudioType:        "hybrid_ads",
	})
	assert.Equal(t, "Buat konten: Serum vitamin C. Gaya: ads. Bahasa: Indonesian. Tone: Hype. Jumlah Shot: 5.\n"+
		"Model Deskripsi: \"wanita berhijab\"\nBackground Deskripsi: \"kamar minimalis\"", inst.UserQuery)
	assert.Contains(t, inst.SystemInstruction, "GAYA: PROFESSIONAL ADS.")
	assert.Contains(t, inst.SystemInstruction, "NO AUDIO MODE")
	assert.False(t, inst.UseGoogleSearch)
}

func TestBuildPlanInstructionGrokModes(t *testing.T) {
	lip := BuildPlanInstruction(PlanBrief{StyleId: "foodie", AudioType: "lipsync"})
	assert.Contains(t, lip.SystemInstruction, "LIP SYNC MODE")
	assert.Contains(t, lip.SystemInstruction, "GAYA: FOODIE.")

	dub := BuildPlanInstruction(PlanBrief{StyleId: "cinematic"})
	assert.Contains(t, dub.SystemInstruction, "DUBBING/VOICEOVER MODE")
	assert.Contains(t, dub.SystemInstruction, "GAYA: UGC REVIEW.")
	assert.Contains(t, dub.UserQuery, "Jumlah Shot: 5.")
}
