package gemini

// https://ai.google.dev/models/gemini

const ChannelName = "gemini"

var ModelList = []string{
	"gemini-2.5-flash-image", "gemini-3-pro-image-preview", "gemini-3-pro-preview",
	"gemini-2.5-flash-preview-tts", "gemini-2.5-pro-preview-tts",
}

const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
	ModalityAudio = "AUDIO"
)

const (
	hqImageSize = "1K"
	pcmMimeType = "audio/L16"
)
