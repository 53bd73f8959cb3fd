package gemini

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/pkg/errors"
)

func ConvertSpeechRequest(request *model.SpeechRequest) *ChatRequest {
	voice := request.Voice
	if voice == "" {
		voice = config.DefaultVoice
	}
	return &ChatRequest{
		Contents: []ChatContent{textContent(request.Text)},
		GenerationConfig: ChatGenerationConfig{
			ResponseModalities: []string{ModalityAudio},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice}},
			},
		},
	}
}

// sampleRateFromMime reads "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMime(mimeType string, fallback int) int {
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		if strings.HasPrefix(param, "rate=") {
			if rate, err := strconv.Atoi(strings.TrimPrefix(param, "rate=")); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return fallback
}

// Synthesize implements channel.NarrationAdaptor.
func (a *Adaptor) Synthesize(ctx context.Context, request *model.SpeechRequest) (*model.SpeechResult, error) {
	response, err := a.generateContent(ctx, a.NarrationModel, ConvertSpeechRequest(request))
	if err != nil {
		return nil, err
	}
	data := response.FirstInlineData()
	if data == nil {
		return nil, model.NewProviderError(ChannelName, 0, "narration response has no audio", "empty_audio")
	}
	pcm, err := base64.StdEncoding.DecodeString(data.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode narration audio")
	}
	mimeType := data.MimeType
	if mimeType == "" {
		mimeType = pcmMimeType
	}
	return &model.SpeechResult{
		PCM:        pcm,
		SampleRate: sampleRateFromMime(mimeType, config.NarrationSampleRate),
		Channels:   config.NarrationChannels,
		MimeType:   mimeType,
	}, nil
}
