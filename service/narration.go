package service

import (
	"context"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common/audio"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/monitor"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"

	"github.com/pkg/errors"
)

// GenerateNarration synthesizes the current campaign script and stores it as
// the single narration asset, replacing any previous one.
func (s *Studio) GenerateNarration(ctx context.Context, voice string) (*model.NarrationAsset, error) {
	script := s.Store.Script()
	if strings.TrimSpace(script) == "" {
		return nil, ErrEmptyScript
	}
	if voice == "" {
		voice = config.DefaultVoice
	}
	if !config.GetCatalog().HasVoice(voice) {
		return nil, errors.Wrapf(ErrValidation, "unknown voice %q", voice)
	}
	gen := s.Store.Generation()
	started := time.Now()

	result, err := s.Narrator.Synthesize(ctx, &relaymodel.SpeechRequest{Text: script, Voice: voice})
	if err == nil && len(result.PCM) == 0 {
		err = errors.New("no audio returned")
	}
	var samples []int16
	if err == nil {
		samples, err = audio.SamplesFromPCM(result.PCM)
	}
	if err != nil {
		logger.Error(ctx, "narration failed: "+err.Error())
		if relaymodel.IsCredentialInvalid(err) {
			s.Credentials.Invalidate(s.Narrator.GetChannelName(), err.Error())
		}
		_ = s.Store.SetError(gen, "Audio failed: "+errorMessage(err))
		s.recordNarration(ctx, gen, "failed", errorMessage(err), started)
		return nil, err
	}

	rate := result.SampleRate
	if rate <= 0 {
		rate = config.NarrationSampleRate
	}
	channels := result.Channels
	if channels <= 0 {
		channels = config.NarrationChannels
	}
	asset := &model.NarrationAsset{
		WAV:        audio.EncodeWAV(samples, channels, rate),
		SampleRate: rate,
		Channels:   channels,
		Duration:   audio.Duration(len(samples), channels, rate),
		Voice:      voice,
		CreatedAt:  helper.GetTimestamp(),
	}
	if err = s.Store.SetNarration(gen, asset); err != nil {
		return nil, err
	}
	s.recordNarration(ctx, gen, "success", "", started)
	logger.Infof(ctx, "narration ready: voice %s, %.1fs", voice, asset.Duration.Seconds())
	return asset, nil
}

func (s *Studio) recordNarration(ctx context.Context, gen uint64, status string, message string, started time.Time) {
	monitor.RecordAttempt(monitor.KindNarration, time.Since(started), status == "success", false)
	model.RecordShotLog(ctx, &model.ShotLog{
		Run:      gen,
		Kind:     model.ShotLogKindNarration,
		Index:    -1,
		Provider: s.Narrator.GetChannelName(),
		Status:   status,
		Message:  helper.Truncate(message, 1000),
		Duration: time.Since(started).Seconds(),
	})
}
