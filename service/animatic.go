package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/ezlinkai/campaign-studio/animatic"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/image"
	"github.com/ezlinkai/campaign-studio/common/logger"

	"github.com/pkg/errors"
)

var ErrNoPlayer = errors.New("animatic player is not open")

type playerSlot struct {
	mu     sync.Mutex
	player *animatic.Player
}

// OpenPlayer builds a player over the current renderable shots, replacing
// any open one. The narration asset, when present, drives the clock.
func (s *Studio) OpenPlayer() (*animatic.Player, error) {
	shots := s.Store.RenderableShots()
	if len(shots) == 0 {
		return nil, animatic.ErrNothingToPlay
	}
	lines := make([]string, len(shots))
	for i, shot := range shots {
		lines[i] = shot.VoiceoverScript
	}
	var source animatic.AudioSource
	if n := s.Store.Narration(); n != nil {
		source = animatic.NewWallClockAudio(n.Duration)
	}
	player := animatic.NewPlayer(lines, source, animatic.Options{})

	s.players.mu.Lock()
	previous := s.players.player
	s.players.player = player
	s.players.mu.Unlock()
	if previous != nil {
		previous.Close()
	}
	return player, nil
}

func (s *Studio) Player() (*animatic.Player, error) {
	s.players.mu.Lock()
	defer s.players.mu.Unlock()
	if s.players.player == nil {
		return nil, ErrNoPlayer
	}
	return s.players.player, nil
}

func (s *Studio) ClosePlayer() {
	s.players.mu.Lock()
	player := s.players.player
	s.players.player = nil
	s.players.mu.Unlock()
	if player != nil {
		player.Close()
	}
}

// RenderAnimatic exports the animatic as an MP4 file under dir and returns its path.
func (s *Studio) RenderAnimatic(ctx context.Context, dir string) (string, error) {
	shots := s.Store.RenderableShots()
	if len(shots) == 0 {
		return "", animatic.ErrNothingToPlay
	}
	frames := make([]animatic.Frame, 0, len(shots))
	for _, shot := range shots {
		mimeType, data, err := image.Resolve(ctx, s.ImageClient, shot.Image())
		if err != nil {
			logger.Warn(ctx, "skip shot in animatic: "+err.Error())
			continue
		}
		frames = append(frames, animatic.Frame{
			Image: data,
			Ext:   image.ExtensionFromMimeType(mimeType),
			Line:  shot.VoiceoverScript,
		})
	}
	input := animatic.RenderInput{Frames: frames}
	if n := s.Store.Narration(); n != nil {
		input.Narration = n.WAV
		input.NarrationDuration = n.Duration
	}
	if dir == "" {
		dir = os.TempDir()
	}
	output := filepath.Join(dir, "animatic-"+helper.GetUUID()+".mp4")
	if err := animatic.Render(ctx, input, output); err != nil {
		return "", err
	}
	return output, nil
}
