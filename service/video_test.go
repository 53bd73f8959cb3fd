package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ezlinkai/campaign-studio/model"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedStudio(t *testing.T) (*Studio, *fakes) {
	s, f := newTestStudio(`{"shotPrompts":["a","b"]}`)
	_, err := s.RunCampaign(context.Background(), testBrief(), RunOptions{})
	require.NoError(t, err)
	return s, f
}

func TestGenerateVideoAttachesToShot(t *testing.T) {
	s, f := renderedStudio(t)

	require.NoError(t, s.GenerateVideo(context.Background(), 1))

	shot, err := s.Store.Shot(1)
	require.NoError(t, err)
	assert.Equal(t, "https://video/1?key=k", shot.Video())
	assert.Equal(t, "image/png", f.video.submitted.Image.MimeType)
	assert.Equal(t, pngPixel, f.video.submitted.Image.Data)

	other, _ := s.Store.Shot(0)
	assert.Empty(t, other.Video())
	assert.False(t, s.Store.Snapshot().Video.Active)
}

func TestGenerateVideoFailureSetsBanner(t *testing.T) {
	s, f := renderedStudio(t)
	f.video.failWith = "safety filter"

	require.Error(t, s.GenerateVideo(context.Background(), 0))
	assert.Equal(t, MessageVideoFailed, s.Store.Snapshot().Error)
	shot, _ := s.Store.Shot(0)
	assert.Empty(t, shot.Video())
}

func TestVideoRejectsBusyAndUnrendered(t *testing.T) {
	s, _ := renderedStudio(t)
	gen, err := s.Store.BeginVideo(0, VideoStatusInitial)
	require.NoError(t, err)
	assert.ErrorIs(t, s.GenerateVideo(context.Background(), 1), ErrVideoBusy)
	s.Store.EndVideo(gen, 0)

	assert.ErrorIs(t, s.GenerateVideo(context.Background(), 5), model.ErrShotNotFound)
}

func TestVideoOnFailedShot(t *testing.T) {
	s, f := newTestStudio(`{"shotPrompts":["a"]}`)
	f.primary.respond = func(int, *relaymodel.ImageRequest) (*relaymodel.ImageResult, error) {
		return nil, errors.New("blocked")
	}
	_, err := s.RunCampaign(context.Background(), testBrief(), RunOptions{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.GenerateVideo(context.Background(), 0), ErrShotNotRenderable)
	assert.Nil(t, f.video.submitted)
}
