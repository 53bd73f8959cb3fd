package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedShots(n int) []Shot {
	shots := make([]Shot, n)
	for i := range shots {
		shots[i] = NewLoadingShot(0, "visual", "line", map[string]string{"dreamina": "p"})
	}
	return shots
}

func TestApplyPlanNumbersShotsAndMarksLoading(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(&CampaignBrief{Style: "ugc"})
	require.NoError(t, s.ApplyPlan(gen, Metadata{Title: "T"}, "profile", "script", plannedShots(4)))

	c := s.Snapshot()
	require.Len(t, c.Shots, 4)
	for i, shot := range c.Shots {
		assert.Equal(t, i+1, shot.Number)
		assert.Equal(t, RenderStatusLoading, shot.Render.Status())
	}
	assert.Equal(t, PhaseRendering, c.Phase)
	assert.Equal(t, "script", c.Script)
	assert.Equal(t, "ugc", c.Brief.Style)
}

func TestStaleRunWritesAreDropped(t *testing.T) {
	s := NewCampaignStore()
	old := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(old, Metadata{}, "", "", plannedShots(2)))

	s.Discard()
	assert.False(t, s.IsActive(old))
	assert.ErrorIs(t, s.SetShotRender(old, 0, RenderSuccess{Image: "x"}), ErrStaleRun)
	assert.ErrorIs(t, s.ApplyPlan(old, Metadata{}, "", "", plannedShots(1)), ErrStaleRun)
	assert.ErrorIs(t, s.SetError(old, "late"), ErrStaleRun)

	c := s.Snapshot()
	assert.Empty(t, c.Shots)
	assert.Empty(t, c.Error)
	assert.Equal(t, PhaseIdle, c.Phase)
}

func TestShotRendersWrittenInIncreasingOrder(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "", plannedShots(3)))

	require.NoError(t, s.SetShotRender(gen, 1, RenderFailed{Message: "boom"}))
	assert.ErrorIs(t, s.SetShotRender(gen, 0, RenderSuccess{Image: "a"}), ErrOutOfOrder)
	assert.ErrorIs(t, s.SetShotRender(gen, 1, RenderSuccess{Image: "a"}), ErrOutOfOrder)
	assert.ErrorIs(t, s.SetShotRender(gen, 3, RenderSuccess{Image: "a"}), ErrShotNotFound)
	assert.Error(t, s.SetShotRender(gen, 2, RenderLoading{}))
	require.NoError(t, s.SetShotRender(gen, 2, RenderSuccess{Image: "c"}))

	renderable := s.RenderableShots()
	require.Len(t, renderable, 1)
	assert.Equal(t, 3, renderable[0].Number)
}

func TestAttachVideoOnlyOnSuccess(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "", plannedShots(2)))
	require.NoError(t, s.SetShotRender(gen, 0, RenderSuccess{Image: "img"}))
	require.NoError(t, s.SetShotRender(gen, 1, RenderFailed{Message: "no"}))

	require.NoError(t, s.AttachVideo(gen, 0, "https://video"))
	assert.ErrorIs(t, s.AttachVideo(gen, 1, "https://video"), ErrShotNotRenderable)

	shot, err := s.Shot(0)
	require.NoError(t, err)
	assert.Equal(t, "img", shot.Image())
	assert.Equal(t, "https://video", shot.Video())
}

func TestVideoSlotIsExclusive(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "", plannedShots(3)))
	require.NoError(t, s.SetShotRender(gen, 0, RenderSuccess{Image: "a"}))
	require.NoError(t, s.SetShotRender(gen, 1, RenderSuccess{Image: "b"}))

	_, err := s.BeginVideo(2, "x")
	assert.ErrorIs(t, err, ErrShotNotRenderable)
	videoGen, err := s.BeginVideo(0, "setting up")
	require.NoError(t, err)
	assert.Equal(t, gen, videoGen)
	_, err = s.BeginVideo(1, "x")
	assert.ErrorIs(t, err, ErrVideoBusy)

	s.SetVideoStatus(gen, 0, "rolling")
	assert.Equal(t, "rolling", s.Snapshot().Video.Status)

	s.EndVideo(gen, 0)
	_, err = s.BeginVideo(1, "x")
	require.NoError(t, err)
}

func TestOrphanedVideoKeepsNewRunSlot(t *testing.T) {
	s := NewCampaignStore()
	oldGen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(oldGen, Metadata{}, "", "", plannedShots(3)))
	require.NoError(t, s.SetShotRender(oldGen, 0, RenderSuccess{Image: "a"}))
	require.NoError(t, s.SetShotRender(oldGen, 1, RenderSuccess{Image: "b"}))
	_, err := s.BeginVideo(1, "old")
	require.NoError(t, err)

	s.Discard()
	gen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "", plannedShots(3)))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SetShotRender(gen, i, RenderSuccess{Image: "n"}))
	}
	videoGen, err := s.BeginVideo(1, "new")
	require.NoError(t, err)
	assert.Equal(t, gen, videoGen)

	// the old job finishing must not touch the new run's slot
	s.SetVideoStatus(oldGen, 1, "stale")
	s.EndVideo(oldGen, 1)

	video := s.Snapshot().Video
	assert.True(t, video.Active)
	assert.Equal(t, gen, video.Run)
	assert.Equal(t, 1, video.Index)
	assert.Equal(t, "new", video.Status)

	_, err = s.BeginVideo(2, "x")
	assert.ErrorIs(t, err, ErrVideoBusy)

	s.EndVideo(gen, 1)
	_, err = s.BeginVideo(2, "x")
	require.NoError(t, err)
}

func TestScriptEditsAreLastWriterWins(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(nil)
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "seeded", nil))
	s.UpdateScript("edited")
	assert.Equal(t, "edited", s.Script())

	gen = s.BeginRun(nil)
	assert.Equal(t, "edited", s.Script())
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "replanned", nil))
	assert.Equal(t, "replanned", s.Script())
}

func TestSingleBannerError(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(nil)
	require.NoError(t, s.SetError(gen, "first"))
	require.NoError(t, s.SetError(gen, "second"))
	assert.Equal(t, "second", s.Snapshot().Error)
	s.DismissError()
	assert.Empty(t, s.Snapshot().Error)
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	s := NewCampaignStore()
	gen := s.BeginRun(&CampaignBrief{Style: "a", OutfitImages: []*FileData{{Data: "AA==", MimeType: "image/png"}}})
	require.NoError(t, s.ApplyPlan(gen, Metadata{}, "", "", plannedShots(1)))

	c := s.Snapshot()
	c.Shots[0].PlatformPrompts["dreamina"] = "changed"
	c.Brief.OutfitImages[0].MimeType = "image/jpeg"

	again := s.Snapshot()
	assert.Equal(t, "p", again.Shots[0].PlatformPrompts["dreamina"])
	assert.Equal(t, "image/png", again.Brief.OutfitImages[0].MimeType)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s := NewCampaignStore()
	events, cancel := s.Subscribe(8)
	gen := s.BeginRun(nil)
	e := <-events
	assert.Equal(t, EventPhase, e.Type)
	assert.Equal(t, gen, e.Run)
	cancel()
	cancel()
	_, ok := <-events
	assert.False(t, ok)
}

func TestShotJSON(t *testing.T) {
	shot := NewLoadingShot(2, "v", "l", nil)
	shot.Render = RenderFailed{Message: "nope"}
	b, err := json.Marshal(shot)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "failed", out["status"])
	assert.Equal(t, "nope", out["error"])
	assert.NotContains(t, out, "image_url")
	assert.False(t, shot.Renderable())
}
