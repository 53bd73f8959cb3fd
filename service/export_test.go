package service

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/ezlinkai/campaign-studio/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptFile(t *testing.T) {
	s, _ := newTestStudio(fivePlan)
	_, _, err := s.ScriptFile()
	assert.ErrorIs(t, err, ErrEmptyScript)

	_, err = s.RunCampaign(context.Background(), testBrief(), RunOptions{})
	require.NoError(t, err)
	name, body, err := s.ScriptFile()
	require.NoError(t, err)
	assert.Equal(t, "Glow Up_script.txt", name)
	assert.Equal(t, s.Store.Script(), string(body))
}

func TestImagesArchive(t *testing.T) {
	s, f := newTestStudio(`{"shotPrompts":["a","b","c"]}`)
	f.primary.respond = nil
	_, err := s.RunCampaign(context.Background(), testBrief(), RunOptions{})
	require.NoError(t, err)

	data, err := s.ImagesArchive(context.Background())
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, file := range zr.File {
		names = append(names, file.Name)
	}
	assert.Equal(t, []string{"shot_1.png", "shot_2.png", "shot_3.png"}, names)
}

func TestImagesArchiveWithoutRenders(t *testing.T) {
	s, _ := newTestStudio("")
	s.Store.BeginRun(&model.CampaignBrief{Style: "ugc"})
	_, err := s.ImagesArchive(context.Background())
	assert.ErrorIs(t, err, ErrShotNotRenderable)
}

func TestUploadArchiveDisabled(t *testing.T) {
	s, _ := newTestStudio("")
	_, err := s.UploadArchive(context.Background())
	assert.ErrorIs(t, err, ErrExportDisabled)
}
