package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/cloudflare"
	"github.com/ezlinkai/campaign-studio/common/image"
	"github.com/ezlinkai/campaign-studio/common/logger"

	"github.com/pkg/errors"
)

const ImagesArchiveName = "campaign_storyboard_assets.zip"

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// ScriptFile returns the download name and body of the campaign script.
func (s *Studio) ScriptFile() (string, []byte, error) {
	script := s.Store.Script()
	if strings.TrimSpace(script) == "" {
		return "", nil, ErrEmptyScript
	}
	title := strings.TrimSpace(unsafeFilename.ReplaceAllString(s.Store.Metadata().Title, "_"))
	if title == "" {
		title = "campaign"
	}
	return title + "_script.txt", []byte(script), nil
}

// ImagesArchive zips every rendered shot image as shot_<n>.<ext>.
func (s *Studio) ImagesArchive(ctx context.Context) ([]byte, error) {
	shots := s.Store.RenderableShots()
	if len(shots) == 0 {
		return nil, errors.Wrap(ErrShotNotRenderable, "no rendered shots to export")
	}
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, shot := range shots {
		mimeType, data, err := image.Resolve(ctx, s.ImageClient, shot.Image())
		if err != nil {
			logger.Warn(ctx, fmt.Sprintf("skip shot %d in archive: %s", shot.Number, err.Error()))
			continue
		}
		w, err := zw.Create(fmt.Sprintf("shot_%d%s", shot.Number, image.ExtensionFromMimeType(mimeType)))
		if err != nil {
			return nil, err
		}
		if _, err = w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadArchive stores the images archive in R2 and returns its public URL.
func (s *Studio) UploadArchive(ctx context.Context) (string, error) {
	if !cloudflare.Enabled() {
		return "", ErrExportDisabled
	}
	data, err := s.ImagesArchive(ctx)
	if err != nil {
		return "", err
	}
	return cloudflare.UploadObject(ctx, cloudflare.ObjectKey("campaigns", ".zip"), data, "application/zip")
}
