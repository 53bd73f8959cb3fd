package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/image"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/composer"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/monitor"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"

	"github.com/pkg/errors"
)

const VideoStatusInitial = "Cinematographer is setting up..."

var VideoStatusMessages = []string{
	"Director is reviewing the script...",
	"Setting up cinematic lighting...",
	"Capturing the magic in 1080p...",
	"Fine-tuning motion vectors...",
	"Adding final touches to the scene...",
}

// StartVideo reserves the video slot for a rendered shot and runs the job in
// the background.
func (s *Studio) StartVideo(ctx context.Context, index int) error {
	gen, shot, err := s.reserveVideo(index)
	if err != nil {
		return err
	}
	requestId, _ := ctx.Value(logger.RequestIdKey).(string)
	jobCtx := context.WithValue(context.Background(), logger.RequestIdKey, requestId)
	jobCtx = logger.WithRun(jobCtx, int64(gen))
	common.CampaignCtxGo(jobCtx, func() {
		_ = s.runVideo(jobCtx, gen, index, shot)
	})
	return nil
}

// GenerateVideo is the blocking form of StartVideo.
func (s *Studio) GenerateVideo(ctx context.Context, index int) error {
	gen, shot, err := s.reserveVideo(index)
	if err != nil {
		return err
	}
	return s.runVideo(ctx, gen, index, shot)
}

func (s *Studio) reserveVideo(index int) (uint64, model.Shot, error) {
	shot, err := s.Store.Shot(index)
	if err != nil {
		return 0, model.Shot{}, err
	}
	if !shot.Renderable() {
		return 0, model.Shot{}, ErrShotNotRenderable
	}
	gen, err := s.Store.BeginVideo(index, VideoStatusInitial)
	if err != nil {
		return 0, model.Shot{}, err
	}
	return gen, shot, nil
}

func (s *Studio) runVideo(ctx context.Context, gen uint64, index int, shot model.Shot) error {
	defer s.Store.EndVideo(gen, index)
	defer monitor.JobStarted()()
	started := time.Now()

	uri, err := s.pollVideo(ctx, gen, index, shot)
	if err == nil {
		err = s.Store.AttachVideo(gen, index, s.Video.DownloadURL(uri))
	}
	status := "success"
	if err != nil {
		status = "failed"
		if errors.Is(err, model.ErrStaleRun) {
			logger.Info(ctx, fmt.Sprintf("video for shot %d finished after campaign changed, dropped", index+1))
		} else {
			logger.Error(ctx, fmt.Sprintf("video for shot %d failed: %s", index+1, err.Error()))
			if relaymodel.IsCredentialInvalid(err) {
				s.Credentials.Invalidate(s.Video.GetChannelName(), err.Error())
			}
			_ = s.Store.SetError(gen, MessageVideoFailed)
		}
	}
	monitor.RecordAttempt(monitor.KindVideo, time.Since(started), err == nil, relaymodel.IsCredentialInvalid(err))
	model.RecordShotLog(ctx, &model.ShotLog{
		Run:      gen,
		Kind:     model.ShotLogKindVideo,
		Index:    index,
		Provider: s.Video.GetChannelName(),
		Status:   status,
		Message:  helper.Truncate(errorMessage(err), 1000),
		Duration: time.Since(started).Seconds(),
	})
	return err
}

// pollVideo submits the job and polls until the provider reports done. There
// is no deadline besides ctx.
func (s *Studio) pollVideo(ctx context.Context, gen uint64, index int, shot model.Shot) (string, error) {
	mimeType, data, err := image.Resolve(ctx, s.ImageClient, shot.Image())
	if err != nil {
		return "", errors.Wrap(err, "read shot image")
	}
	job, err := s.Video.SubmitVideo(ctx, &relaymodel.VideoRequest{
		Prompt: composer.VideoPrompt(shot.VisualPrompt),
		Image: &relaymodel.ReferenceImage{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		},
		AspectRatio:    config.AspectRatio,
		Resolution:     config.VideoResolution,
		NumberOfVideos: 1,
	})
	if err != nil {
		return "", err
	}
	logger.Infof(ctx, "video job submitted for shot %d: %s", index+1, job.Name)

	pollInterval := s.VideoPollInterval
	if pollInterval <= 0 {
		pollInterval = config.VideoPollInterval
	}
	statusInterval := s.VideoStatusInterval
	if statusInterval <= 0 {
		statusInterval = config.VideoStatusInterval
	}
	poll := time.NewTicker(pollInterval)
	defer poll.Stop()
	rotate := time.NewTicker(statusInterval)
	defer rotate.Stop()

	msgIdx := 0
	for !job.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-rotate.C:
			s.Store.SetVideoStatus(gen, index, VideoStatusMessages[msgIdx%len(VideoStatusMessages)])
			msgIdx++
		case <-poll.C:
			job, err = s.Video.GetVideoResult(ctx, job.Name)
			if err != nil {
				return "", err
			}
		}
	}
	if job.Error != "" {
		return "", errors.New(job.Error)
	}
	if job.VideoURI == "" {
		return "", errors.New("video job finished without a video")
	}
	return job.VideoURI, nil
}
