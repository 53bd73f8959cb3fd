package channel

import (
	"context"

	"github.com/ezlinkai/campaign-studio/relay/model"
)

// PlanningAdaptor returns the raw plan body; parsing belongs to the caller.
type PlanningAdaptor interface {
	CreatePlan(ctx context.Context, request *model.PlanRequest) (string, error)
	GetChannelName() string
}

type ImageAdaptor interface {
	GenerateImage(ctx context.Context, request *model.ImageRequest) (*model.ImageResult, error)
	GetChannelName() string
}

type NarrationAdaptor interface {
	Synthesize(ctx context.Context, request *model.SpeechRequest) (*model.SpeechResult, error)
	GetChannelName() string
}

type VideoAdaptor interface {
	// 提交视频生成任务
	SubmitVideo(ctx context.Context, request *model.VideoRequest) (*model.VideoJob, error)

	// 查询任务状态
	GetVideoResult(ctx context.Context, jobName string) (*model.VideoJob, error)

	// 下载链接需附带调用方凭据才能访问
	DownloadURL(uri string) string

	GetChannelName() string
}

// KeyFunc supplies the current primary credential; it may change at runtime.
type KeyFunc func() string
