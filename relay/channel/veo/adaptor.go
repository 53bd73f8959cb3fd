package veo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/composer"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	"github.com/ezlinkai/campaign-studio/relay/channel/gemini"
	"github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/ezlinkai/campaign-studio/relay/util"
)

const ChannelName = "veo"

type Adaptor struct {
	BaseURL string
	Version string
	Model   string
	Key     channel.KeyFunc
	Client  *http.Client
}

func NewAdaptor(key channel.KeyFunc) *Adaptor {
	return &Adaptor{
		BaseURL: config.GeminiBaseURL,
		Version: config.GeminiVersion,
		Model:   config.VideoModel,
		Key:     key,
		Client:  util.HTTPClient,
	}
}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) key() string {
	if a.Key == nil {
		return ""
	}
	return a.Key()
}

func (a *Adaptor) baseURL() string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(a.BaseURL, "/"), a.Version)
}

func ConvertVideoRequest(request *model.VideoRequest) *Request {
	instance := Instance{Prompt: composer.VideoPrompt(request.Prompt)}
	if request.Image != nil && request.Image.Data != "" {
		mimeType := request.Image.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		instance.Image = &Image{BytesBase64Encoded: request.Image.Data, MimeType: mimeType}
	}
	count := request.NumberOfVideos
	if count <= 0 {
		count = 1
	}
	return &Request{
		Instances: []Instance{instance},
		Parameters: Parameters{
			AspectRatio: request.AspectRatio,
			Resolution:  request.Resolution,
			SampleCount: count,
		},
	}
}

func toJob(op *Operation) *model.VideoJob {
	job := &model.VideoJob{Name: op.Name, Done: op.Done, CreatedAt: time.Now()}
	if op.Error != nil {
		job.Done = true
		job.Error = op.Error.Message
	}
	if op.Response != nil && len(op.Response.GenerateVideoResponse.GeneratedSamples) > 0 {
		job.VideoURI = op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
	}
	return job
}

// SubmitVideo implements channel.VideoAdaptor.
func (a *Adaptor) SubmitVideo(ctx context.Context, request *model.VideoRequest) (*model.VideoJob, error) {
	key := a.key()
	if key == "" {
		return nil, model.NewProviderError(ChannelName, http.StatusUnauthorized, "primary API key is not configured", "missing_api_key")
	}
	fullRequestURL := fmt.Sprintf("%s/models/%s:predictLongRunning", a.baseURL(), a.Model)
	var op Operation
	err := channel.DoRequestHelper(ctx, a.Client, http.MethodPost, fullRequestURL,
		map[string]string{"x-goog-api-key": key}, ConvertVideoRequest(request), &op, gemini.ErrorHandler)
	if err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, model.NewProviderError(ChannelName, 0, "video job has no operation name", "empty_operation")
	}
	logger.Infof(ctx, "[Veo] submitted video job %s", op.Name)
	return toJob(&op), nil
}

// GetVideoResult implements channel.VideoAdaptor.
func (a *Adaptor) GetVideoResult(ctx context.Context, jobName string) (*model.VideoJob, error) {
	fullRequestURL := fmt.Sprintf("%s/%s", a.baseURL(), strings.TrimLeft(jobName, "/"))
	var op Operation
	err := channel.DoRequestHelper(ctx, a.Client, http.MethodGet, fullRequestURL,
		map[string]string{"x-goog-api-key": a.key()}, nil, &op, gemini.ErrorHandler)
	if err != nil {
		return nil, err
	}
	if op.Name == "" {
		op.Name = jobName
	}
	return toJob(&op), nil
}

// DownloadURL 下载链接有时效，需附带 key 才能拉取
func (a *Adaptor) DownloadURL(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	q := u.Query()
	q.Set("key", a.key())
	u.RawQuery = q.Encode()
	return u.String()
}
