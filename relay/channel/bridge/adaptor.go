package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	"github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/ezlinkai/campaign-studio/relay/util"
)

const ChannelName = "bridge"

type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	ImageCount  int    `json:"image_count"`
}

// GenerateResponse 图片可能放在 images 或 results 中
type GenerateResponse struct {
	Images  []any `json:"images"`
	Results []any `json:"results"`
}

// Adaptor is the bearer-token image path. The token belongs to the user session.
type Adaptor struct {
	BaseURL    string
	Token      string
	ImageCount int
	Client     *http.Client
}

func NewAdaptor(token string) *Adaptor {
	return &Adaptor{
		BaseURL:    config.BridgeBaseURL,
		Token:      token,
		ImageCount: config.BridgeImageCount,
		Client:     util.HTTPClient,
	}
}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) GetRequestURL() string {
	return strings.TrimRight(a.BaseURL, "/") + "/v1/generate"
}

func ErrorHandler(resp *http.Response, body []byte) *model.ProviderError {
	var errData struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errData); err == nil && errData.Message != "" {
		return model.NewProviderError(ChannelName, resp.StatusCode, errData.Message, "bridge_error")
	}
	return model.NewProviderError(ChannelName, resp.StatusCode, fmt.Sprintf("API Request failed with status %d", resp.StatusCode), "bad_response_status_code")
}

// GenerateImage implements channel.ImageAdaptor; the returned batch may be empty.
func (a *Adaptor) GenerateImage(ctx context.Context, request *model.ImageRequest) (*model.ImageResult, error) {
	aspect := request.AspectRatio
	if aspect == "" {
		aspect = config.AspectRatio
	}
	count := a.ImageCount
	if count <= 0 {
		count = 2
	}
	payload := GenerateRequest{Prompt: request.Prompt, AspectRatio: aspect, ImageCount: count}
	var response GenerateResponse
	err := channel.DoRequestHelper(ctx, a.Client, http.MethodPost, a.GetRequestURL(),
		map[string]string{"Authorization": "Bearer " + a.Token}, payload, &response, ErrorHandler)
	if err != nil {
		return nil, err
	}
	items := response.Images
	if len(items) == 0 {
		items = response.Results
	}
	images := make([]string, 0, len(items))
	for _, item := range items {
		if s := common.EnsureString(item); s != "" {
			images = append(images, s)
		}
	}
	return &model.ImageResult{Images: images, Model: ChannelName}, nil
}
