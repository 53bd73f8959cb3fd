package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	"github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/ezlinkai/campaign-studio/relay/util"
)

// Adaptor talks to the Gemini generateContent API. One value serves planning,
// image and narration requests.
type Adaptor struct {
	BaseURL string
	Version string
	Key     channel.KeyFunc
	Client  *http.Client

	PlanningModel  string
	ImageModelFast string
	ImageModelHQ   string
	NarrationModel string
}

func NewAdaptor(key channel.KeyFunc) *Adaptor {
	return &Adaptor{
		BaseURL:        config.GeminiBaseURL,
		Version:        config.GeminiVersion,
		Key:            key,
		Client:         util.HTTPClient,
		PlanningModel:  config.PlanningModel,
		ImageModelFast: config.ImageModelFast,
		ImageModelHQ:   config.ImageModelHQ,
		NarrationModel: config.NarrationModel,
	}
}

func (a *Adaptor) GetChannelName() string {
	return ChannelName
}

func (a *Adaptor) GetModelList() []string {
	return ModelList
}

func (a *Adaptor) GetRequestURL(modelName string, action string) string {
	return fmt.Sprintf("%s/%s/models/%s:%s", strings.TrimRight(a.BaseURL, "/"), a.Version, modelName, action)
}

func (a *Adaptor) headers() (map[string]string, error) {
	key := ""
	if a.Key != nil {
		key = a.Key()
	}
	if key == "" {
		return nil, model.NewProviderError(ChannelName, http.StatusUnauthorized, "primary API key is not configured", "missing_api_key")
	}
	return map[string]string{"x-goog-api-key": key}, nil
}

func (a *Adaptor) generateContent(ctx context.Context, modelName string, request *ChatRequest) (*ChatResponse, error) {
	headers, err := a.headers()
	if err != nil {
		return nil, err
	}
	fullRequestURL := a.GetRequestURL(modelName, "generateContent")
	logger.Debugf(ctx, "[Gemini] model: %s, url: %s", modelName, fullRequestURL)

	var response ChatResponse
	err = channel.DoRequestHelper(ctx, a.Client, http.MethodPost, fullRequestURL, headers, request, &response, ErrorHandler)
	if err != nil {
		if _, ok := model.AsProviderError(err); ok {
			return nil, err
		}
		return nil, model.ErrorWrapper(ChannelName, err, "do_request_failed", http.StatusInternalServerError)
	}
	if err := response.blockedError(); err != nil {
		return nil, err
	}
	return &response, nil
}

func textContent(text string) ChatContent {
	return ChatContent{Role: "user", Parts: []Part{{Text: text}}}
}
