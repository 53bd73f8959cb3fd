package gemini

import (
	"context"

	"github.com/ezlinkai/campaign-studio/common/image"
	"github.com/ezlinkai/campaign-studio/composer"
	"github.com/ezlinkai/campaign-studio/relay/model"
)

const maxReferenceImages = 2

func ConvertImageRequest(request *model.ImageRequest) *ChatRequest {
	parts := []Part{{Text: composer.ImagePrompt(request.StyleId, request.ConsistencyProfile, request.Prompt)}}
	for i, ref := range request.References {
		if i >= maxReferenceImages {
			break
		}
		parts = append(parts, Part{InlineData: &InlineData{MimeType: ref.MimeType, Data: ref.Data}})
	}
	req := &ChatRequest{
		Contents: []ChatContent{{Role: "user", Parts: parts}},
	}
	if request.HighQuality {
		aspect := request.AspectRatio
		if aspect == "" {
			aspect = "9:16"
		}
		req.GenerationConfig.ImageConfig = &ImageConfig{AspectRatio: aspect, ImageSize: hqImageSize}
	}
	return req
}

// GenerateImage implements channel.ImageAdaptor. The result is a data URL.
func (a *Adaptor) GenerateImage(ctx context.Context, request *model.ImageRequest) (*model.ImageResult, error) {
	modelName := a.ImageModelFast
	if request.HighQuality {
		modelName = a.ImageModelHQ
	}
	response, err := a.generateContent(ctx, modelName, ConvertImageRequest(request))
	if err != nil {
		return nil, err
	}
	data := response.FirstInlineData()
	if data == nil {
		return nil, model.NewProviderError(ChannelName, 0, "Gagal render gambar.", "empty_image")
	}
	return &model.ImageResult{
		Images: []string{image.ToDataURL(data.MimeType, data.Data)},
		Model:  modelName,
	}, nil
}
