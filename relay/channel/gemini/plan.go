package gemini

import (
	"context"

	"github.com/ezlinkai/campaign-studio/relay/model"
)

func stringSchema() *Schema {
	return &Schema{Type: "STRING"}
}

func stringArraySchema() *Schema {
	return &Schema{Type: "ARRAY", Items: stringSchema()}
}

// planResponseSchema mirrors model.CreativePlan.
func planResponseSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"tiktokScript":        stringSchema(),
			"shotPrompts":         stringArraySchema(),
			"shotScripts":         stringArraySchema(),
			"consistency_profile": stringSchema(),
			"tiktokMetadata": {
				Type: "OBJECT",
				Properties: map[string]*Schema{
					"description": stringSchema(),
					"keywords":    stringArraySchema(),
				},
			},
			"platformPrompts": {
				Type: "ARRAY",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"dreamina": stringSchema(),
						"grok":     stringSchema(),
						"meta":     stringSchema(),
					},
				},
			},
		},
		Required: []string{"tiktokScript", "shotPrompts", "shotScripts", "consistency_profile"},
	}
}

func ConvertPlanRequest(request *model.PlanRequest) *ChatRequest {
	req := &ChatRequest{
		Contents: []ChatContent{textContent(request.UserQuery)},
		GenerationConfig: ChatGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   planResponseSchema(),
		},
	}
	if request.SystemInstruction != "" {
		req.SystemInstruction = &SystemInstruction{Parts: []Part{{Text: request.SystemInstruction}}}
	}
	if request.UseGoogleSearch {
		req.Tools = []ChatTools{{GoogleSearch: &struct{}{}}}
	}
	return req
}

// CreatePlan implements channel.PlanningAdaptor.
func (a *Adaptor) CreatePlan(ctx context.Context, request *model.PlanRequest) (string, error) {
	modelName := request.Model
	if modelName == "" {
		modelName = a.PlanningModel
	}
	response, err := a.generateContent(ctx, modelName, ConvertPlanRequest(request))
	if err != nil {
		return "", err
	}
	return response.Text(), nil
}
