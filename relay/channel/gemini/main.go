package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/relay/model"
)

type ChatResponse struct {
	Candidates     []ChatCandidate    `json:"candidates"`
	PromptFeedback ChatPromptFeedback `json:"promptFeedback"`
	UsageMetadata  *UsageMetadata     `json:"usageMetadata,omitempty"`
	ModelVersion   string             `json:"modelVersion,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type ChatCandidate struct {
	Content      ChatContent `json:"content"`
	FinishReason string      `json:"finishReason"`
	Index        int64       `json:"index"`
}

type ChatPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Text concatenates the non-thought text parts of the first candidate.
func (r *ChatResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// FirstInlineData 返回第一个候选中第一段内联数据
func (r *ChatResponse) FirstInlineData() *InlineData {
	if len(r.Candidates) == 0 {
		return nil
	}
	for _, part := range r.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData
		}
	}
	return nil
}

func (r *ChatResponse) blockedError() error {
	if r.PromptFeedback.BlockReason != "" {
		return model.NewProviderError(ChannelName, 0, "prompt blocked: "+r.PromptFeedback.BlockReason, "prompt_blocked")
	}
	if len(r.Candidates) > 0 && r.Candidates[0].FinishReason != "" && r.Candidates[0].FinishReason != "STOP" {
		return model.NewProviderError(ChannelName, 0, "generation stopped: "+r.Candidates[0].FinishReason, "finish_reason")
	}
	return nil
}

// ErrorHandler keeps the provider message verbatim so credential signatures survive.
func ErrorHandler(resp *http.Response, body []byte) *model.ProviderError {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return model.NewProviderError(ChannelName, resp.StatusCode, errResp.Error.Message, errResp.Error.Status)
	}
	return model.NewProviderError(ChannelName, resp.StatusCode, fmt.Sprintf("API Request failed with status %d", resp.StatusCode), "bad_response_status_code")
}
