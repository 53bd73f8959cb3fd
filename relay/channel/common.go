package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/relay/model"
)

// ErrorHandler turns a non-2xx response into a provider error.
type ErrorHandler func(resp *http.Response, body []byte) *model.ProviderError

// DoRequestHelper sends a JSON request and decodes a 2xx JSON response into out.
func DoRequestHelper(ctx context.Context, client *http.Client, method string, url string, headers map[string]string, payload any, out any, onError ErrorHandler) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("new request failed: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := DoRequest(client, req)
	if err != nil {
		return fmt.Errorf("do request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if config.DebugEnabled {
		logger.Debugf(ctx, "%s %s -> %d (%d bytes)", method, req.URL.Path, resp.StatusCode, len(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if onError != nil {
			if pe := onError(resp, respBody); pe != nil {
				return pe
			}
		}
		return model.NewProviderError("", resp.StatusCode, fmt.Sprintf("API Request failed with status %d", resp.StatusCode), "bad_response_status_code")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}

func DoRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("resp is nil")
	}
	return resp, nil
}
