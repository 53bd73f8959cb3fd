package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdaptor(server *httptest.Server) *Adaptor {
	return &Adaptor{BaseURL: server.URL, Token: "tok", ImageCount: 2, Client: server.Client()}
}

func TestGenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var req GenerateRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, GenerateRequest{Prompt: "pantai", AspectRatio: "9:16", ImageCount: 2}, req)
		_, _ = w.Write([]byte(`{"images":["https://img/1.png","https://img/2.png"]}`))
	}))
	defer server.Close()

	result, err := newTestAdaptor(server).GenerateImage(context.Background(), &model.ImageRequest{Prompt: "pantai"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/1.png", "https://img/2.png"}, result.Images)
}

func TestGenerateImageResultsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":["https://img/r.png"]}`))
	}))
	defer server.Close()

	result, err := newTestAdaptor(server).GenerateImage(context.Background(), &model.ImageRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/r.png"}, result.Images)
}

func TestGenerateImageEmptyBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	result, err := newTestAdaptor(server).GenerateImage(context.Background(), &model.ImageRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Empty(t, result.Images)
}

func TestGenerateImageErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"provider message", `{"message":"session expired"}`, "session expired"},
		{"no message", `not json`, "API Request failed with status 401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestAdaptor(server).GenerateImage(context.Background(), &model.ImageRequest{Prompt: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
