package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ezlinkai/campaign-studio/animatic"
	"github.com/ezlinkai/campaign-studio/model"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"
	"github.com/ezlinkai/campaign-studio/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const twoShotPlan = `{"tiktokScript":"Halo semua","shotPrompts":["p1","p2"],"shotScripts":["baris satu","baris dua"],"tiktokMetadata":{"description":"Glow Up","keywords":["serum"]},"consistency_profile":"wanita berhijab"}`

type stubPlanner struct{}

func (stubPlanner) CreatePlan(ctx context.Context, request *relaymodel.PlanRequest) (string, error) {
	return twoShotPlan, nil
}

func (stubPlanner) GetChannelName() string { return "stub-planner" }

type stubImager struct {
	mu    sync.Mutex
	calls int
}

func (s *stubImager) GenerateImage(ctx context.Context, request *relaymodel.ImageRequest) (*relaymodel.ImageResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return &relaymodel.ImageResult{Images: []string{"data:image/png;base64," + pngPixel}}, nil
}

func (s *stubImager) GetChannelName() string { return "stub-image" }

type stubNarrator struct{}

func (stubNarrator) Synthesize(ctx context.Context, request *relaymodel.SpeechRequest) (*relaymodel.SpeechResult, error) {
	return &relaymodel.SpeechResult{PCM: make([]byte, 4800), SampleRate: 24000, Channels: 1}, nil
}

func (stubNarrator) GetChannelName() string { return "stub-tts" }

func newTestEngine(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &service.Studio{
		Store:               model.NewCampaignStore(),
		Credentials:         service.NewCredentials("AIzaSyTestKey00000000"),
		Planner:             stubPlanner{},
		Primary:             &stubImager{},
		Narrator:            stubNarrator{},
		VideoPollInterval:   time.Millisecond,
		VideoStatusInterval: time.Millisecond,
	}
	InitStudio(s)
	t.Cleanup(s.ClosePlayer)

	engine := gin.New()
	engine.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	api := engine.Group("/api")
	api.GET("/status", GetStatus)
	api.POST("/bridge/token", SetBridgeToken)
	api.DELETE("/bridge/token", ClearBridgeToken)
	api.POST("/credential", UpdateCredential)
	api.GET("/campaign", GetCampaign)
	api.POST("/campaign/generate", GenerateCampaign)
	api.DELETE("/campaign", DiscardCampaign)
	api.PUT("/campaign/script", UpdateScript)
	api.DELETE("/campaign/error", DismissError)
	api.GET("/campaign/shots/:index/prompts/:platform", GetShotPrompt)
	api.POST("/campaign/narration", GenerateNarration)
	api.GET("/campaign/narration", GetNarrationAudio)
	api.GET("/campaign/export/script", ExportScript)
	api.POST("/animatic", OpenAnimatic)
	api.GET("/animatic", GetAnimatic)
	api.DELETE("/animatic", CloseAnimatic)
	api.POST("/animatic/:action", ControlAnimatic)
	return engine
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, engine *gin.Engine, method string, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

type snapshotView struct {
	Run    uint64 `json:"run"`
	Phase  string `json:"phase"`
	Script string `json:"script"`
	Error  string `json:"error"`
	Shots  []struct {
		ShotNumber int    `json:"shot_number"`
		Status     string `json:"status"`
	} `json:"shots"`
}

func snapshot(t *testing.T, engine *gin.Engine) snapshotView {
	w := doRequest(t, engine, http.MethodGet, "/api/campaign", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view snapshotView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	return view
}

func validBrief() map[string]any {
	return map[string]any{
		"topic":         "Serum wajah",
		"style":         "ugc",
		"language":      "Indonesian",
		"product_image": map[string]string{"data": pngPixel, "mime_type": "image/png"},
		"model_prompt":  "wanita 25 tahun berhijab",
	}
}

func generateAndWait(t *testing.T, engine *gin.Engine) {
	w := doRequest(t, engine, http.MethodPost, "/api/campaign/generate", validBrief())
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Eventually(t, func() bool {
		return snapshot(t, engine).Phase == string(model.PhaseDone)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", pkgerrors.Wrap(service.ErrValidation, service.MessageMissingProduct), http.StatusBadRequest, service.MessageMissingProduct},
		{"empty script", service.ErrEmptyScript, http.StatusBadRequest, service.MessageEmptyScript},
		{"credential", pkgerrors.Wrap(service.ErrCredentialInvalid, "entity not found"), http.StatusUnauthorized, service.MessageReauthRequired},
		{"video busy", service.ErrVideoBusy, http.StatusConflict, ""},
		{"nothing to play", animatic.ErrNothingToPlay, http.StatusConflict, ""},
		{"shot not found", model.ErrShotNotFound, http.StatusNotFound, ""},
		{"no player", service.ErrNoPlayer, http.StatusNotFound, ""},
		{"export disabled", service.ErrExportDisabled, http.StatusServiceUnavailable, ""},
		{"stale run", model.ErrStaleRun, http.StatusGone, ""},
		{"other", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			if tt.message != "" {
				assert.Equal(t, tt.message, message)
			}
		})
	}
}

func TestGenerateCampaignRendersShots(t *testing.T) {
	engine := newTestEngine(t)
	generateAndWait(t, engine)

	view := snapshot(t, engine)
	require.Len(t, view.Shots, 2)
	for i, shot := range view.Shots {
		assert.Equal(t, i+1, shot.ShotNumber)
		assert.Equal(t, "success", shot.Status)
	}
	assert.Empty(t, view.Error)
}

func TestGenerateRejectsInvalidBrief(t *testing.T) {
	engine := newTestEngine(t)
	brief := validBrief()
	delete(brief, "product_image")

	w := doRequest(t, engine, http.MethodPost, "/api/campaign/generate", brief)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, service.MessageMissingProduct)
	assert.Equal(t, string(model.PhaseIdle), snapshot(t, engine).Phase)
}

func TestNarrationRequiresScript(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodPost, "/api/campaign/narration", map[string]string{"voice": "Puck"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Message, service.MessageEmptyScript)

	w = doRequest(t, engine, http.MethodGet, "/api/campaign/narration", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNarrationIsServedAsWav(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodPut, "/api/campaign/script", map[string]string{"script": "Halo semua, ini serum favoritku."})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/campaign/narration", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, engine, http.MethodGet, "/api/campaign/narration", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("RIFF")))
}

func TestExportScriptUsesTitle(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodGet, "/api/campaign/export/script", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	generateAndWait(t, engine)
	w = doRequest(t, engine, http.MethodGet, "/api/campaign/export/script", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "_script.txt")
	assert.NotEmpty(t, w.Body.String())
}

func TestShotPromptLookup(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodGet, "/api/campaign/shots/0/prompts/dreamina", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	generateAndWait(t, engine)
	w = doRequest(t, engine, http.MethodGet, "/api/campaign/shots/x/prompts/dreamina", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(t, engine, http.MethodGet, "/api/campaign/shots/0/prompts/sora", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/campaign/shots/0/prompts/grok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Platform string `json:"platform"`
		Prompt   string `json:"prompt"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "grok", data.Platform)
	assert.NotEmpty(t, data.Prompt)
}

func TestDiscardClearsCampaign(t *testing.T) {
	engine := newTestEngine(t)
	generateAndWait(t, engine)
	before := snapshot(t, engine).Run

	w := doRequest(t, engine, http.MethodDelete, "/api/campaign", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := snapshot(t, engine)
	assert.Greater(t, view.Run, before)
	assert.Empty(t, view.Shots)
	assert.Empty(t, view.Script)
}

func TestAnimaticControls(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodPost, "/api/animatic", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doRequest(t, engine, http.MethodGet, "/api/animatic", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	generateAndWait(t, engine)
	w = doRequest(t, engine, http.MethodPost, "/api/animatic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state animatic.State
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &state))
	assert.Equal(t, 2, state.Shots)
	assert.Equal(t, animatic.ModeTimer, state.Mode)

	w = doRequest(t, engine, http.MethodPost, "/api/animatic/play", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &state))
	assert.True(t, state.Playing)

	w = doRequest(t, engine, http.MethodPost, "/api/animatic/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &state))
	assert.False(t, state.Playing)

	w = doRequest(t, engine, http.MethodPost, "/api/animatic/rewind", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodDelete, "/api/animatic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, engine, http.MethodGet, "/api/animatic", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBridgeTokenLivesInSession(t *testing.T) {
	engine := newTestEngine(t)
	w := doRequest(t, engine, http.MethodPost, "/api/bridge/token", map[string]string{"token": "  bridge-123  "})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = doRequest(t, engine, http.MethodGet, "/api/status", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"bridge_session":true`))

	w = doRequest(t, engine, http.MethodGet, "/api/status", nil)
	assert.True(t, strings.Contains(w.Body.String(), `"bridge_session":false`))

	w = doRequest(t, engine, http.MethodPost, "/api/bridge/token", map[string]string{"token": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCredentialClearsAuthRequired(t *testing.T) {
	engine := newTestEngine(t)
	studio.Credentials.Invalidate("stub", "Requested entity was not found.")
	assert.True(t, studio.Credentials.AuthRequired())

	w := doRequest(t, engine, http.MethodPost, "/api/credential", map[string]string{"key": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/credential", map[string]string{"key": "AIzaSyNewKey111111111"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, studio.Credentials.AuthRequired())
	assert.Equal(t, "AIzaSyNewKey111111111", studio.Credentials.Key())
}
