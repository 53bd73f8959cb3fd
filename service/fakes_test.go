package service

import (
	"context"
	"sync"
	"time"

	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	relaymodel "github.com/ezlinkai/campaign-studio/relay/model"
)

const pngPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const pngDataURL = "data:image/png;base64," + pngPixel

type fakePlanner struct {
	body  string
	err   error
	calls int
}

func (f *fakePlanner) CreatePlan(ctx context.Context, request *relaymodel.PlanRequest) (string, error) {
	f.calls++
	return f.body, f.err
}

func (f *fakePlanner) GetChannelName() string { return "fake-planner" }

type fakeImager struct {
	mu       sync.Mutex
	name     string
	respond  func(call int, request *relaymodel.ImageRequest) (*relaymodel.ImageResult, error)
	requests []*relaymodel.ImageRequest
}

func (f *fakeImager) GenerateImage(ctx context.Context, request *relaymodel.ImageRequest) (*relaymodel.ImageResult, error) {
	f.mu.Lock()
	call := len(f.requests)
	f.requests = append(f.requests, request)
	f.mu.Unlock()
	if f.respond == nil {
		return &relaymodel.ImageResult{Images: []string{pngDataURL}}, nil
	}
	return f.respond(call, request)
}

func (f *fakeImager) GetChannelName() string {
	if f.name == "" {
		return "fake-image"
	}
	return f.name
}

func (f *fakeImager) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeNarrator struct {
	result *relaymodel.SpeechResult
	err    error
	calls  int
	last   *relaymodel.SpeechRequest
}

func (f *fakeNarrator) Synthesize(ctx context.Context, request *relaymodel.SpeechRequest) (*relaymodel.SpeechResult, error) {
	f.calls++
	f.last = request
	return f.result, f.err
}

func (f *fakeNarrator) GetChannelName() string { return "fake-tts" }

type fakeVideo struct {
	mu        sync.Mutex
	pollsLeft int
	failWith  string
	submitted *relaymodel.VideoRequest
	polls     int
}

func (f *fakeVideo) SubmitVideo(ctx context.Context, request *relaymodel.VideoRequest) (*relaymodel.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = request
	return &relaymodel.VideoJob{Name: "operations/1", CreatedAt: time.Now()}, nil
}

func (f *fakeVideo) GetVideoResult(ctx context.Context, jobName string) (*relaymodel.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.polls < f.pollsLeft {
		return &relaymodel.VideoJob{Name: jobName}, nil
	}
	if f.failWith != "" {
		return &relaymodel.VideoJob{Name: jobName, Done: true, Error: f.failWith}, nil
	}
	return &relaymodel.VideoJob{Name: jobName, Done: true, VideoURI: "https://video/1"}, nil
}

func (f *fakeVideo) DownloadURL(uri string) string { return uri + "?key=k" }

func (f *fakeVideo) GetChannelName() string { return "fake-video" }

type fakes struct {
	planner  *fakePlanner
	primary  *fakeImager
	bridge   *fakeImager
	narrator *fakeNarrator
	video    *fakeVideo
}

func newTestStudio(planBody string) (*Studio, *fakes) {
	f := &fakes{
		planner:  &fakePlanner{body: planBody},
		primary:  &fakeImager{},
		bridge:   &fakeImager{name: "fake-bridge"},
		narrator: &fakeNarrator{},
		video:    &fakeVideo{pollsLeft: 2},
	}
	s := &Studio{
		Store:       model.NewCampaignStore(),
		Credentials: NewCredentials("AIzaSyTestKey00000000"),
		Planner:     f.planner,
		Primary:     f.primary,
		Narrator:    f.narrator,
		Video:       f.video,
		Bridge: func(token string) channel.ImageAdaptor {
			return f.bridge
		},
		VideoPollInterval:   time.Millisecond,
		VideoStatusInterval: time.Millisecond,
	}
	return s, f
}

func testBrief() *model.CampaignBrief {
	return &model.CampaignBrief{
		Topic:        "Serum wajah",
		Style:        "ugc",
		Language:     "Indonesian",
		ProductImage: &model.FileData{Data: pngPixel, MimeType: "image/png"},
		ModelPrompt:  "wanita 25 tahun berhijab",
	}
}

const fivePlan = `{"tiktokScript":"overall","shotPrompts":["p1","p2","p3","p4","p5"],"shotScripts":["l1","","l3","l4","l5"],"platformPrompts":[{"dreamina":"d1","meta":"m1"}],"tiktokMetadata":{"description":"Glow Up","keywords":["serum","glow"]},"consistency_profile":"wanita berhijab"}`
