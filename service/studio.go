package service

import (
	"net/http"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/relay/channel"
	"github.com/ezlinkai/campaign-studio/relay/channel/bridge"
	"github.com/ezlinkai/campaign-studio/relay/channel/gemini"
	"github.com/ezlinkai/campaign-studio/relay/channel/veo"
	"github.com/ezlinkai/campaign-studio/relay/util"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Studio wires the campaign store to the provider adaptors.
type Studio struct {
	Store       *model.CampaignStore
	Credentials *Credentials

	Planner  channel.PlanningAdaptor
	Primary  channel.ImageAdaptor
	Narrator channel.NarrationAdaptor
	Video    channel.VideoAdaptor
	// Bridge builds the token-authenticated image adaptor for a session token.
	Bridge func(token string) channel.ImageAdaptor

	// ImageClient fetches remote image references (bridge results).
	ImageClient *http.Client

	VideoPollInterval   time.Duration
	VideoStatusInterval time.Duration

	players playerSlot
}

func NewStudio(store *model.CampaignStore, credentials *Credentials) *Studio {
	g := gemini.NewAdaptor(credentials.Key)
	return &Studio{
		Store:       store,
		Credentials: credentials,
		Planner:     g,
		Primary:     g,
		Narrator:    g,
		Video:       veo.NewAdaptor(credentials.Key),
		Bridge: func(token string) channel.ImageAdaptor {
			return bridge.NewAdaptor(token)
		},
		ImageClient:         util.UserContentClient,
		VideoPollInterval:   config.VideoPollInterval,
		VideoStatusInterval: config.VideoStatusInterval,
	}
}
