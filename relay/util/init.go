package util

import (
	"net/http"
	"time"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
)

// HTTPClient talks to the generation providers; no timeout unless RELAY_TIMEOUT is set
// since planning and image calls can take minutes.
var HTTPClient *http.Client

// UserContentClient fetches user or bridge supplied image URLs.
var UserContentClient *http.Client

var ImpatientHTTPClient *http.Client

func init() {
	HTTPClient = newClient(config.RelayProxy, time.Duration(config.RelayTimeout)*time.Second)
	UserContentClient = newClient(config.UserContentRequestProxy, time.Duration(config.UserContentRequestTimeout)*time.Second)
	ImpatientHTTPClient = &http.Client{
		Timeout: 5 * time.Second,
	}
}

func newClient(proxyURL string, timeout time.Duration) *http.Client {
	if proxyURL == "" {
		return &http.Client{Timeout: timeout}
	}
	client, err := NewProxyHttpClient(proxyURL, timeout)
	if err != nil {
		logger.SysError("invalid proxy url, falling back to direct connection: " + err.Error())
		return &http.Client{Timeout: timeout}
	}
	return client
}
