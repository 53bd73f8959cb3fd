package middleware

import (
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/gin-gonic/gin"
	cors "github.com/rs/cors/wrapper/gin"
)

// studioExposedHeaders lets the browser read download names and the
// narration length on cross-origin fetches.
var studioExposedHeaders = []string{"Content-Disposition", "X-Narration-Duration", logger.RequestIdKey}

// AllowedOrigin reports whether origin may call the studio API. An empty
// list allows every origin.
func AllowedOrigin(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	origin = strings.TrimSuffix(strings.ToLower(origin), "/")
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func parseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func CORS() gin.HandlerFunc {
	allowed := parseOrigins(config.CorsOrigins)
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return AllowedOrigin(allowed, origin)
		},
		// the bridge token lives in the session cookie
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   studioExposedHeaders,
	}
	return cors.New(options)
}
