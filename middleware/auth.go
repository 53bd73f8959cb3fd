package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionAuthorized  = "authorized"
	SessionBridgeToken = "bridge_token"
)

func tokenMatches(provided string) bool {
	provided = strings.TrimPrefix(provided, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(config.AccessToken)) == 1
}

// StudioAuth guards the API with ACCESS_TOKEN. A browser that presented the
// token once keeps access through its session cookie.
func StudioAuth() func(c *gin.Context) {
	return func(c *gin.Context) {
		if config.AccessToken == "" {
			c.Next()
			return
		}
		session := sessions.Default(c)
		if authorized, ok := session.Get(SessionAuthorized).(bool); ok && authorized {
			c.Next()
			return
		}
		accessToken := c.Request.Header.Get("Authorization")
		if accessToken == "" {
			accessToken = c.Query("access_token")
		}
		if accessToken == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized for this operation, no access token provided")
			return
		}
		if !tokenMatches(accessToken) {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized to perform this operation, access token is invalid")
			return
		}
		session.Set(SessionAuthorized, true)
		_ = session.Save()
		c.Next()
	}
}

// BridgeToken returns the bridge credential stored in the caller's session.
func BridgeToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(SessionBridgeToken).(string)
	return token
}
