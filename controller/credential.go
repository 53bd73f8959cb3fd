package controller

import (
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/middleware"
	"github.com/ezlinkai/campaign-studio/monitor"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type credentialRequest struct {
	Key string `json:"key"`
}

// UpdateCredential replaces the primary provider key, the re-authentication
// step after a run stopped on a rejected key.
func UpdateCredential(c *gin.Context) {
	req := credentialRequest{}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Key) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "API key 不能为空",
		})
		return
	}
	studio.Credentials.Set(req.Key)
	logger.SysLog("primary provider key replaced")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    monitor.Health(),
	})
}

type bridgeTokenRequest struct {
	Token string `json:"token"`
}

// SetBridgeToken keeps the bridge credential in the caller's session only.
func SetBridgeToken(c *gin.Context) {
	req := bridgeTokenRequest{}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "token 不能为空",
		})
		return
	}
	session := sessions.Default(c)
	session.Set(middleware.SessionBridgeToken, strings.TrimSpace(req.Token))
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

func ClearBridgeToken(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionBridgeToken)
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}
