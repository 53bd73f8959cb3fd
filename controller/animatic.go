package controller

import (
	"net/http"
	"os"

	"github.com/ezlinkai/campaign-studio/animatic"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/gin-gonic/gin"
)

func playerState(c *gin.Context, state animatic.State) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    state,
	})
}

func OpenAnimatic(c *gin.Context) {
	player, err := studio.OpenPlayer()
	if err != nil {
		respondError(c, err)
		return
	}
	playerState(c, player.State())
}

func GetAnimatic(c *gin.Context) {
	player, err := studio.Player()
	if err != nil {
		respondError(c, err)
		return
	}
	playerState(c, player.State())
}

func CloseAnimatic(c *gin.Context) {
	studio.ClosePlayer()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

// ControlAnimatic applies play, pause, toggle or restart to the open player.
func ControlAnimatic(c *gin.Context) {
	player, err := studio.Player()
	if err != nil {
		respondError(c, err)
		return
	}
	switch c.Param("action") {
	case "play":
		err = player.Play()
	case "pause":
		player.Pause()
	case "toggle":
		err = player.Toggle()
	case "restart":
		player.Restart()
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "unknown animatic action: " + c.Param("action"),
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	playerState(c, player.State())
}

// RenderAnimatic exports the animatic as MP4 and streams the file back.
func RenderAnimatic(c *gin.Context) {
	path, err := studio.RenderAnimatic(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.Warn(c.Request.Context(), "remove animatic file failed: "+err.Error())
		}
	}()
	c.FileAttachment(path, "campaign_animatic.mp4")
}
