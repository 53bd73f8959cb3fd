package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ezlinkai/campaign-studio/animatic"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/service"
	"github.com/gin-gonic/gin"
)

var studio *service.Studio

// InitStudio sets the studio served by every handler.
func InitStudio(s *service.Studio) {
	studio = s
}

func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), err.Error())
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": helper.MessageWithRequestId(message, c.GetString(logger.RequestIdKey)),
	})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error())
	case errors.Is(err, service.ErrEmptyScript):
		return http.StatusBadRequest, service.MessageEmptyScript
	case errors.Is(err, service.ErrCredentialInvalid):
		return http.StatusUnauthorized, service.MessageReauthRequired
	case errors.Is(err, service.ErrVideoBusy):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrShotNotRenderable), errors.Is(err, animatic.ErrNothingToPlay):
		return http.StatusConflict, err.Error()
	case errors.Is(err, model.ErrShotNotFound), errors.Is(err, service.ErrNoPlayer):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrExportDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, animatic.ErrPlayerClosed), errors.Is(err, model.ErrStaleRun):
		return http.StatusGone, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func shotIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid shot index",
		})
		return 0, false
	}
	return index, true
}
