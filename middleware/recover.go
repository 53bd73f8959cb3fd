package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/gin-gonic/gin"
)

func PanicRecover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.SysError(fmt.Sprintf("panic detected: %v", err))
				logger.SysError(fmt.Sprintf("stacktrace from panic: %s", string(debug.Stack())))
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": helper.MessageWithRequestId(fmt.Sprintf("Panic detected, error: %v", err), c.GetString(logger.RequestIdKey)),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
