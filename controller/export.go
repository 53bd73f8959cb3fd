package controller

import (
	"fmt"
	"net/http"

	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/service"
	"github.com/gin-gonic/gin"
)

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

func ExportScript(c *gin.Context) {
	name, body, err := studio.ScriptFile()
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, name)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

func ExportImages(c *gin.Context) {
	data, err := studio.ImagesArchive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, service.ImagesArchiveName)
	c.Data(http.StatusOK, "application/zip", data)
}

// ExportImagesToR2 uploads the images archive and returns a shareable link.
func ExportImagesToR2(c *gin.Context) {
	url, err := studio.UploadArchive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Infof(c.Request.Context(), "campaign archive uploaded: %s", url)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"url": url,
		},
	})
}
