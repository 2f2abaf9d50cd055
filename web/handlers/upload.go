package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

// UploadPhoto stores a single check-in photo and returns its object key.
// The key goes back to the client, which passes it in the check-in body.
func (ep *Endpoint) UploadPhoto(c *gin.Context) {
	if ep.photos == nil {
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("photo storage not configured"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("missing file"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("only jpg and png photos are accepted"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	key, err := ep.photos.Save(c.Request.Context(), common.Tenant(c), file.Filename, contentType, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"key": key}))
}

// ListPhotos returns the object keys of every photo stored for the tenant.
func (ep *Endpoint) ListPhotos(c *gin.Context) {
	if ep.photos == nil {
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("photo storage not configured"))
		return
	}

	keys, err := ep.photos.ListFiles(c.Request.Context(), common.Tenant(c)+"/")
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"keys": keys}))
}

// GetPhoto streams a stored photo back to the caller. Keys are scoped by
// tenant prefix, so a request cannot reach into another tenant's objects.
func (ep *Endpoint) GetPhoto(c *gin.Context) {
	if ep.photos == nil {
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("photo storage not configured"))
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || !strings.HasPrefix(key, common.Tenant(c)+"/") {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("photo not found"))
		return
	}

	c.Header("Content-Type", "image/jpeg")
	if err := ep.photos.Read(c.Request.Context(), key, c.Writer); err != nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("photo not found"))
	}
}
