package http

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "golang.org/x/image/webp"

	"github.com/misrentas/misrentas-backend/internal/repository/ports"
	"github.com/misrentas/misrentas-backend/internal/service"
	"github.com/misrentas/misrentas-backend/internal/util"
)

const mediaUploadMaxBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaHandler uploads form media to object storage and returns the public
// URL for the draft's media list. Pasting external URLs directly into the
// form stays fully supported; this is a convenience on top.
type MediaHandler struct {
	storage ports.ObjectStorage
	bucket  string
}

func RegisterMedia(e *echo.Echo, sessions *service.SessionService, storage ports.ObjectStorage, bucket string) {
	handler := &MediaHandler{storage: storage, bucket: bucket}
	admin := e.Group("/api/v1/admin", RequireSession(sessions), RequireAdmin())
	admin.POST("/media", handler.upload)
}

func (h *MediaHandler) upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("file field is required"))
	}
	if fileHeader.Size > mediaUploadMaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error("file exceeds upload limit"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, mediaUploadMaxBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	if len(data) > mediaUploadMaxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error("file exceeds upload limit"))
	}

	contentType, ext, err := classifyMedia(data, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusUnsupportedMediaType, util.Error(err.Error()))
	}

	objectName := fmt.Sprintf("listings/%s%s", uuid.New(), ext)
	url, err := h.storage.Upload(c.Request().Context(), h.bucket, objectName, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return c.JSON(http.StatusBadGateway, util.Error("upload failed"))
	}

	return c.JSON(http.StatusCreated, util.Data("url", url))
}

// classifyMedia sniffs the payload and returns the content type and object
// extension. Images must actually decode; mp4 video is passed through on the
// strength of its signature.
func classifyMedia(data []byte, filename string) (string, string, error) {
	sniffed := http.DetectContentType(data)

	if sniffed == "video/mp4" || strings.EqualFold(filepath.Ext(filename), ".mp4") && strings.HasPrefix(sniffed, "application/") {
		return "video/mp4", ".mp4", nil
	}

	ext, ok := allowedImageTypes[sniffed]
	if !ok {
		return "", "", fmt.Errorf("unsupported media type %s", sniffed)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", "", fmt.Errorf("file is not a valid image")
	}
	return sniffed, ext, nil
}
