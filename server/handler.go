package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	watermark "github.com/clearframe/wmrestore"
	"github.com/clearframe/wmrestore/config"
)

// RestoreResponse is the JSON payload for a processed upload. Data carries
// the restored image as base64 PNG; the box fields report the watermark
// rectangle that was reverse-blended.
type RestoreResponse struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
	Variant  string `json:"variant"`
	BoxX     int    `json:"box_x"`
	BoxY     int    `json:"box_y"`
	BoxW     int    `json:"box_w"`
	BoxH     int    `json:"box_h"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RestoreHandler serves the restoration endpoints over a shared engine.
type RestoreHandler struct {
	cfg *config.Config
	log *zap.Logger
	eng *watermark.Engine
}

func NewRestoreHandler(cfg *config.Config, log *zap.Logger, eng *watermark.Engine) *RestoreHandler {
	return &RestoreHandler{cfg: cfg, log: log, eng: eng}
}

// Restore handles POST /api/v1/restore: multipart "image" file plus a
// "variant" form field.
func (h *RestoreHandler) Restore(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing image file"})
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("file exceeds size limit (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	if contentType := file.Header.Get("Content-Type"); !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported file type"})
		return
	}

	variant, err := watermark.ParseVariant(c.DefaultPostForm("variant", "gemini"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to open upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read upload"})
		return
	}

	img, format, err := watermark.DecodeImageBytes(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "decode failed: " + err.Error()})
		return
	}

	restored, err := h.eng.RestoreImage(img, variant)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, watermark.ErrRegionOutOfBounds) || errors.Is(err, watermark.ErrUnsupportedVariant) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	bounds := img.Bounds()
	info, err := h.eng.Region(bounds.Dx(), bounds.Dy(), variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	encoded, err := watermark.EncodePNGToBase64(restored)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "encode failed: " + err.Error()})
		return
	}

	h.log.Info("restored upload",
		zap.String("filename", file.Filename),
		zap.String("format", format),
		zap.Stringer("variant", variant),
		zap.Stringer("box", info.Position))

	c.JSON(http.StatusOK, RestoreResponse{
		Filename: restoredFilename(file.Filename),
		Data:     encoded,
		Variant:  variant.String(),
		BoxX:     info.Position.Min.X,
		BoxY:     info.Position.Min.Y,
		BoxW:     info.Position.Dx(),
		BoxH:     info.Position.Dy(),
	})
}

// Region handles GET /api/v1/region?width=&height=&variant= without touching
// any pixels, so clients can pre-flight whether an image is large enough.
func (h *RestoreHandler) Region(c *gin.Context) {
	width, err := strconv.Atoi(c.Query("width"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid width"})
		return
	}
	height, err := strconv.Atoi(c.Query("height"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid height"})
		return
	}

	variant, err := watermark.ParseVariant(c.DefaultQuery("variant", "gemini"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	info, err := h.eng.Region(width, height, variant)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, watermark.ErrRegionOutOfBounds) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant": variant.String(),
		"box_x":   info.Position.Min.X,
		"box_y":   info.Position.Min.Y,
		"box_w":   info.Position.Dx(),
		"box_h":   info.Position.Dy(),
	})
}

// Variants handles GET /api/v1/variants.
func (h *RestoreHandler) Variants(c *gin.Context) {
	names := make([]string, 0, len(watermark.Variants()))
	for _, v := range watermark.Variants() {
		names = append(names, v.String())
	}
	c.JSON(http.StatusOK, gin.H{"variants": names})
}

func (h *RestoreHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func restoredFilename(original string) string {
	ext := filepath.Ext(original)
	return strings.TrimSuffix(original, ext) + "_restored.png"
}
