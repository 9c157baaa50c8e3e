package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/dazzlo/video-downloader/internal/download"
	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

// Submitter runs one download request to completion.
type Submitter interface {
	Submit(ctx context.Context, url string, removeWatermark bool, rep status.Reporter) download.Result
	DownloadDir() string
}

// DownloadHandler exposes the retrieval pipeline over HTTP.
type DownloadHandler struct {
	svc    Submitter
	logger *slog.Logger
}

// NewDownloadHandler creates the handler.
func NewDownloadHandler(svc Submitter, log *slog.Logger) *DownloadHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DownloadHandler{
		svc:    svc,
		logger: log.With(slog.String("component", "handlers")),
	}
}

// Register implements Handler.
func (h *DownloadHandler) Register(e *echo.Echo) {
	e.POST("/api/download", h.Download)
	e.GET("/file/:name", h.ServeFile)
	e.GET("/health", h.Health)
}

type downloadRequest struct {
	URL             string `json:"url" form:"url"`
	RemoveWatermark bool   `json:"remove_watermark" form:"remove_watermark"`
}

type downloadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Download triggers one retrieval request. The response is always HTTP 200
// with a structured body; failures are expressed through the success flag
// and the message, never as a raw error payload.
func (h *DownloadHandler) Download(c echo.Context) error {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, downloadResponse{
			Success: false,
			Message: "Could not parse the request body",
		})
	}
	if req.URL == "" {
		return c.JSON(http.StatusOK, downloadResponse{
			Success: false,
			Message: "Please provide a URL to download",
		})
	}

	rep := status.NewSlogReporter(h.logger)
	res := h.svc.Submit(c.Request().Context(), req.URL, req.RemoveWatermark, rep)

	resp := downloadResponse{
		Success:  res.Success,
		Message:  res.Message,
		Filename: res.Filename,
		Size:     res.Size,
	}
	if res.Filename != "" {
		resp.FileURL = "/file/" + url.PathEscape(res.Filename)
	}
	return c.JSON(http.StatusOK, resp)
}

// ServeFile serves a published artifact as an attachment. Only base names
// are resolved, so path traversal out of the downloads dir is impossible.
func (h *DownloadHandler) ServeFile(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil || name == "" {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}
	name = filepath.Base(name)

	path := filepath.Join(h.svc.DownloadDir(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	f, err := os.Open(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}
	defer f.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Stream(http.StatusOK, model.MIMETypeFor(name), f)
}

// Health reports liveness and the downloads directory in use.
func (h *DownloadHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "ok",
		"download_dir": h.svc.DownloadDir(),
	})
}
