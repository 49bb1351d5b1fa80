package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/jobs"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/processor"
)

//go:embed templates/*.html
var templateFS embed.FS

// multipart parts above this size spill to disk
const formMemory = 32 << 20

// Handler wires HTTP routes to the processor and the job manager.
type Handler struct {
	proc   processor.Processor
	jobs   jobs.Manager
	cfg    *config.Config
	logger logger.Logger
	tmpl   *template.Template
}

// NewHandler constructs a Handler instance.
func NewHandler(proc processor.Processor, manager jobs.Manager, cfg *config.Config, log logger.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Handler{
		proc:   proc,
		jobs:   manager,
		cfg:    cfg,
		logger: log,
		tmpl:   tmpl,
	}, nil
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(h.tmpl)
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)

	// Web UI
	router.GET("/", h.showForm)
	router.POST("/submit", h.limitBody(), h.submitForm)
	router.GET("/jobs/:id", h.showJob)
	router.POST("/jobs/:id/cancel", h.cancelFromPage)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/jobs", h.limitBody(), h.createJob)
		v1.GET("/jobs/:id", h.getJob)
		v1.DELETE("/jobs/:id", h.cancelJob)
		v1.GET("/jobs/:id/summary.docx", h.downloadDocx)
	}
}

// healthCheck returns server health status
func (h *Handler) healthCheck(c *gin.Context) {
	success(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "meetnote",
	})
}

var errMissingFile = errors.New("please choose a .mp4 or .txt file")

// submission is a validated upload form.
type submission struct {
	file *multipart.FileHeader
	req  processor.Request
}

// bindSubmission parses and validates the upload form shared by the web form
// and the JSON API. The returned status is meaningful only when err != nil.
func (h *Handler) bindSubmission(c *gin.Context) (submission, int, error) {
	if err := c.Request.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return submission{}, http.StatusRequestEntityTooLarge,
				fmt.Errorf("file exceeds the %d MB upload limit", h.cfg.Server.MaxUploadMB)
		}
		return submission{}, http.StatusBadRequest, fmt.Errorf("failed to parse form: %w", err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return submission{}, http.StatusBadRequest, errMissingFile
	}

	req := processor.Request{
		Recipient: strings.TrimSpace(c.PostForm("recipient")),
		Sender:    strings.TrimSpace(c.PostForm("sender")),
		Password:  c.PostForm("password"),
	}

	var missing []string
	if req.Recipient == "" {
		missing = append(missing, "recipient email")
	}
	if req.Sender == "" {
		missing = append(missing, "sender email")
	}
	if req.Password == "" {
		missing = append(missing, "app password")
	}
	if len(missing) > 0 {
		return submission{}, http.StatusBadRequest,
			fmt.Errorf("please fill in: %s", strings.Join(missing, ", "))
	}

	return submission{file: file, req: req}, 0, nil
}

// enqueue stages the upload and starts a background job for it.
func (h *Handler) enqueue(sub submission) (string, error) {
	f, err := sub.file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	staged, err := h.proc.Stage(processor.Upload{Filename: sub.file.Filename, Body: f})
	if err != nil {
		return "", err
	}

	req := sub.req
	return h.jobs.Submit(jobs.Task{
		Name: sub.file.Filename,
		Run: func(ctx context.Context) (processor.Result, error) {
			return h.proc.Process(ctx, staged, req)
		},
		Release: func() {
			if err := staged.Release(); err != nil {
				h.logger.Warn(context.Background(), "Failed to remove staging dir %s: %v", staged.Dir, err)
			}
		},
	}), nil
}
