package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetnote/internal/jobs"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
)

func (h *Handler) createJob(c *gin.Context) {
	sub, status, err := h.bindSubmission(c)
	if err != nil {
		fail(c, status, err.Error())
		return
	}

	id, err := h.enqueue(sub)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to stage %s: %v", sub.file.Filename, err)
		fail(c, http.StatusInternalServerError, "failed to store upload")
		return
	}

	success(c, http.StatusAccepted, gin.H{
		"id":         id,
		"status_url": "/api/v1/jobs/" + id,
	})
}

func (h *Handler) getJob(c *gin.Context) {
	snap, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, jobs.ErrNotFound.Error())
		return
	}

	data := gin.H{"job": snap}
	if snap.State == jobs.StateDone {
		data["message"] = snap.Result.Message()
	}
	success(c, http.StatusOK, data)
}

func (h *Handler) cancelJob(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.jobs.Get(id); !ok {
		fail(c, http.StatusNotFound, jobs.ErrNotFound.Error())
		return
	}
	if !h.jobs.Cancel(id) {
		fail(c, http.StatusConflict, "job already finished")
		return
	}

	success(c, http.StatusOK, gin.H{"id": id, "cancelled": true})
}

// downloadDocx renders the summary of a finished job as a Word document.
func (h *Handler) downloadDocx(c *gin.Context) {
	snap, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, jobs.ErrNotFound.Error())
		return
	}
	if snap.State != jobs.StateDone || snap.Result.Summary == "" {
		fail(c, http.StatusConflict, "summary not available")
		return
	}

	if err := os.MkdirAll(h.cfg.Paths.Temp, 0755); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create temp root: %v", err)
		fail(c, http.StatusInternalServerError, "failed to build document")
		return
	}
	dir, err := os.MkdirTemp(h.cfg.Paths.Temp, "docx-*")
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to create docx dir: %v", err)
		fail(c, http.StatusInternalServerError, "failed to build document")
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "meeting-summary.docx")
	if err := notes.WriteDocx(h.cfg.SMTP.Subject, snap.Result.Notes, path); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to write docx: %v", err)
		fail(c, http.StatusInternalServerError, "failed to build document")
		return
	}

	c.FileAttachment(path, "meeting-summary.docx")
}
