package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meetnote/internal/jobs"
)

type formPage struct {
	Error       string
	Recipient   string
	Sender      string
	MaxUploadMB int64
}

type jobPage struct {
	Job        jobs.Snapshot
	Refresh    bool
	ShowResult bool
	Success    bool
	Banner     string
}

func (h *Handler) showForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", formPage{MaxUploadMB: h.cfg.Server.MaxUploadMB})
}

func (h *Handler) submitForm(c *gin.Context) {
	sub, status, err := h.bindSubmission(c)
	if err != nil {
		c.HTML(status, "index.html", formPage{
			Error:       err.Error(),
			Recipient:   c.PostForm("recipient"),
			Sender:      c.PostForm("sender"),
			MaxUploadMB: h.cfg.Server.MaxUploadMB,
		})
		return
	}

	id, err := h.enqueue(sub)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to stage %s: %v", sub.file.Filename, err)
		c.HTML(http.StatusInternalServerError, "index.html", formPage{
			Error:       "Error: " + err.Error(),
			Recipient:   sub.req.Recipient,
			Sender:      sub.req.Sender,
			MaxUploadMB: h.cfg.Server.MaxUploadMB,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/jobs/"+id)
}

func (h *Handler) showJob(c *gin.Context) {
	snap, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		c.HTML(http.StatusNotFound, "index.html", formPage{
			Error:       "That job is unknown or has expired. Please upload the file again.",
			MaxUploadMB: h.cfg.Server.MaxUploadMB,
		})
		return
	}

	c.HTML(http.StatusOK, "job.html", newJobPage(snap))
}

func newJobPage(snap jobs.Snapshot) jobPage {
	page := jobPage{Job: snap, Refresh: !snap.State.Terminal()}

	switch snap.State {
	case jobs.StateQueued:
		page.Banner = "Waiting for a free worker..."
	case jobs.StateRunning:
		page.Banner = "Processing..."
	case jobs.StateCancelled:
		page.Banner = "Job cancelled."
	case jobs.StateDone:
		res := snap.Result
		page.ShowResult = res.Transcript != "" || res.Summary != ""
		page.Success = res.Outcome.Success()
		page.Banner = res.Message()
	}

	return page
}

func (h *Handler) cancelFromPage(c *gin.Context) {
	id := c.Param("id")
	if h.jobs.Cancel(id) {
		h.logger.Info(c.Request.Context(), "Cancel requested for job %s", id)
	}
	c.Redirect(http.StatusSeeOther, "/jobs/"+id)
}
