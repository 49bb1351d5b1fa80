package processor

import (
	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/mailer"
	"github.com/nguyentantai21042004/meetnote/internal/models"
	"github.com/nguyentantai21042004/meetnote/internal/notes"
	"github.com/nguyentantai21042004/meetnote/pkg/executor"
)

type implProcessor struct {
	cfg       *config.Config
	executor  executor.Executor
	models    *models.Models
	extractor notes.Extractor
	sender    mailer.Sender
	logger    logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, exec executor.Executor, m *models.Models, sender mailer.Sender, log logger.Logger) Processor {
	return &implProcessor{
		cfg:       cfg,
		executor:  exec,
		models:    m,
		extractor: notes.New(m.Segmenter),
		sender:    sender,
		logger:    log,
	}
}
