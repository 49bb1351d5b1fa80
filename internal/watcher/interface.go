package watcher

import "context"

// Watcher monitors the inbox folder for new meeting files
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error
