// Package store defines the persistence port for run history.
package store

import (
	"context"
	"time"
)

// Run is one recorded diff-coverage invocation.
type Run struct {
	ID           int64
	Timestamp    time.Time
	Repository   string
	BaseRef      string
	TargetRef    string
	BaseSHA      string
	HeadSHA      string
	TotalLines   int
	MissingLines int
	Percent      int
}

// Store persists and lists run history.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
