// Package render produces derived page assets out of band. Requests go in
// through a bounded queue and results come back on a completion channel.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrQueueFull is returned when the request queue has no free slot.
	ErrQueueFull = errors.New("render queue is full")
	// ErrPoolClosed is returned for requests made after Close.
	ErrPoolClosed = errors.New("render pool is closed")
)

// Request asks for one page of a source to be rasterized.
type Request struct {
	SourceID   string `json:"source_id"`
	SourcePath string `json:"source_path"`
	Page       int    `json:"page"` // zero-based
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Completion is delivered once per accepted Request.
type Completion struct {
	Request Request
	Data    []byte
	Ext     string
	Err     error
}

// Rasterizer turns one page of a source into image bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, req Request) (data []byte, ext string, err error)
}

// RenderTimeoutError reports a render that did not finish in time.
type RenderTimeoutError struct {
	SourceID string
	Page     int
	After    time.Duration
}

func (e RenderTimeoutError) Error() string {
	return fmt.Sprintf("render of source %s page %d timed out after %s", e.SourceID, e.Page, e.After)
}
