package inspect

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/enclens/enclens/pkg/encodingapi"
	"github.com/enclens/enclens/pkg/graph"
)

// Result is one completed inspection.
type Result struct {
	SessionID        string              `json:"sessionId"`
	EncodingID       string              `json:"encodingId"`
	Generation       uint64              `json:"generation"`
	Graph            *graph.Graph        `json:"-"`
	Report           *Report             `json:"report"`
	DrmKeys          map[string][]DrmKey `json:"drmKeys,omitempty"`
	MuxingsForStream map[string][]string `json:"muxingsForStream,omitempty"`
	Warnings         []string            `json:"warnings,omitempty"`
	CompletedAt      time.Time           `json:"completedAt"`
}

// PlayerSources derives the playable addresses of this result.
func (r *Result) PlayerSources() []PlayerSource {
	return r.Report.PlayerSources(r.DrmKeys)
}

// Inspector runs inspections and keeps the most recent result. Each call
// bumps a generation counter; a walk that finishes after a newer one
// started is returned to its caller but never published as latest, so a
// slow stale walk cannot overwrite fresh data.
type Inspector struct {
	client  *encodingapi.Client
	workers int
	gen     atomic.Uint64

	mu     sync.RWMutex
	latest *Result
}

// NewInspector creates an Inspector. workers bounds the concurrent API
// fetches of one walk; zero means the default.
func NewInspector(client *encodingapi.Client, workers int) *Inspector {
	return &Inspector{client: client, workers: workers}
}

// Inspect walks the encoding and returns the result. Branch failures are
// collected as warnings on the result; only a failure to fetch the root
// encoding is an error.
func (i *Inspector) Inspect(ctx context.Context, encodingID string) (*Result, error) {
	gen := i.gen.Add(1)

	w := newWalker(i.client, i.workers)
	if err := w.run(ctx, encodingID); err != nil {
		return nil, err
	}

	result := &Result{
		SessionID:        uuid.NewString(),
		EncodingID:       encodingID,
		Generation:       gen,
		Graph:            w.g,
		Report:           w.report,
		DrmKeys:          w.drmKeys,
		MuxingsForStream: w.muxingsForStream,
		Warnings:         w.warnings,
		CompletedAt:      time.Now(),
	}

	if gen == i.gen.Load() {
		i.mu.Lock()
		if i.latest == nil || result.Generation > i.latest.Generation {
			i.latest = result
		}
		i.mu.Unlock()
	}
	return result, nil
}

// Latest returns the most recently published result, or nil before the
// first completed inspection.
func (i *Inspector) Latest() *Result {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.latest
}

// MuxingIDsForStream is the reverse lookup from a stream to the muxings
// that package it, based on the latest result.
func (i *Inspector) MuxingIDsForStream(streamID string) []string {
	latest := i.Latest()
	if latest == nil {
		return nil
	}
	return latest.MuxingsForStream[streamID]
}

// StreamRowByID finds a stream row in the report, or nil.
func (r *Result) StreamRowByID(streamID string) *StreamRow {
	for idx := range r.Report.Streams {
		if r.Report.Streams[idx].StreamID == streamID {
			return &r.Report.Streams[idx]
		}
	}
	return nil
}
