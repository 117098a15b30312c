// Package render defines the read-only boundary between the simulation
// core and any renderer. The core hands out immutable snapshots after a
// tick completes; it never depends on a renderer's output format.
package render

import (
	"context"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/logging"
)

// EntitySnapshot is the immutable per-entity view exposed to renderers.
type EntitySnapshot struct {
	ID     uint64   `json:"id"`
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Radius float64  `json:"radius"`
	Angle  float64  `json:"angle"`
	Active bool     `json:"active"`
	Color  [3]uint8 `json:"color"`
}

// Snapshot is one frame's worth of renderable state.
type Snapshot struct {
	Frame    uint64           `json:"frame"`
	Time     float64          `json:"time"`
	Entities []EntitySnapshot `json:"entities"`
}

// Capture copies the given entities into an immutable snapshot. Safe to
// hand across threads because it shares nothing with live entities.
func Capture(frame uint64, now float64, entities []*entity.Entity) Snapshot {
	snap := Snapshot{
		Frame:    frame,
		Time:     now,
		Entities: make([]EntitySnapshot, 0, len(entities)),
	}
	for _, e := range entities {
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:     e.ID(),
			Type:   e.Type,
			X:      e.Body.X,
			Y:      e.Body.Y,
			Radius: e.Body.Radius,
			Angle:  e.Body.Angle,
			Active: e.Active,
			Color:  e.Color,
		})
	}
	return snap
}

// Renderer consumes frame snapshots for display.
type Renderer interface {
	Clear()
	RenderSnapshot(snapshot Snapshot)
	Present()
}

// NullRenderer is a no-op Renderer that logs at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements Renderer.
func (r *NullRenderer) Clear() {
	r.logger.Debug(context.Background(), "Clear called")
}

// RenderSnapshot implements Renderer.
func (r *NullRenderer) RenderSnapshot(snapshot Snapshot) {
	r.logger.Debug(context.Background(), "RenderSnapshot called",
		"frame", snapshot.Frame,
		"entities", len(snapshot.Entities),
	)
}

// Present implements Renderer.
func (r *NullRenderer) Present() {
	r.logger.Debug(context.Background(), "Present called")
}
