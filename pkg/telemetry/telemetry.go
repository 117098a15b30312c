// Package telemetry writes per-wave and per-frame simulation records to
// CSV files for offline analysis.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// WaveRecord summarizes one completed wave.
type WaveRecord struct {
	WaveNumber      int     `csv:"wave_number"`
	AsteroidCount   int     `csv:"asteroid_count"`
	SpeedMultiplier float64 `csv:"speed_multiplier"`
	DurationSecs    float64 `csv:"duration_secs"`
	FragmentsMade   int     `csv:"fragments_made"`
	PointsOnField   int     `csv:"points_on_field"`
}

// FrameRecord samples the simulation at one tick.
type FrameRecord struct {
	Frame           uint64  `csv:"frame"`
	Time            float64 `csv:"time"`
	ActiveEntities  int     `csv:"active_entities"`
	ActiveFragments int     `csv:"active_fragments"`
	LiveProjectiles int     `csv:"live_projectiles"`
	CollisionChecks int     `csv:"collision_checks"`
	CollisionsFound int     `csv:"collisions_found"`
}

// OutputManager accumulates records and flushes them as CSV files into
// a target directory. An empty directory disables output.
type OutputManager struct {
	dir    string
	waves  []*WaveRecord
	frames []*FrameRecord
}

// NewOutputManager creates a telemetry writer targeting dir.
func NewOutputManager(dir string) *OutputManager {
	return &OutputManager{dir: dir}
}

// Enabled reports whether a target directory is configured.
func (o *OutputManager) Enabled() bool {
	return o.dir != ""
}

// RecordWave appends a completed-wave record.
func (o *OutputManager) RecordWave(record WaveRecord) {
	o.waves = append(o.waves, &record)
}

// RecordFrame appends a frame sample.
func (o *OutputManager) RecordFrame(record FrameRecord) {
	o.frames = append(o.frames, &record)
}

// Flush writes all accumulated records to waves.csv and frames.csv in
// the target directory, then clears the buffers. A disabled manager
// just drops the buffers.
func (o *OutputManager) Flush() error {
	if !o.Enabled() {
		o.waves = nil
		o.frames = nil
		return nil
	}

	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("create telemetry dir: %w", err)
	}

	if len(o.waves) > 0 {
		if err := writeCSV(filepath.Join(o.dir, "waves.csv"), &o.waves); err != nil {
			return err
		}
		o.waves = nil
	}
	if len(o.frames) > 0 {
		if err := writeCSV(filepath.Join(o.dir, "frames.csv"), &o.frames); err != nil {
			return err
		}
		o.frames = nil
	}
	return nil
}

// writeCSV appends records to path, emitting the header only when the
// file is new.
func writeCSV(path string, records any) error {
	existing, statErr := os.Stat(path)
	fresh := statErr != nil || existing.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open telemetry file %s: %w", path, err)
	}
	defer f.Close()

	if fresh {
		if err := gocsv.Marshal(records, f); err != nil {
			return fmt.Errorf("write telemetry file %s: %w", path, err)
		}
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, f); err != nil {
		return fmt.Errorf("append telemetry file %s: %w", path, err)
	}
	return nil
}
