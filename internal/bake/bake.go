// Package bake sequences the normal-map pipeline: height-field synthesis,
// normal extraction, PNG encoding, and the final file write.
package bake

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/vinylbake/internal/config"
	"github.com/Faultbox/vinylbake/internal/groove"
	"github.com/Faultbox/vinylbake/internal/normalmap"
	"github.com/Faultbox/vinylbake/pkg/pngenc"
)

// Result describes a finished bake.
type Result struct {
	Path  string
	Bytes int64
}

// Baker runs the bake pipeline for one configuration.
type Baker struct {
	synth    *groove.Synthesizer
	size     int
	strength float64
	workers  int
	outPath  string
}

// New creates a Baker from the given configuration.
func New(cfg *config.Config) *Baker {
	workers := cfg.Bake.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Baker{
		synth:    groove.New(cfg.Bake.ToParams()),
		size:     cfg.Bake.Size,
		strength: cfg.Bake.NormalStrength,
		workers:  workers,
		outPath:  cfg.Output.Path,
	}
}

// Run executes the full pipeline and writes the PNG artifact.
func (b *Baker) Run() (Result, error) {
	field := b.SynthesizeField()
	rgba := b.EncodeNormals(field)

	data, err := pngenc.Encode(rgba, b.size, b.size)
	if err != nil {
		return Result{}, fmt.Errorf("encoding container: %w", err)
	}

	if err := writeFileAtomic(b.outPath, data); err != nil {
		return Result{}, err
	}

	return Result{Path: b.outPath, Bytes: int64(len(data))}, nil
}

// SynthesizeField materializes the full height field, partitioning rows
// across the configured workers. Each worker owns a disjoint row range of
// the output slice, so no locking is needed; the field is complete when
// this returns.
func (b *Baker) SynthesizeField() []float64 {
	field := make([]float64, b.size*b.size)
	b.forEachRowRange(func(start, end int) {
		b.synth.Field(field, start, end)
	})
	return field
}

// EncodeNormals converts a fully materialized height field to RGBA
// normals, again row-partitioned. The field must not be written to once
// this starts: every texel reads neighbors that another worker produced.
func (b *Baker) EncodeNormals(field []float64) []byte {
	rgba := make([]byte, b.size*b.size*4)
	b.forEachRowRange(func(start, end int) {
		normalmap.Encode(rgba, field, b.size, b.strength, start, end)
	})
	return rgba
}

// forEachRowRange splits the grid into contiguous row bands, one per
// worker, and blocks until every band is done.
func (b *Baker) forEachRowRange(fn func(start, end int)) {
	workers := b.workers
	if workers > b.size {
		workers = b.size
	}

	var g errgroup.Group
	rowsPer := (b.size + workers - 1) / workers
	for start := 0; start < b.size; start += rowsPer {
		start := start
		end := start + rowsPer
		if end > b.size {
			end = b.size
		}
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	// Workers never fail; Wait is the barrier between pipeline passes.
	_ = g.Wait()
}

// writeFileAtomic writes data to a temporary file in the destination
// directory and renames it into place, so a failed run never leaves a
// truncated artifact at the final path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
