package bake

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/vinylbake/internal/config"
	"github.com/Faultbox/vinylbake/internal/groove"
	"github.com/Faultbox/vinylbake/pkg/vmath"
)

// flatBaker bakes a degenerate disc: a single center at the UV origin, a
// disc radius beyond every reachable point, and the label guard covering
// the whole grid, so every texel is flat label surface.
func flatBaker(t *testing.T, size, workers int, outPath string) *Baker {
	t.Helper()
	p := groove.DefaultParams()
	p.Size = size
	p.DiscRadius = 1e6
	p.InnerLabelGuard = 1.0
	p.Centers = []vmath.Vec2{{X: 0, Y: 0}}
	return &Baker{
		synth:    groove.New(p),
		size:     size,
		strength: 1.85,
		workers:  workers,
		outPath:  outPath,
	}
}

func TestRunFlatScenario(t *testing.T) {
	const size = 8
	out := filepath.Join(t.TempDir(), "flat.png")
	b := flatBaker(t, size, 2, out)

	field := b.SynthesizeField()
	for i, h := range field {
		if math.Abs(h-0.45) > 1e-12 {
			t.Fatalf("texel %d height = %v, want separator depth 0.45 everywhere", i, h)
		}
	}

	res, err := b.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Path != out {
		t.Errorf("result path = %s, want %s", res.Path, out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output artifact missing: %v", err)
	}
	if int64(len(data)) != res.Bytes {
		t.Errorf("reported %d bytes, file has %d", res.Bytes, len(data))
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}
	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		t.Fatalf("artifact is %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), size, size)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded as %T, want *image.NRGBA", img)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*nrgba.Stride + x*4
			r, g, bch, a := nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3]
			if r != 128 || g != 128 || bch != 255 || a != 255 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want flat normal (128,128,255,255)", x, y, r, g, bch, a)
			}
		}
	}
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Bake.Size = 32

	cfg.Bake.Workers = 1
	serial := New(cfg)
	cfg.Bake.Workers = 5
	parallel := New(cfg)

	sf := serial.SynthesizeField()
	pf := parallel.SynthesizeField()
	for i := range sf {
		if sf[i] != pf[i] {
			t.Fatalf("height field differs at texel %d between 1 and 5 workers", i)
		}
	}

	sr := serial.EncodeNormals(sf)
	pr := parallel.EncodeNormals(pf)
	if !bytes.Equal(sr, pr) {
		t.Fatal("normal buffer differs between 1 and 5 workers")
	}
}

func TestNewClampsWorkers(t *testing.T) {
	cfg := config.Default()
	cfg.Bake.Size = 4
	cfg.Bake.Workers = 16

	b := New(cfg)
	// More workers than rows still covers every row exactly once.
	field := b.SynthesizeField()
	if len(field) != 16 {
		t.Fatalf("field has %d texels, want 16", len(field))
	}
}

func TestRunFailsWithoutPartialArtifact(t *testing.T) {
	dir := t.TempDir()

	// A regular file where the output directory should be makes the
	// write path fail before the final artifact can appear.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("writing blocker: %v", err)
	}

	out := filepath.Join(blocker, "vinyl.png")
	b := flatBaker(t, 4, 1, out)

	if _, err := b.Run(); err == nil {
		t.Fatal("expected an error writing below a regular file")
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("failed run must not leave an artifact at the output path")
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := writeFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := writeFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("listing dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in %s, found %d entries", dir, len(entries))
	}
}
