package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/icon-backdrop/internal/config"
	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
	"github.com/ironsheep/icon-backdrop/internal/imaging"
)

func writeIcon(t *testing.T, dir, name string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create icon: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode icon: %v", err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "icons")
	if err := os.Mkdir(in, 0o755); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	return &config.Config{
		CanvasWidth:         120,
		CanvasHeight:        80,
		MinGapRatio:         0.1,
		InputDir:            in,
		OutputPath:          filepath.Join(root, "out", "background.png"),
		ImageTransparency:   255,
		ExtraPaddingFactor:  1.5,
		PerspectiveAngle:    2,
		SkewFactor:          0.0008,
		IconShrinkFactor:    config.DefaultIconShrinkFactor,
		WarpDownscaleFactor: config.DefaultWarpDownscaleFactor,
		BackgroundColor:     config.DefaultBackgroundColor,
	}
}

func outputFiles(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(cfg.OutputPath))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_WritesThreeImages(t *testing.T) {
	cfg := testConfig(t)
	writeIcon(t, cfg.InputDir, "a.png", color.NRGBA{255, 0, 0, 255})
	writeIcon(t, cfg.InputDir, "b.png", color.NRGBA{0, 255, 0, 255})
	writeIcon(t, cfg.InputDir, "c.png", color.NRGBA{0, 0, 255, 128})

	res, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	names := outputFiles(t, cfg)
	want := []string{"background.png", "background_extra_padding.png", "background_perspective.png"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("outputs: got %v, want %v", names, want)
	}

	sizes := map[string]image.Point{
		res.Outputs.Base:        {120, 80},
		res.Outputs.Padded:      {180, 120},
		res.Outputs.Perspective: {90, 60},
	}
	for path, size := range sizes {
		img, err := imaging.OpenIcon(path)
		if err != nil {
			t.Fatalf("failed to read %s: %v", path, err)
		}
		if got := img.Bounds().Size(); got != size {
			t.Errorf("%s: got %v, want %v", filepath.Base(path), got, size)
		}
	}

	if res.Plan.ItemCount != 3 || len(res.Icons) != 3 {
		t.Errorf("result: got %d planned, %d icons, want 3", res.Plan.ItemCount, len(res.Icons))
	}
}

func TestRun_OnlyVectorIcons(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.InputDir, "logo.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("failed to write svg: %v", err)
	}

	var buf bytes.Buffer
	_, err := Run(context.Background(), cfg, log.New(&buf))
	if !bderrors.Is(err, bderrors.ErrCodeEmptyInput) {
		t.Fatalf("expected EMPTY_INPUT, got %v", err)
	}
	if files := outputFiles(t, cfg); len(files) != 0 {
		t.Errorf("expected no outputs, got %v", files)
	}
	if !strings.Contains(buf.String(), "logo.svg") {
		t.Errorf("expected the skipped svg to be logged, got %q", buf.String())
	}
}

func TestRun_FailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	writeIcon(t, cfg.InputDir, "a.png", color.NRGBA{255, 0, 0, 255})
	cfg.WarpDownscaleFactor = 2

	_, err := Run(context.Background(), cfg, nil)
	if !bderrors.Is(err, bderrors.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
	if files := outputFiles(t, cfg); len(files) != 0 {
		t.Errorf("expected no outputs, got %v", files)
	}
}

func TestRun_Canceled(t *testing.T) {
	cfg := testConfig(t)
	writeIcon(t, cfg.InputDir, "a.png", color.NRGBA{255, 0, 0, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if files := outputFiles(t, cfg); len(files) != 0 {
		t.Errorf("expected no outputs, got %v", files)
	}
}

func TestRun_InvalidBackground(t *testing.T) {
	cfg := testConfig(t)
	writeIcon(t, cfg.InputDir, "a.png", color.NRGBA{255, 0, 0, 255})
	cfg.BackgroundColor = "white"

	if _, err := Run(context.Background(), cfg, nil); !bderrors.Is(err, bderrors.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"c.png", "a.png", "b.png", "d.png", "e.png"} {
		writeIcon(t, cfg.InputDir, name, color.NRGBA{10, 20, 30, 255})
	}

	preview, err := Prepare(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if preview.Plan.ItemCount != 5 || len(preview.Plan.Placements) != 5 {
		t.Errorf("plan: got %d items, %d placements", preview.Plan.ItemCount, len(preview.Plan.Placements))
	}
	if got := filepath.Base(preview.Inventory.Icons[0].Path); got != "a.png" {
		t.Errorf("first icon: got %s, want a.png", got)
	}
	if files := outputFiles(t, cfg); len(files) != 0 {
		t.Errorf("Prepare must not write, got %v", files)
	}
}

func TestRun_TranslucentBackgroundHasNoSeam(t *testing.T) {
	cfg := testConfig(t)
	cfg.ImageTransparency = 100
	writeIcon(t, cfg.InputDir, "a.png", color.NRGBA{255, 0, 0, 255})

	res, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	padded, err := imaging.OpenIcon(res.Outputs.Padded)
	if err != nil {
		t.Fatalf("failed to read padded image: %v", err)
	}
	// The 120x80 base sits at (30, 20) in the 180x120 padded canvas; its
	// top-left corner holds no icon.
	border := color.NRGBAModel.Convert(padded.At(0, 0)).(color.NRGBA)
	inner := color.NRGBAModel.Convert(padded.At(31, 21)).(color.NRGBA)
	want := color.NRGBA{255, 255, 255, 100}
	if border != want || inner != want {
		t.Errorf("background: border %v, inside base %v, want both %v", border, inner, want)
	}
}
