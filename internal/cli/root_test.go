package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// writeProject creates a config.json with n icons under dir/icons.
func writeProject(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	icons := filepath.Join(dir, "icons")
	if err := os.Mkdir(icons, 0o755); err != nil {
		t.Fatalf("failed to create icons dir: %v", err)
	}
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
		for p := 0; p < len(img.Pix); p += 4 {
			copy(img.Pix[p:p+4], []uint8{uint8(40 * i), 90, 200, 255})
		}
		f, err := os.Create(filepath.Join(icons, string(rune('a'+i))+".png"))
		if err != nil {
			t.Fatalf("failed to create icon: %v", err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("failed to encode icon: %v", err)
		}
		f.Close()
	}

	cfg := `{
  "canvas_size": {"height": 90, "width": 160},
  "min_gap_ratio": 0.1,
  "input_dir": "icons",
  "output_path": "out/backdrop.png",
  "image_transparency": 255,
  "extra_padding_factor": 1.2,
  "perspective_transform": {"angle": 2, "skew_factor": 0.0008}
}`
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestSetVersion(t *testing.T) {
	defer SetVersion(version, commit, date)

	SetVersion("1.0.0", "abc123", "2024-01-01")
	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("got %q %q %q", version, commit, date)
	}

	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "icon-backdrop 1.0.0") || !strings.Contains(out, "commit: abc123") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRootCommand_Run(t *testing.T) {
	cfgPath := writeProject(t, 4)

	out, logs, err := execute(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lines := strings.Fields(out)
	if len(lines) != 3 {
		t.Fatalf("expected 3 output paths, got %q", out)
	}
	for _, p := range lines {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output %s: %v", p, err)
		}
	}
	if !strings.HasSuffix(lines[2], "backdrop_perspective.png") {
		t.Errorf("last output: got %s", lines[2])
	}
	if !strings.Contains(logs, "Placing icon") {
		t.Errorf("expected per-icon progress in logs, got %q", logs)
	}
}

func TestRootCommand_MissingConfig(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.json"))
	if !bderrors.Is(err, bderrors.ErrCodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestPlanCommand(t *testing.T) {
	cfgPath := writeProject(t, 5)
	if err := os.WriteFile(filepath.Join(filepath.Dir(cfgPath), "icons", "logo.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("failed to write svg: %v", err)
	}

	out, _, err := execute(t, "plan", "-c", cfgPath)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	var report struct {
		Icons   []string `json:"icons"`
		Skipped []struct {
			Path string `json:"path"`
		} `json:"skipped"`
		Outputs []string `json:"outputs"`
		Plan    struct {
			Rows       int               `json:"rows"`
			Columns    int               `json:"columns"`
			Placements []json.RawMessage `json:"placements"`
		} `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}

	if len(report.Icons) != 5 || len(report.Plan.Placements) != 5 {
		t.Errorf("got %d icons, %d placements, want 5", len(report.Icons), len(report.Plan.Placements))
	}
	if len(report.Skipped) != 1 || filepath.Base(report.Skipped[0].Path) != "logo.svg" {
		t.Errorf("skipped: got %+v", report.Skipped)
	}
	if report.Plan.Rows*report.Plan.Columns < 5 {
		t.Errorf("grid %dx%d cannot hold 5 icons", report.Plan.Rows, report.Plan.Columns)
	}
	if len(report.Outputs) != 3 {
		t.Errorf("outputs: got %v", report.Outputs)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(cfgPath), "out")); !os.IsNotExist(err) {
		t.Error("plan must not write output")
	}
}

func TestPlanCommand_Overlay(t *testing.T) {
	cfgPath := writeProject(t, 3)
	overlay := filepath.Join(t.TempDir(), "layout.png")

	if _, _, err := execute(t, "plan", "-c", cfgPath, "--overlay", overlay); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	f, err := os.Open(overlay)
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("overlay is not a PNG: %v", err)
	}
	if cfg.Width != 160 || cfg.Height != 90 {
		t.Errorf("overlay size: got %dx%d, want 160x90", cfg.Width, cfg.Height)
	}
}

func TestPlanCommand_BadOverlayColor(t *testing.T) {
	cfgPath := writeProject(t, 1)
	overlay := filepath.Join(t.TempDir(), "layout.png")

	_, _, err := execute(t, "plan", "-c", cfgPath, "--overlay", overlay, "--overlay-color", "red")
	if !bderrors.Is(err, bderrors.ErrCodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}
