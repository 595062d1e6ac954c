package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dmdpattern/pkg/catalog"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/io"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

const testJob = `
[device]
rows = 40
cols = 30

[[pattern]]
name = "spot.bmp"
kind = "circle"
radius = 5

[[pattern]]
name = "grid.png"
kind = "crosses"
row_spacing = 10
col_spacing = 10
nrows = 2
ncols = 2
`

func writeJob(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "job.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func assertFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	job := writeJob(t, dir, testJob)

	if _, err := run(t, "render", job, "-o", out, "--no-cache", "--progress=false", "--catalog"); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertFiles(t, out,
		"pattern_spot.bmp", "template_spot.bmp",
		"pattern_grid.png", "template_grid.png",
		catalog.FileName)

	listed, err := run(t, "list", "-d", out, "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal([]byte(listed), &entries); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, listed)
	}
	if len(entries) != 2 {
		t.Fatalf("catalog has %d entries, want 2", len(entries))
	}

	byName, err := run(t, "list", "-d", out, "--json", "--name", "spot.bmp")
	if err != nil {
		t.Fatalf("list --name: %v", err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(byName), &entries); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != pipeline.KindCircle {
		t.Fatalf("list --name = %+v, want one circle", entries)
	}

	byID, err := run(t, "list", "-d", out, "--json", "--id", entries[0].ID.String())
	if err != nil {
		t.Fatalf("list --id: %v", err)
	}
	var one catalog.Entry
	if err := json.Unmarshal([]byte(byID), &one); err != nil {
		t.Fatalf("list --id output is not JSON: %v", err)
	}
	if one.ID != entries[0].ID || len(one.Recipe) == 0 {
		t.Errorf("list --id = %+v, want entry %s with its recipe", one, entries[0].ID)
	}

	if _, err := run(t, "list", "-d", out, "--id", "not-a-uuid"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad id error = %v, want INVALID_INPUT", err)
	}

	// The picker never starts with --plain, even on a terminal.
	defer func(orig func() bool) { isTerminal = orig }(isTerminal)
	isTerminal = func() bool { return true }
	if _, err := run(t, "list", "-d", out, "--plain"); err != nil {
		t.Errorf("list --plain: %v", err)
	}
}

func TestRenderCommandOnly(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	job := writeJob(t, dir, testJob)

	if _, err := run(t, "render", job, "-o", out, "--no-cache", "--progress=false", "--only", "grid.png"); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertFiles(t, out, "pattern_grid.png")
	if _, err := os.Stat(filepath.Join(out, "pattern_spot.bmp")); !os.IsNotExist(err) {
		t.Errorf("spot.bmp rendered despite --only")
	}

	if _, err := run(t, "render", job, "-o", out, "--no-cache", "--progress=false", "--only", "nope.bmp"); err == nil {
		t.Error("expected error for unknown --only name")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "render", filepath.Join(dir, "missing.toml"), "--no-cache", "--progress=false")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing job error = %v, want FILE_NOT_FOUND", err)
	}

	bad := writeJob(t, dir, "[[pattern]]\nname = \"x.bmp\"\nkind = \"hexagon\"\n")
	_, err = run(t, "render", bad, "--no-cache", "--progress=false")
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("bad kind error = %v, want INVALID_PATTERN", err)
	}
}

func TestUniformAndConvert(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "uniform", "--rows", "40", "--cols", "30", "-o", dir, "-n", "off.bmp", "--color", "0"); err != nil {
		t.Fatalf("uniform: %v", err)
	}
	assertFiles(t, dir, "pattern_off.bmp", "template_off.bmp")

	img, err := io.LoadImage(filepath.Join(dir, "pattern_off.bmp"))
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("uniform pattern is %v, want 30x40", b)
	}

	conv := filepath.Join(dir, "conv")
	if _, err := run(t, "convert", filepath.Join(dir, "template_off.bmp"), "--rows", "40", "--cols", "30", "-o", conv); err != nil {
		t.Fatalf("convert: %v", err)
	}
	assertFiles(t, conv, "pattern_off.bmp", "template_off.bmp")

	if _, err := run(t, "uniform", "--color", "purple", "-o", dir); err == nil {
		t.Error("expected error for an unparseable color")
	}
}

func TestConvertSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "uniform", "--rows", "40", "--cols", "30", "-o", dir, "-n", "on.bmp"); err != nil {
		t.Fatalf("uniform: %v", err)
	}
	_, err := run(t, "convert", filepath.Join(dir, "template_on.bmp"), "--rows", "20", "--cols", "20", "-o", dir)
	if !errors.Is(err, errors.ErrCodeSizeMismatch) {
		t.Errorf("convert error = %v, want SIZE_MISMATCH", err)
	}
}

func TestListWithoutCatalog(t *testing.T) {
	_, err := run(t, "list", "-d", t.TempDir())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("list error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestKindsCommand(t *testing.T) {
	out, err := run(t, "kinds")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(pipeline.Kinds()) {
		t.Errorf("kinds printed %d lines, want %d", len(lines), len(pipeline.Kinds()))
	}
	if !strings.Contains(out, "radius=50") {
		t.Errorf("kinds output lacks the circle default radius:\n%s", out)
	}
}

func TestFilterPatterns(t *testing.T) {
	a := pipeline.DefaultPattern(pipeline.KindCircle)
	a.Name = "a.bmp"
	b := pipeline.DefaultPattern(pipeline.KindCross)
	b.Name = "b.bmp"
	job := &pipeline.Job{Patterns: []pipeline.Pattern{a, b}}

	if err := filterPatterns(job, []string{"b.bmp"}); err != nil {
		t.Fatalf("filterPatterns: %v", err)
	}
	if len(job.Patterns) != 1 || job.Patterns[0].Name != "b.bmp" {
		t.Errorf("Patterns = %+v, want only b.bmp", job.Patterns)
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ab/one.json", "two.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d files, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "ab")); !os.IsNotExist(err) {
		t.Errorf("empty subdirectory not removed")
	}

	n, err = clearCacheDir(filepath.Join(dir, "missing"))
	if err != nil || n != 0 {
		t.Errorf("clearCacheDir(missing) = %d, %v", n, err)
	}
}
