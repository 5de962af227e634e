package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/soilreport/constants"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, p := range []string{
		"a.pdf", "b.PNG", "notes.txt", "sub/c.xlsx", ".hidden/d.pdf", "sub/.e.jpg",
	} {
		touch(t, filepath.Join(root, p))
	}

	got, stats, err := ScanDirectory(context.Background(), root, nil, true)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	var paths []string
	for _, r := range got {
		rel, _ := filepath.Rel(root, r.Path)
		paths = append(paths, rel)
	}
	want := []string{"a.pdf", "b.PNG", filepath.Join("sub", "c.xlsx")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if stats.Matched != 3 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got[1].Ext != "png" || got[1].Format != constants.IMAGE || got[1].Size != 1 {
		t.Errorf("b.PNG result = %+v", got[1])
	}

	got, _, err = ScanDirectory(context.Background(), root, []string{".pdf"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("pdf-only scan with hidden files = %d results, want 2", len(got))
	}
}

func TestScanDirectory_RequiresRoot(t *testing.T) {
	t.Parallel()

	if _, _, err := ScanDirectory(context.Background(), "  ", nil, true); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestStartWatcher(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "existing.pdf"))
	touch(t, filepath.Join(root, "readme.md"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	next := func() string {
		select {
		case p := <-events:
			return filepath.Base(p)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}
	if got := next(); got != "existing.pdf" {
		t.Fatalf("initial scan emitted %q", got)
	}

	touch(t, filepath.Join(root, "skip.txt"))
	touch(t, filepath.Join(root, "new.jpg"))
	if got := next(); got != "new.jpg" {
		t.Fatalf("watch emitted %q, want new.jpg", got)
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	t.Parallel()

	if _, _, err := StartWatcher(context.Background(), WatchConfig{}, nil); err == nil {
		t.Fatal("expected error without roots")
	}
}
