package video

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepTmp_RemovesOnlyStaleWorkspaces(t *testing.T) {
	tmpBase := t.TempDir()

	stale := filepath.Join(tmpBase, "extract-old")
	if err := os.MkdirAll(stale, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stale, "video.mp4"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(tmpBase, "extract-new")
	if err := os.MkdirAll(fresh, 0755); err != nil {
		t.Fatal(err)
	}

	SweepTmp(tmpBase, time.Hour, nil)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale workspace not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh workspace removed: %v", err)
	}
}

func TestSweepTmp_MissingDirIsNoOp(t *testing.T) {
	SweepTmp(filepath.Join(t.TempDir(), "does-not-exist"), time.Hour, nil)
}
