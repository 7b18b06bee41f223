package video

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SweepTmp removes request workspaces older than maxAge. Orphans appear
// when the process dies mid-request; the hourly sweep reclaims them.
func SweepTmp(tmpBase string, maxAge time.Duration, logger *slog.Logger) {
	entries, err := os.ReadDir(tmpBase)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Warn("cannot scan tmp dir", "dir", tmpBase, "error", err)
		}
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(tmpBase, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			if logger != nil {
				logger.Warn("cannot remove stale workspace", "path", path, "error", err)
			}
			continue
		}
		removed++
	}

	if removed > 0 && logger != nil {
		logger.Info("stale workspaces removed", "count", removed)
	}
}
