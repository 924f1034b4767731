package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
	".heic": {},
}

// DirIndex is a CaptureIndex over a set of local directories.
type DirIndex struct {
	dirs     []string
	settings domain.CaptureSettings
}

// NewDirIndex indexes the configured watch directories.
func NewDirIndex(settings domain.CaptureSettings) *DirIndex {
	dirs := make([]string, 0, len(settings.WatchDirs))
	for _, d := range settings.WatchDirs {
		if abs, err := filepath.Abs(d); err == nil {
			dirs = append(dirs, abs)
		}
	}
	return &DirIndex{dirs: dirs, settings: settings}
}

// Resolve maps ref to an absolute path inside one of the indexed directories.
func (x *DirIndex) Resolve(ref domain.SourceRef) (string, error) {
	if ref.IsEmpty() {
		return "", errors.New("empty source reference")
	}
	path, err := filepath.Abs(ref.String())
	if err != nil {
		return "", err
	}
	for _, dir := range x.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s is outside the capture directories", path)
}

// Latest walks the indexed directories for the most recently modified
// image whose path passes the capture heuristic and is not pending.
func (x *DirIndex) Latest(ctx context.Context) (domain.SourceRef, bool, error) {
	var (
		best    string
		bestMod int64
	)
	for _, dir := range x.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !x.isCandidate(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
				best, bestMod = path, mod
			}
			return nil
		})
		if err != nil {
			return domain.EmptySourceRef, false, fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	if best == "" {
		return domain.EmptySourceRef, false, nil
	}
	return domain.SourceRef(best), true, nil
}

func (x *DirIndex) isCandidate(path string) bool {
	if x.settings.IsPending(path) || !x.settings.MatchesCapturePath(path) {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads the resource bytes and reports their MIME type.
func (x *DirIndex) Load(ref domain.SourceRef) ([]byte, string, error) {
	if ref.IsEmpty() {
		return nil, "", domain.ErrNoSource
	}
	data, err := os.ReadFile(ref.String())
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s is empty", ref)
	}
	return data, MIMEType(ref.String(), data), nil
}

// MIMEType guesses from the extension, then from content.
func MIMEType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return strings.SplitN(t, ";", 2)[0]
	}
	return http.DetectContentType(data)
}

var _ ports.CaptureIndex = (*DirIndex)(nil)
