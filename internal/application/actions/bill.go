package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// FileResolver resolves a source reference that names an existing regular
// file by absolute path, wherever it lives.
type FileResolver struct{}

func (FileResolver) Resolve(ref domain.SourceRef) (string, error) {
	path := ref.String()
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("source %q is not an absolute path", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("source %q is a directory", path)
	}
	return filepath.Clean(path), nil
}

// BillHandler files the captured image under <dir>/<year-month>/.
type BillHandler struct {
	dir      string
	resolver SourceResolver
	clock    ports.Clock
	logger   ports.Logger
}

func NewBillHandler(dir string, resolver SourceResolver, clock ports.Clock, logger ports.Logger) *BillHandler {
	return &BillHandler{dir: dir, resolver: resolver, clock: clock, logger: logger}
}

func (h *BillHandler) Execute(_ context.Context, _ domain.Fields, source domain.SourceRef) (domain.Outcome, error) {
	if source.IsEmpty() {
		return domain.Outcome{}, fmt.Errorf("bill organizer requires a screenshot: %w", domain.ErrNoSource)
	}
	src, err := h.resolver.Resolve(source)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}

	now := h.clock.Now()
	folder := filepath.Join(h.dir, now.Format(domain.BillFolderFormat))
	if err := os.MkdirAll(folder, domain.DirectoryPermissions); err != nil {
		h.logger.Error("bill destination unavailable", err, map[string]interface{}{"folder": folder})
		return domain.Outcome{}, fmt.Errorf("create bill folder: %w", err)
	}

	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".png"
	}
	dest := filepath.Join(folder, fmt.Sprintf("bill_%d%s", now.UnixMilli(), ext))
	if err := copyFile(src, dest); err != nil {
		return domain.Outcome{}, err
	}
	h.logger.Info("bill saved", map[string]interface{}{"path": dest})
	return domain.Outcome{Message: "Bill organized"}, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create bill file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy bill: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("close bill: %w", err)
	}
	return nil
}
