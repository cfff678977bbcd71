package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks zipPath into destDir/<archive name> and returns that
// directory. An existing directory is returned untouched. Entries are
// written to a temporary directory first so a failed extraction leaves
// nothing behind.
func Extract(zipPath, destDir string) (string, error) {
	out := filepath.Join(destDir, DirName(zipPath))
	if _, err := os.Stat(out); err == nil {
		return out, nil
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset dir: %w", err)
	}
	tmp, err := os.MkdirTemp(destDir, ".extract-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, f := range zr.File {
		if err := extractFile(f, tmp); err != nil {
			return "", err
		}
	}
	if err := os.Rename(tmp, out); err != nil {
		return "", fmt.Errorf("store extracted dataset: %w", err)
	}
	return out, nil
}

func extractFile(f *zip.File, root string) error {
	target := filepath.Join(root, f.Name)
	if !strings.HasPrefix(target, filepath.Clean(root)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes destination", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	return w.Close()
}
