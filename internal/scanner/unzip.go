package scanner

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// unzip extracts every entry of the ZIP archive at src into dest, creating
// intermediate directories as needed. Entry paths are sanitized so an
// archive cannot write outside dest via ".." components (a check the
// compiled java archives this scanner processes never need, but input is
// untrusted bytes all the same).
func unzip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractOne(dest, f); err != nil {
			return err
		}
	}
	return nil
}

func extractOne(dest string, f *zip.File) error {
	cleanName := filepath.Clean(f.Name)
	if strings.HasPrefix(cleanName, "..") {
		return nil
	}
	target := filepath.Join(dest, cleanName)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
