package testutil

import (
	"archive/zip"
	"bytes"
)

// BuildZip serializes entries (path -> content) into an in-memory ZIP
// archive, suitable as a .jar/.war/.ear fixture for scanner tests.
func BuildZip(entries map[string][]byte) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write(content); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
