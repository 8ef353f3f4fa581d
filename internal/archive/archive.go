package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// The stdlib table is sparse on some raster extensions we care about,
// and the OS mime.types file is not guaranteed to fill the gaps.
func init() {
	for ext, typ := range map[string]string{
		".bmp":  "image/bmp",
		".tga":  "image/x-tga",
		".tif":  "image/tiff",
		".tiff": "image/tiff",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// Entry is one file inside a zip archive.
type Entry struct {
	Name string
	Data []byte
}

// List reads every file entry of the archive into memory. Directory
// entries are skipped.
func List(zipBytes []byte) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries, nil
}

// Build packages the entries into a new deflate-compressed zip.
func Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("create entry %s: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("write entry %s: %w", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// IsImageName reports whether the entry name resolves to an image
// media type by extension lookup.
func IsImageName(name string) bool {
	typ := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	return strings.HasPrefix(typ, "image/")
}
