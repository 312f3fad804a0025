package survey

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered cover image.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the scanned root.
	RelPath string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff, qoi).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".qoi":  true,
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanImages returns the image sources under root. root may be a single
// file, in which case it is returned regardless of its extension.
func ScanImages(root string) ([]Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		return []Source{newSource(abs, filepath.Base(root), info.Size())}, nil
	}

	var sources []Source
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImagePath(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		sources = append(sources, newSource(abs, relPath, info.Size()))
		return nil
	})

	return sources, err
}

func newSource(abs, rel string, size int64) Source {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(abs)), ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}
	return Source{
		AbsPath: abs,
		RelPath: filepath.ToSlash(rel),
		Format:  format,
		Size:    size,
	}
}
