package survey

import (
	"fmt"
	"os"

	"github.com/AnyUserName/lsbsteg/internal/hasher"
	"github.com/AnyUserName/lsbsteg/internal/imageio"
	"github.com/AnyUserName/lsbsteg/internal/lsb"
	"github.com/AnyUserName/lsbsteg/internal/raster"
)

// Entry is the capacity report for one cover image.
type Entry struct {
	Key        string
	Format     string
	FileSize   int64
	Hash       string
	Descriptor raster.Descriptor
	PixelBytes int
	// Capacity[b] is the payload bytes that fit at bpp b (index 0 unused).
	Capacity [lsb.MaxBPP + 1]int
}

// surveyImage decodes one source and computes its capacity at every density.
func surveyImage(src Source) (Entry, error) {
	entry := Entry{Key: src.RelPath, FileSize: src.Size}

	img, info, err := imageio.Load(src.AbsPath)
	if err != nil {
		return entry, err
	}
	entry.Format = info.Format
	entry.Descriptor = img.Descriptor
	entry.PixelBytes = len(img.Pix)
	for bpp := 1; bpp <= lsb.MaxBPP; bpp++ {
		entry.Capacity[bpp] = lsb.Capacity(entry.PixelBytes, bpp)
	}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		return entry, fmt.Errorf("open %s: %w", src.RelPath, err)
	}
	defer f.Close()
	entry.Hash, err = hasher.ContentHashReader(f, hasher.DigestLen)
	if err != nil {
		return entry, fmt.Errorf("hash %s: %w", src.RelPath, err)
	}
	return entry, nil
}
