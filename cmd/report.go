package cmd

import (
	"fmt"

	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/AnyUserName/lsbsteg/internal/lsb"
	"github.com/AnyUserName/lsbsteg/internal/rle"
)

// parseRLE turns the --rle flag into a width. 0 disables RLE.
func parseRLE(n int) (rle.Width, bool, error) {
	if n == 0 {
		return 0, false, nil
	}
	w, err := rle.ParseWidth(n)
	if err != nil {
		return 0, false, err
	}
	return w, true, nil
}

// checkDensity rejects a bpp the commands can not work with. The core
// accepts 0 for an empty payload, the CLI never does.
func checkDensity(bpp int) error {
	if bpp < 1 || bpp > lsb.MaxBPP {
		return errs.Invalidf("invalid bpp: %d, must be 1-%d", bpp, lsb.MaxBPP)
	}
	return nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
