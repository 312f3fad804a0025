package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/lsbsteg/internal/container"
	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/AnyUserName/lsbsteg/internal/hasher"
	"github.com/AnyUserName/lsbsteg/internal/imageio"
	"github.com/AnyUserName/lsbsteg/internal/lsb"
	"github.com/AnyUserName/lsbsteg/internal/profile"
	"github.com/AnyUserName/lsbsteg/internal/receipt"
	"github.com/AnyUserName/lsbsteg/internal/rle"
	"github.com/spf13/cobra"
)

type hideOptions struct {
	cover   string
	mode    string // receipt.ModeString, ModeImage or ModeFile
	text    string
	image   string
	file    string
	output  string
	profile string
	bpp     int
	rle     int
	receipt string
	workers int
	quality int
}

var hideOpts hideOptions

var hideCmd = &cobra.Command{
	Use:   "hide <image>",
	Short: "Hide a message, file or image in a cover image",
	Long: `Embeds the payload in the least significant bits of every pixel byte
of the cover image and saves the result.

Exactly one of --string, --image or --file selects the payload. An image
payload is stored with a 12-byte header (width, height, channels) so reveal
can rebuild it. The output format follows the output extension; use a
lossless one (png, bmp, tiff) or the payload is lost.`,
	Args: cobra.ExactArgs(1),
	RunE: runHide,
}

func init() {
	f := hideCmd.Flags()
	f.StringVarP(&hideOpts.text, "string", "s", "", "message string to hide")
	f.StringVarP(&hideOpts.image, "image", "i", "", "path to an image to hide")
	f.StringVarP(&hideOpts.file, "file", "f", "", "path to a file to hide")
	f.StringVarP(&hideOpts.output, "output", "o", "", "output image (default <input>_out.png)")
	f.StringVarP(&hideOpts.profile, "profile", "p", profile.DefaultName, "density profile")
	f.IntVar(&hideOpts.bpp, "bpp", 1, "least significant bits used per pixel byte, 1-8 (overrides profile)")
	f.IntVar(&hideOpts.rle, "rle", 0, "run-length encode with a 1, 2, 4 or 8 byte count (overrides profile)")
	f.StringVar(&hideOpts.receipt, "receipt", "", "write a JSON receipt to this path")
	f.IntVarP(&hideOpts.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.IntVarP(&hideOpts.quality, "quality", "q", 100, "quality for lossy output formats")
	hideCmd.MarkFlagsMutuallyExclusive("string", "image", "file")
	hideCmd.MarkFlagsOneRequired("string", "image", "file")
	rootCmd.AddCommand(hideCmd)
}

func runHide(cmd *cobra.Command, args []string) error {
	opts := hideOpts
	opts.cover = args[0]

	flags := cmd.Flags()
	switch {
	case flags.Changed("string"):
		opts.mode = receipt.ModeString
	case flags.Changed("image"):
		opts.mode = receipt.ModeImage
	case flags.Changed("file"):
		opts.mode = receipt.ModeFile
	}

	prof := profile.Get(opts.profile)
	if !profile.Known(opts.profile) {
		warnf("unknown profile %q, using %s", opts.profile, profile.DefaultName)
	}
	if !flags.Changed("bpp") {
		opts.bpp = prof.BPP
	}
	if !flags.Changed("rle") {
		opts.rle = prof.RLEWidth
	}

	start := time.Now()
	r, err := hide(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printHideReport(cmd.OutOrStdout(), r, time.Since(start))
	return nil
}

// hide embeds the payload described by opts and returns the receipt of the
// run. The receipt is written to disk only when opts.receipt is set.
func hide(ctx context.Context, opts hideOptions) (*receipt.Receipt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkDensity(opts.bpp); err != nil {
		return nil, err
	}
	width, useRLE, err := parseRLE(opts.rle)
	if err != nil {
		return nil, err
	}

	cover, info, err := imageio.Load(opts.cover)
	if err != nil {
		return nil, fmt.Errorf("load cover: %w", err)
	}
	logVerbose("read image %q with dimensions %dx%dx%d=%d",
		opts.cover, cover.Width, cover.Height, cover.Channels, len(cover.Pix))
	// Hash before saving, the output may overwrite the cover.
	coverHash, err := hashFile(opts.cover)
	if err != nil {
		return nil, err
	}

	payload, source, err := buildPayload(opts)
	if err != nil {
		return nil, err
	}
	logVerbose("message size: %d", len(payload))

	r := receipt.New(opts.mode)
	r.OriginalLength = len(payload)
	r.Source = source

	if useRLE {
		payload, err = rle.Compress(payload, width)
		if err != nil {
			return nil, fmt.Errorf("rle: %w", err)
		}
		logVerbose("size after RLE compression: %d", len(payload))
		if len(payload) > r.OriginalLength {
			warnf("RLE grew the payload from %d to %d bytes", r.OriginalLength, len(payload))
		}
		r.RLEWidth = int(width)
	}

	stego := cover.Clone()
	if err := lsb.EmbedParallel(ctx, stego.Pix, payload, opts.bpp, opts.workers); err != nil {
		return nil, fmt.Errorf("hide %s: %w", opts.mode, err)
	}
	logVerbose("%d of %d pixel bytes changed", changedBytes(cover.Pix, stego.Pix), len(stego.Pix))

	outPath := opts.output
	if outPath == "" {
		outPath = imageio.DefaultOutputPath(opts.cover)
	}
	lossy := imageio.IsLossy(outPath)
	if lossy {
		warnf("%s is a lossy format, the hidden payload will not survive", filepath.Ext(outPath))
	}
	if err := imageio.Save(stego, outPath, opts.quality); err != nil {
		return nil, err
	}
	logVerbose("saved modified image to %s", outPath)

	r.BPP = opts.bpp
	r.PayloadLength = len(payload)
	r.PayloadHash = hasher.ContentHash(payload, hasher.DigestLen)
	r.Cover = receipt.CoverInfo{
		Path:     opts.cover,
		Format:   info.Format,
		Width:    cover.Width,
		Height:   cover.Height,
		Channels: cover.Channels,
		Hash:     coverHash,
	}
	r.Output = receipt.OutputInfo{
		Path:   outPath,
		Format: formatOf(outPath),
		Lossy:  lossy,
	}

	if opts.receipt != "" {
		stored := *r
		stored.Output.Path = relativeTo(opts.receipt, outPath)
		if err := receipt.WriteJSON(&stored, opts.receipt); err != nil {
			return nil, fmt.Errorf("write receipt: %w", err)
		}
		logVerbose("wrote receipt to %s", opts.receipt)
	}
	return r, nil
}

// buildPayload returns the bytes to embed and, for image and file payloads,
// the path they came from.
func buildPayload(opts hideOptions) ([]byte, string, error) {
	switch opts.mode {
	case receipt.ModeString:
		return []byte(opts.text), "", nil
	case receipt.ModeImage:
		img, _, err := imageio.Load(opts.image)
		if err != nil {
			return nil, "", fmt.Errorf("load payload image: %w", err)
		}
		logVerbose("read image %q with dimensions %dx%dx%d=%d",
			opts.image, img.Width, img.Height, img.Channels, len(img.Pix))
		data, err := container.Encode(img)
		if err != nil {
			return nil, "", err
		}
		return data, opts.image, nil
	case receipt.ModeFile:
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, "", fmt.Errorf("read payload file: %w", err)
		}
		return data, opts.file, nil
	}
	return nil, "", errs.Invalidf("one of --string, --image or --file is required")
}

func changedBytes(a, b []byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h, err := hasher.ContentHashReader(f, hasher.DigestLen)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return h, nil
}

// relativeTo expresses target relative to the directory holding file, so a
// receipt stays valid when its directory is moved as a whole.
func relativeTo(file, target string) string {
	absDir, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return target
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

func formatOf(path string) string {
	enc, err := imageio.NewRegistry().ForPath(path)
	if err != nil {
		return ""
	}
	return enc.Format()
}

func printHideReport(w io.Writer, r *receipt.Receipt, elapsed time.Duration) {
	pixelBytes := int(r.Cover.Width) * int(r.Cover.Height) * int(r.Cover.Channels)
	capacity := lsb.Capacity(pixelBytes, r.BPP)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Cover:       %s (%dx%dx%d, %s)\n",
		r.Cover.Path, r.Cover.Width, r.Cover.Height, r.Cover.Channels, r.Cover.Format)
	fmt.Fprintf(w, "  Payload:     %s, %s\n", r.Mode, formatBytes(int64(r.OriginalLength)))
	if r.RLEWidth > 0 {
		fmt.Fprintf(w, "  RLE:         %s -> %s (%s counts)\n",
			formatBytes(int64(r.OriginalLength)), formatBytes(int64(r.PayloadLength)), rle.Width(r.RLEWidth))
	}
	usage := float64(0)
	if capacity > 0 {
		usage = float64(r.PayloadLength) / float64(capacity) * 100
	}
	fmt.Fprintf(w, "  Density:     %d LSB, %s of %s used (%.1f%%)\n",
		r.BPP, formatBytes(int64(r.PayloadLength)), formatBytes(int64(capacity)), usage)
	fmt.Fprintf(w, "  Hash:        %s\n", r.PayloadHash)
	fmt.Fprintf(w, "  Output:      %s\n", r.Output.Path)
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)
	if r.Mode != receipt.ModeImage || r.RLEWidth > 0 {
		fmt.Fprintf(w, "  Reveal with --length %d\n", r.PayloadLength)
		fmt.Fprintln(w)
	}
}
