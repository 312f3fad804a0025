package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

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

// maxRevealBytes caps RLE output when no receipt says how long the
// original payload was.
const maxRevealBytes = 256 << 20

type revealOptions struct {
	stego   string
	mode    string
	length  int
	output  string
	profile string
	bpp     int
	rle     int
	receipt string
	workers int

	// Set from a receipt.
	hash        string
	originalLen int
}

var revealOpts revealOptions

var revealCmd = &cobra.Command{
	Use:   "reveal [image]",
	Short: "Extract a hidden payload from an image",
	Long: `Reads the payload back out of the least significant bits of an image.

--type string prints the message, --type file writes the raw bytes and
--type image rebuilds a hidden image. Image payloads carry their own size,
so --length is only needed for them when RLE was used. With --receipt every
parameter comes from the receipt and the payload hash is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReveal,
}

func init() {
	f := revealCmd.Flags()
	f.StringVarP(&revealOpts.mode, "type", "t", receipt.ModeString, "payload type: string, image or file")
	f.IntVarP(&revealOpts.length, "length", "l", 0, "number of bytes to extract (not needed for --type image without RLE)")
	f.StringVarP(&revealOpts.output, "output", "o", "", "output path for image and file payloads")
	f.StringVarP(&revealOpts.profile, "profile", "p", profile.DefaultName, "density profile")
	f.IntVar(&revealOpts.bpp, "bpp", 1, "least significant bits used per pixel byte, 1-8 (overrides profile)")
	f.IntVar(&revealOpts.rle, "rle", 0, "decode RLE with a 1, 2, 4 or 8 byte count (overrides profile)")
	f.StringVar(&revealOpts.receipt, "receipt", "", "read parameters from a receipt written by hide")
	f.IntVarP(&revealOpts.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.AddCommand(revealCmd)
}

func runReveal(cmd *cobra.Command, args []string) error {
	opts := revealOpts
	if len(args) == 1 {
		opts.stego = args[0]
	}

	if opts.receipt != "" {
		if err := applyReceipt(&opts); err != nil {
			return err
		}
	} else {
		flags := cmd.Flags()
		prof := profile.Get(opts.profile)
		if !flags.Changed("bpp") {
			opts.bpp = prof.BPP
		}
		if !flags.Changed("rle") {
			opts.rle = prof.RLEWidth
		}
	}
	if opts.stego == "" {
		return errs.Invalidf("an image argument or --receipt is required")
	}

	return reveal(cmd.Context(), opts, cmd.OutOrStdout())
}

// applyReceipt replaces the density, RLE, type and length options with the
// ones recorded at hide time.
func applyReceipt(opts *revealOptions) error {
	r, err := receipt.ReadJSON(opts.receipt)
	if err != nil {
		return err
	}
	if problems := r.Validate(); len(problems) > 0 {
		return errs.Invalidf("invalid receipt %s: %s", opts.receipt, strings.Join(problems, "; "))
	}
	if opts.stego == "" {
		opts.stego = r.OutputPath(opts.receipt)
	}
	opts.mode = r.Mode
	opts.bpp = r.BPP
	opts.rle = r.RLEWidth
	opts.length = r.PayloadLength
	opts.hash = r.PayloadHash
	opts.originalLen = r.OriginalLength
	logVerbose("receipt: mode=%s bpp=%d rle=%d length=%d", r.Mode, r.BPP, r.RLEWidth, r.PayloadLength)
	return nil
}

func reveal(ctx context.Context, opts revealOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkDensity(opts.bpp); err != nil {
		return err
	}
	switch opts.mode {
	case receipt.ModeString, receipt.ModeImage, receipt.ModeFile:
	default:
		return errs.Invalidf("unknown payload type %q, want string, image or file", opts.mode)
	}
	width, useRLE, err := parseRLE(opts.rle)
	if err != nil {
		return err
	}
	if opts.length < 0 {
		return errs.Invalidf("negative length %d", opts.length)
	}

	img, _, err := imageio.Load(opts.stego)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	logVerbose("read image %q with dimensions %dx%dx%d=%d",
		opts.stego, img.Width, img.Height, img.Channels, len(img.Pix))

	length := opts.length
	if opts.mode == receipt.ModeImage && !useRLE && length == 0 {
		if length, err = imagePayloadLength(img.Pix, opts.bpp); err != nil {
			return err
		}
	}
	if length == 0 && opts.mode != receipt.ModeImage {
		warnf("--length is 0, nothing to extract")
	}
	if opts.mode == receipt.ModeImage && useRLE && length == 0 {
		return errs.Invalidf("--length is required to reveal an RLE encoded image")
	}

	stream, err := lsb.ExtractParallel(ctx, img.Pix, length, opts.bpp, opts.workers)
	if err != nil {
		return fmt.Errorf("reveal %s: %w", opts.mode, err)
	}
	logVerbose("extracted message size: %d", len(stream))

	if opts.hash != "" && !hasher.Match(stream, opts.hash) {
		return fmt.Errorf("payload hash mismatch: got %s, want %s",
			hasher.ContentHash(stream, len(opts.hash)), opts.hash)
	}

	payload := stream
	if useRLE {
		limit := maxRevealBytes
		if opts.originalLen > 0 {
			limit = opts.originalLen
		}
		if payload, err = rle.ExtractLimit(stream, width, limit); err != nil {
			return fmt.Errorf("rle: %w", err)
		}
		logVerbose("size after RLE extraction: %d", len(payload))
	}
	if opts.hash != "" && len(payload) != opts.originalLen {
		return fmt.Errorf("payload length mismatch: got %d, want %d", len(payload), opts.originalLen)
	}

	switch opts.mode {
	case receipt.ModeString:
		if opts.output != "" {
			return writePayload(opts.output, payload)
		}
		fmt.Fprintf(w, "%s\n", payload)
		return nil
	case receipt.ModeFile:
		out := opts.output
		if out == "" {
			out = strings.TrimSuffix(opts.stego, filepath.Ext(opts.stego)) + "_out.bin"
		}
		return writePayload(out, payload)
	case receipt.ModeImage:
		hidden, err := container.Decode(payload)
		if err != nil {
			return fmt.Errorf("decode hidden image: %w", err)
		}
		logVerbose("read image size %dx%dx%d=%d", hidden.Width, hidden.Height, hidden.Channels, len(hidden.Pix))
		out := opts.output
		if out == "" {
			out = imageio.DefaultOutputPath(opts.stego)
		}
		if err := imageio.Save(hidden, out, 100); err != nil {
			return err
		}
		logVerbose("saved revealed image to %s", out)
	}
	return nil
}

// imagePayloadLength reads the container header hidden at the start of the
// pixels and returns the total container size.
func imagePayloadLength(pixels []byte, bpp int) (int, error) {
	header, err := lsb.Extract(pixels, container.HeaderSize, bpp)
	if err != nil {
		return 0, fmt.Errorf("reveal image header: %w", err)
	}
	d, err := container.DecodeHeader(header)
	if err != nil {
		return 0, err
	}
	n, err := container.EncodedSize(d)
	if err != nil {
		return 0, &errs.FormatError{Format: "container", Reason: err.Error()}
	}
	logVerbose("read image size %dx%dx%d", d.Width, d.Height, d.Channels)
	return n, nil
}

func writePayload(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logVerbose("wrote %d bytes to %s", len(data), path)
	return nil
}
