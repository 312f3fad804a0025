package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/lsbsteg/internal/hasher"
	"github.com/AnyUserName/lsbsteg/internal/imageio"
	"github.com/AnyUserName/lsbsteg/internal/lsb"
	"github.com/AnyUserName/lsbsteg/internal/receipt"
	"github.com/AnyUserName/lsbsteg/internal/rle"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <receipt_path>",
	Short: "Check that a stego image still carries the payload in its receipt",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	receiptPath := args[0]

	r, err := receipt.ReadJSON(receiptPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	problems := verifyReceipt(r, receiptPath)
	if len(problems) == 0 {
		fmt.Fprintln(w, "  ✓ Receipt is valid")
		fmt.Fprintf(w, "  ✓ %s payload of %d bytes at %d LSB matches %s\n",
			r.Mode, r.PayloadLength, r.BPP, r.PayloadHash)
		return nil
	}

	printProblems(w, problems)
	return fmt.Errorf("verification failed with %d errors", len(problems))
}

func printProblems(w io.Writer, problems []string) {
	fmt.Fprintf(w, "  ✗ Receipt has %d error(s):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(w, "    • %s\n", p)
	}
}

// verifyReceipt checks the receipt fields, then re-extracts the payload
// from the output image it names.
func verifyReceipt(r *receipt.Receipt, receiptPath string) []string {
	problems := r.Validate()
	if len(problems) > 0 {
		// Extraction parameters can not be trusted.
		return problems
	}

	outPath := r.OutputPath(receiptPath)
	if _, err := os.Stat(outPath); err != nil {
		return append(problems, fmt.Sprintf("output image not found: %s", r.Output.Path))
	}
	if r.Output.Lossy {
		problems = append(problems, fmt.Sprintf("output %s uses lossy format %s", r.Output.Path, r.Output.Format))
	}

	img, _, err := imageio.Load(outPath)
	if err != nil {
		return append(problems, fmt.Sprintf("load output image: %v", err))
	}
	if img.Width != r.Cover.Width || img.Height != r.Cover.Height || img.Channels != r.Cover.Channels {
		problems = append(problems, fmt.Sprintf("output dimensions %dx%dx%d, receipt says %dx%dx%d",
			img.Width, img.Height, img.Channels, r.Cover.Width, r.Cover.Height, r.Cover.Channels))
	}

	stream, err := lsb.Extract(img.Pix, r.PayloadLength, r.BPP)
	if err != nil {
		return append(problems, fmt.Sprintf("extract payload: %v", err))
	}
	if !hasher.Match(stream, r.PayloadHash) {
		return append(problems, fmt.Sprintf("payload hash mismatch: image=%s, receipt=%s",
			hasher.ContentHash(stream, len(r.PayloadHash)), r.PayloadHash))
	}

	if r.RLEWidth > 0 {
		data, err := rle.ExtractLimit(stream, rle.Width(r.RLEWidth), r.OriginalLength)
		if err != nil {
			return append(problems, fmt.Sprintf("decode rle: %v", err))
		}
		if len(data) != r.OriginalLength {
			problems = append(problems, fmt.Sprintf("original_length mismatch: receipt=%d, decoded=%d",
				r.OriginalLength, len(data)))
		}
	}
	return problems
}
