package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/AnyUserName/lsbsteg/internal/survey"
	"github.com/spf13/cobra"
)

var (
	capacityBPP     int
	capacityWorkers int
)

// Densities shown when --bpp is not given.
var defaultDensities = []int{1, 2, 4, 8}

var capacityCmd = &cobra.Command{
	Use:   "capacity <image_or_dir>",
	Short: "Report how many payload bytes cover images can carry",
	Long: `Decodes one image, or every image under a directory (png, jpg, jpeg,
webp, gif, bmp, tiff, qoi), and prints how many payload bytes fit at each bit
density. Hidden directories are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapacity,
}

func init() {
	capacityCmd.Flags().IntVar(&capacityBPP, "bpp", 0, "only report this density (0 = 1, 2, 4 and 8)")
	capacityCmd.Flags().IntVarP(&capacityWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.AddCommand(capacityCmd)
}

func runCapacity(cmd *cobra.Command, args []string) error {
	densities := defaultDensities
	if capacityBPP != 0 {
		if err := checkDensity(capacityBPP); err != nil {
			return err
		}
		densities = []int{capacityBPP}
	}

	start := time.Now()
	sources, err := survey.ScanImages(args[0])
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	logVerbose("found %d images in %s", len(sources), args[0])

	s := survey.New(survey.Config{Workers: capacityWorkers, Verbose: verbose})
	entries, err := s.Run(cmd.Context(), sources)
	if err != nil {
		return fmt.Errorf("survey: %w", err)
	}

	printCapacityReport(cmd.OutOrStdout(), entries, densities, time.Since(start))
	return nil
}

func printCapacityReport(w io.Writer, entries []survey.Entry, densities []int, elapsed time.Duration) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-32s %-6s %-14s", "Image", "Format", "Dimensions")
	for _, d := range densities {
		fmt.Fprintf(w, " %10s", fmt.Sprintf("%d LSB", d))
	}
	fmt.Fprintln(w)

	totals := make([]int64, len(densities))
	for _, e := range entries {
		dims := fmt.Sprintf("%dx%dx%d", e.Descriptor.Width, e.Descriptor.Height, e.Descriptor.Channels)
		fmt.Fprintf(w, "  %-32s %-6s %-14s", truncKey(e.Key, 32), e.Format, dims)
		for i, d := range densities {
			fmt.Fprintf(w, " %10s", formatBytes(int64(e.Capacity[d])))
			totals[i] += int64(e.Capacity[d])
		}
		fmt.Fprintln(w)
	}

	if len(entries) > 1 {
		fmt.Fprintf(w, "  %-32s %-6s %-14s", fmt.Sprintf("Total (%d images)", len(entries)), "", "")
		for _, t := range totals {
			fmt.Fprintf(w, " %10s", formatBytes(t))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)
}
