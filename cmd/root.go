package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/lsbsteg/internal/errs"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lsbsteg",
	Short: "Hide data in the least significant bits of an image",
	Long: `lsbsteg hides a text message, a file or a whole image inside the
least significant bits of a cover image's pixels and reveals it again.

Payloads can be run-length encoded first. A JSON receipt records every
parameter needed to reveal and verify the payload later.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"lsbsteg %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Invalidf("%v", err)
	})
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[lsbsteg] "+format+"\n", args...)
	}
}

// warnf always prints, verbose or not.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[lsbsteg] warning: "+format+"\n", args...)
}
