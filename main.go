package main

import (
	"fmt"
	"os"

	"github.com/AnyUserName/lsbsteg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lsbsteg: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
