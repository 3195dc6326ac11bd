package main

import (
	"fmt"
	"os"

	"github.com/shayne-snap/envni/internal/cli"
)

// Version is set at build time via -ldflags "-X main.Version=...". Empty uses the module version.
var Version string

func main() {
	cli.Version = Version
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
