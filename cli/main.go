package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/enio-ireland/nx/internal/cli"
	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/config"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version string
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version != "" {
		config.SetBuildFlags(version, commit, date)
	}

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, render.FormatError(render.Styler{Enabled: !color.NoColor}, err))
		os.Exit(1)
	}
}
