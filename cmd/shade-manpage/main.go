package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/shade/cmd/shade"
	"github.com/arthur-debert/shade/internal/version"
)

func main() {
	rootCmd := shade.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SHADE",
		Section: "1",
		Source:  "shade " + version.Version,
		Manual:  "shade manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
