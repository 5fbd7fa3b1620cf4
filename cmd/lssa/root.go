package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/lssa/internal/crawler"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// NewRootCmd creates the root command for lssa.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lssa [flags] <artist>...",
		Short: "List similar artists from last.fm",
		Long: `lssa prints the artists last.fm lists as similar to each artist given.

Artists are searched one after another over a single connection. For each
one, result pages are read until --count matches are found or --pages pages
have been read.

Examples:
  # Ten similar artists for one artist
  lssa "Tom Waits"

  # Twenty each for two artists, as JSON
  lssa -c 20 -j "Tom Waits" "Nick Cave"

  # Match the spelling last.fm uses
  lssa -i "boards of canada"

  # Send a cookie with every request
  lssa -H "cookie: lfmjs=1" "Tom Waits"

Configuration file (.lssa) example:
  count: 20
  pages: 5
  headers:
    accept-language: "en-GB,en;q=0.8"`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addCrawlFlags(cmd)

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	return execute(NewRootCmd(), args, os.Stdout, os.Stderr)
}

// execute runs cmd and maps its error to an exit code. Interruption is
// not reported as an error.
func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, crawler.ErrInterrupted):
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitFailure
	}
}
