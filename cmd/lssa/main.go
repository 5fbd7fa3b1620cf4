// Package main provides the entry point for the lssa CLI.
//
// lssa lists artists similar to the ones given on the command line, as
// shown on last.fm.
//
// Usage:
//
//	lssa "Tom Waits" "Nick Cave"
//	lssa -c 20 -j "Boards of Canada"
//
// See --help for all available options.
package main

import "os"

// main is the entry point for lssa.
func main() {
	os.Exit(run(os.Args[1:]))
}
