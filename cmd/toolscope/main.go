// Command toolscope serves and manages the AI tool directory.
//
//	toolscope serve                 run the HTTP API
//	toolscope import tools.yaml     bulk-load records
//	toolscope browse --tag ai       filter the directory from the terminal
//	toolscope tags                  list every tag
//	toolscope saved list|toggle|clear|export
//
// Settings come from config.yaml in $XDG_CONFIG_HOME/toolscope, TOOLSCOPE_*
// environment variables and flags, in increasing order of precedence.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
