// ABOUTME: Entry point for cooking-codex
// ABOUTME: Terminal client for managing recipes on a Cooking Codex server

package main

import (
	"fmt"
	"os"

	"github.com/markalston/cooking-codex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
