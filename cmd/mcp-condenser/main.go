// Package main is the entry point for the mcp-condenser CLI.
package main

import (
	"os"

	"github.com/teriyakichild/mcp-condenser/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
