package main

import (
	"fmt"
	"os"

	"github.com/yungbote/wedsite-backend/cmd/wedsite/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.SetVersionInfo(version, commit)
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
