package main

import (
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := NewRootCmd(version, commit, date).Execute(); err != nil {
		os.Exit(1)
	}
}
