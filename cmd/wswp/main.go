package main

import (
	"os"

	"github.com/rcliao/what-should-we-play/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
