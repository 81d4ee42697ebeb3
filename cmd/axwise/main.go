package main

import (
	"os"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
