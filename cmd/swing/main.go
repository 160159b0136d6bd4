package main

import (
	"fmt"
	"os"

	"github.com/matteolongo/swing-screener-sub002/cmd/swing/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
