package main

import (
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, openRuntime).Execute(); err != nil {
		os.Exit(1)
	}
}
