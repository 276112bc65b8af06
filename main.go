package main

import (
	"fmt"
	"os"

	"wisepage/presentation/terminal"
)

func main() {
	if err := terminal.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
