// Package main is the entry point for the overwatch packet snooper.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/overwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
