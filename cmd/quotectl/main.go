// Command quotectl is a terminal client for the fuel quote API: it manages
// the delivery profile, prices and submits quotes, and lists quote history.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
