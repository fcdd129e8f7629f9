// cmd/abalonectl/main.go
//
// abalonectl – command-line client for the prediction API.  It runs the
// same measurement validation as the web form before anything is sent.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
