// Package main implements the taskdeck command: the HTTP server for the task
// manager plus the deployment and maintenance commands around it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
