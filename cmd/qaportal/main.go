// Command qaportal serves the agent performance dashboard and prints agent
// reports from the same dataset.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
