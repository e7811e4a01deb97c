// Package main is the entry point for the Chartviz CLI application.
package main

import (
	"chartviz/cli/cmd"
)

func main() {
	cmd.Execute()
}
