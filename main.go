// The main package for the streetlens executable.
package main

import (
	"github.com/streetlens/streetlens/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
