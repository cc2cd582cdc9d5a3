// Command primfit detects parametric primitives in scene meshes and emits
// OpenSCAD scripts that rebuild them.
package main

import (
	"fmt"
	"os"
)

// version could be set at build time.
var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
