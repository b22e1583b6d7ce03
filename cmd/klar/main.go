package main

import (
	"fmt"
	"os"

	"github.com/vytor/klar/internal/cli"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
