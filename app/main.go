package main

import (
	"os"
)

// Usage: mygrep [-r] -E <pattern> [paths...]
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
