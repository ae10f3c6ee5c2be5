package main

import (
	"fmt"
	"os"
)

// preenchidas pelo build (-ldflags)
var (
	version = "v0.0.0"
	commit  = "none"
)

func main() {
	root := newRootCmd()
	root.Version = fmt.Sprintf("%s-%s", version, commit)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
