// bookrec answers recommendation queries from the command line using the same
// artifacts the API serves.
package main

import (
	"fmt"
	"os"

	"bookrec/cmd/bookrec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
