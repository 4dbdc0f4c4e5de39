// Command doccompare previews documents and runs comparisons from the shell.
package main

import (
	"os"

	"github.com/local/doccompare/internal/logger"
)

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		failure.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
