package main

import (
	"fmt"
	"os"

	"github.com/tyemirov/collect/internal/cli"
	"github.com/tyemirov/collect/internal/utils"
)

// main is the entry point for the collect command.
func main() {
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		fmt.Fprintf(os.Stderr, utils.ErrorLogFormat+"\n", applicationExecutionError)
		os.Exit(1)
	}
}
