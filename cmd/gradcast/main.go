// Command gradcast forecasts per-course semester metrics from a historical panel CSV and
// reconciles the forecasts with the history
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
