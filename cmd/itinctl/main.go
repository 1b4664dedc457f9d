// Command itinctl runs the itinerary pipeline offline: it normalizes stored
// model completions and prints fallback plans without touching the network
// or the database.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
