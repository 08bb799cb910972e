// Command placequery runs one place search against the live providers using
// the same environment configuration as the service.
package main

import (
	"os"

	"github.com/couchcryptid/place-search/cmd/placequery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
