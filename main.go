// reddit-archiver downloads a user's saved and upvoted reddit posts to
// local disk, driven by the queue tables of a reddit export database.
package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/reddit-archiver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
