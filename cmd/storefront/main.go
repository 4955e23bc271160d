package main

import (
	"fmt"
	"os"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
