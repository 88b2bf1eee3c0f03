// Command ollactl is the operator CLI: schema migrations, admin promotion
// and onboarding lookups against the production database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
