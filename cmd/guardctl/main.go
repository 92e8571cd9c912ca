// Command guardctl exercises the guard packages from a terminal: sanitize
// and validate input, manage an obfuscated local vault and send requests
// through the secure API client.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
