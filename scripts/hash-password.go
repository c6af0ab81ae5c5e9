// Prints a bcrypt hash for customer_portal_accounts.password_hash, for use
// with PORTAL_CREDENTIAL_MODE=bcrypt.
package main

import (
	"fmt"
	"os"

	"github.com/trademate/portal-server-go/internal/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hash, err := util.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
