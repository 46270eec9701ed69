package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/array/applications-console/internal/config"
	"github.com/array/applications-console/internal/middleware"
)

// token mints an operator access token with the configured signing key.
// JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must match the running server's.
func main() {
	operator := flag.String("operator", "", "operator identity (token subject)")
	role := flag.String("role", "admin", "operator role")
	flag.Parse()

	if *operator == "" {
		fmt.Fprintln(os.Stderr, "usage: token -operator <name> [-role admin]")
		os.Exit(2)
	}

	cfg := config.Load()
	token, err := middleware.IssueToken(cfg.JWT, *operator, *role, time.Now())
	if err != nil {
		slog.Error("Failed to issue token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
