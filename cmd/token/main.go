// Command token issues a bearer token for the write routes, signed with the
// configured jwt.secret.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"wallet-transaction-api/config"
	"wallet-transaction-api/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	subject := flag.String("sub", "", "token subject, e.g. a client name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.AuthEnabled() {
		fmt.Fprintln(os.Stderr, "jwt.secret is not set (WTA_JWT_SECRET)")
		os.Exit(1)
	}

	token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer).Generate(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
