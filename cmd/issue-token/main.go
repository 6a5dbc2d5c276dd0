// Command issue-token mints a dashboard bearer token signed with the
// configured HOLDOPS_AUTH_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"holdops/internal/config"
	"holdops/internal/service"
)

func main() {
	subject := flag.String("subject", "", "token subject, e.g. a team member's email (required)")
	name := flag.String("name", "", "display name embedded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (default HOLDOPS_AUTH_TOKEN_EXPIRY)")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	issued, err := service.NewTokenService(cfg.Auth).Issue(*subject, *name, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "expires: %s\n", issued.ExpiresAt.Format(time.RFC3339))
	fmt.Println(issued.Token)
}
