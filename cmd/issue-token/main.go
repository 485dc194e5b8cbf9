// Command issue-token mints a bearer token for the admin routes.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"timeclock-backend/internal/config"
	"timeclock-backend/internal/middleware"
)

func main() {
	flagSet := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	subject := flagSet.String("subject", "ops", "token subject")
	role := flagSet.String("role", middleware.RoleAdmin, "admin or manager")
	ttl := flagSet.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		log.Fatalf("flags: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.JwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleManager {
		log.Fatalf("unsupported role %q", *role)
	}

	token, err := middleware.IssueToken(*subject, *role, cfg.JwtSecret, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
