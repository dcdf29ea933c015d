package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"techcalendar/config"
	authadapter "techcalendar/internal/adapters/auth"
	"techcalendar/internal/services"
)

// tokengen issues a staff bearer token signed with the configured secret, or
// hashes a password for STAFF_PASSWORD_HASH.
func main() {
	expiry := flag.Duration("expiry", 24*time.Hour, "token validity")
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for the given password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashPassword), bcrypt.DefaultCost)
		if err != nil {
			os.Stderr.WriteString("failed to hash password: " + err.Error() + "\n")
			os.Exit(1)
		}
		fmt.Println(string(hash))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.SecretKey == "" {
		os.Stderr.WriteString("SECRET_KEY is not set\n")
		os.Exit(1)
	}

	issuer, _ := authadapter.NewJWTTokens(cfg.SecretKey)
	token, err := issuer.Issue(services.TokenScope, *expiry)
	if err != nil {
		os.Stderr.WriteString("failed to issue token: " + err.Error() + "\n")
		os.Exit(1)
	}
	fmt.Println(token)
}
