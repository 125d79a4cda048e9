// Command tokengen prints a signed access token for local testing. It reads
// the same JWT_* variables as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "immat/internal/jwt_token"
	"immat/internal/platform/config"
	"immat/pkg/domain"
)

func main() {
	var (
		role    = flag.String("role", string(domain.RoleAgent), "role carried by the token")
		dept    = flag.Int("department", 1, "department id")
		userID  = flag.String("user", "", "user id (random when empty)")
		name    = flag.String("name", "", "display name")
		email   = flag.String("email", "", "email address")
		expires = flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL)")
	)
	flag.Parse()

	if err := run(*role, *dept, *userID, *name, *email, *expires); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(roleName string, dept int, rawUser, name, email string, ttl time.Duration) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(roleName)
	if err != nil {
		return err
	}
	if dept <= 0 {
		return fmt.Errorf("department must be positive")
	}
	user := domain.UserID(uuid.New())
	if rawUser != "" {
		if user, err = domain.ParseUserID(rawUser); err != nil {
			return err
		}
	}
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	tokens := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	token, err := tokens.GenerateAccessToken(jwttoken.Subject{
		UserID:       user,
		Role:         role,
		DepartmentID: domain.DepartmentID(dept),
		Name:         name,
		Email:        email,
	}, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
