package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	userID := flag.String("user", "", "User ID for the token")
	tenantID := flag.String("tenant", "", "Tenant (company) ID for the token")
	role := flag.String("role", "", "Primary role, e.g. admin")
	roles := flag.String("roles", "", "Comma-separated list of additional roles")
	superAdmin := flag.Bool("superadmin", false, "Issue a superadmin token")
	expirationHours := flag.Int("exp", 24, "Token expiration in hours")
	flag.Parse()

	if *userID == "" {
		log.Fatal("User ID is required")
	}
	if *tenantID == "" && !*superAdmin {
		log.Fatal("Tenant ID is required unless -superadmin is set")
	}

	principal := domain.Principal{
		UserID:       *userID,
		TenantID:     *tenantID,
		Role:         *role,
		IsSuperAdmin: *superAdmin,
		Roles: lo.Compact(lo.Map(strings.Split(*roles, ","), func(r string, _ int) string {
			return strings.TrimSpace(r)
		})),
	}

	secret := getEnvOrDefault("JWT_SECRET_KEY", "your-default-secret-key")
	token, err := middleware.GenerateToken(principal, secret, time.Duration(*expirationHours)*time.Hour)
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}

	fmt.Printf("Generated JWT Token:\n%s\n", token)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
