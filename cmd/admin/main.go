package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"hospitalchat/backend/internal/auth"
	"hospitalchat/backend/internal/config"
	"hospitalchat/backend/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("  token <id> <name> <role> [hours]")
		fmt.Println("  sessions [limit]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "token":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin token <id> <name> <role> [hours]")
			os.Exit(1)
		}
		ttl := cfg.TokenTTL
		if len(os.Args) > 5 {
			hours, err := strconv.Atoi(os.Args[5])
			if err != nil || hours <= 0 {
				fmt.Println("Invalid duration. Please provide a positive integer.")
				os.Exit(1)
			}
			ttl = time.Duration(hours) * time.Hour
		}
		token, err := issueToken(cfg, os.Args[2], os.Args[3], os.Args[4], ttl)
		if err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
		fmt.Println(token)
	case "sessions":
		limit := 20
		if len(os.Args) > 2 {
			limit, err = strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Println("Invalid limit. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := listSessions(cfg, limit); err != nil {
			log.Fatalf("Error listing sessions: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func issueToken(cfg *config.Config, id, name, role string, ttl time.Duration) (string, error) {
	resolver := auth.NewResolver(cfg.JWTSecret, cfg.StaffRoles)
	if !resolver.IsStaffRole(role) {
		fmt.Fprintf(os.Stderr, "note: role %q is not a staff role, the token identifies a patient\n", role)
	}
	return resolver.Issue(id, name, role, ttl)
}

func listSessions(cfg *config.Config, limit int) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := storage.Connect(ctx, cfg.DatabaseURL, "") // No redis needed for admin CLI
	if err != nil {
		return err
	}
	defer s.Close()

	sessions, err := s.RecentSessions(ctx, limit)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		fmt.Printf("%s  %-8s subject=%-10s staff=%-6s patient=%-6s %8s  %s\n",
			session.DisconnectedAt.Format(time.RFC3339),
			session.IdentityKind,
			session.SubjectID,
			session.StaffID,
			session.PatientID,
			session.Duration().Round(time.Second),
			session.Reason,
		)
	}
	return nil
}
