// Package main provides admin management utilities for ProjectHub.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list-admins         - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		setAdmin(db, os.Args[2], false)

	case "list-admins":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setAdmin(db *gorm.DB, userID string, isAdmin bool) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if user.IsAdmin == isAdmin {
		fmt.Printf("User %s (ID %d) already has is_admin=%v\n", user.Username, user.ID, isAdmin)
		return
	}

	if err := db.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	verb := "promoted to"
	if !isAdmin {
		verb = "demoted from"
	}
	fmt.Printf("User %s (ID %d) %s admin\n", user.Username, user.ID, verb)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}

	fmt.Printf("%-6s %-24s %s\n", "ID", "USERNAME", "EMAIL")
	for _, admin := range admins {
		fmt.Printf("%-6d %-24s %s\n", admin.ID, admin.Username, admin.Email)
	}
}
