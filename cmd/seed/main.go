// Command main runs the database seeder for ProjectHub.
package main

import (
	"flag"
	"log"

	"projecthub/internal/config"
	"projecthub/internal/database"
	"projecthub/internal/seed"
	"projecthub/internal/service"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numProjects := flag.Int("projects", 50, "Number of projects to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Use a placeholder password hash (faster, accounts cannot log in)")
	randSeed := flag.Int64("seed", 0, "Fake-data generator seed (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d projects, clean=%v\n", *numUsers, *numProjects, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := service.NewFileStore(cfg.UploadRoot)

	err = seed.Run(db, store, seed.Options{
		NumUsers:    *numUsers,
		NumProjects: *numProjects,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
		Seed:        *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Done. Log in as %q with password %q\n", seed.AdminUsername, seed.DefaultPassword)
}
