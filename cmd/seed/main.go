// Command seed populates the database with demo content: users, posts,
// comment threads, and generated replies.
package main

import (
	"flag"
	"log"

	"kindathreads/internal/config"
	"kindathreads/internal/database"
	"kindathreads/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	maxDays := flag.Int("max-days", 90, "Spread content over the past N days")
	blockedRatio := flag.Float64("blocked-ratio", 0.1, "Fraction of content seeded as blocked")
	autoReplyRatio := flag.Float64("auto-reply-ratio", 0.4, "Fraction of posts with auto-reply enabled")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords for faster seeding")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	profilePath := flag.String("profile", "", "Apply a YAML fixture profile instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		Users:          *numUsers,
		Posts:          *numPosts,
		MaxDays:        *maxDays,
		BlockedRatio:   *blockedRatio,
		AutoReplyRatio: *autoReplyRatio,
		SkipBcrypt:     *skipBcrypt,
		DryRun:         *dryRun,
	}
	s := seed.NewSeeder(db, opts)

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *profilePath != "" {
		profile, err := seed.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("Failed to load profile: %v", err)
		}
		if err := profile.Apply(db); err != nil {
			log.Fatalf("Profile seeding failed: %v", err)
		}
		log.Printf("Applied fixture profile %s", *profilePath)
		return
	}

	if err := s.Seed(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. All seeded users have the password: password123")
}
