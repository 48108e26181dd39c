package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Seeds the calendar with synthetic booked engagements so a fresh install
// has realistic occupancy to demo against. Purely demo data; the engine
// itself never invents holds.

var demoClients = []struct {
	name       string
	email      string
	clientType string
	title      string
}{
	{"Harper Quinn", "harper@example.com", "direct", "The Glass Meridian"},
	{"Marlowe Press", "audio@marlowepress.example.com", "roster", "Salt and Cedar"},
	{"Dana Okafor", "dana@example.com", "direct", "A Winter of Engines"},
	{"Bright Falls Audio", "casting@brightfalls.example.com", "audition", "The Last Cartographer"},
	{"Iris Vantage", "iris@example.com", "roster", "Notes from the Undertow"},
	{"Calloway House", "production@calloway.example.com", "roster", "Seven Ways Home"},
}

func main() {
	fmt.Println("========================================")
	fmt.Println("   Seed Demo Calendar")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This will insert synthetic booked engagements so the")
	fmt.Println("calendar has occupancy to test reservations against.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Seed cancelled.")
		return
	}

	godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "narration_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fmt.Println()
	fmt.Println("Seeding booked engagements...")

	// Scatter bookings over the next ~5 months, gaps between them
	cursor := time.Now().AddDate(0, 0, 3+rng.Intn(5))
	seeded := 0

	for _, c := range demoClients {
		wordCount := 40000 + rng.Intn(80000)
		daysNeeded := (wordCount + 6974) / 6975
		start := cursor
		end := start.AddDate(0, 0, daysNeeded-1)

		status := "production"
		if rng.Intn(3) == 0 {
			status = "first15"
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO engagements(client_name, client_email, client_type, book_title,
			    word_count, start_date, end_date, status, narration_style, is_returning)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.name, c.email, c.clientType, c.title,
			wordCount, start, end, status, "dual POV", rng.Intn(2) == 0,
		)
		if err != nil {
			log.Fatalf("Seed failed for %s: %v\n", c.name, err)
		}

		fmt.Printf("  %-22s %s -> %s (%d days, %s)\n",
			c.name, start.Format("2006-01-02"), end.Format("2006-01-02"), daysNeeded, status)
		seeded++

		cursor = end.AddDate(0, 0, 2+rng.Intn(12))
	}

	fmt.Println()
	fmt.Printf("Done. Seeded %d engagements.\n", seeded)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
