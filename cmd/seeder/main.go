package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/database"
	"github.com/mauv0809/seven-a-side/internal/matchmaking"
	"github.com/mauv0809/seven-a-side/internal/metrics"
	"github.com/mauv0809/seven-a-side/internal/pubsub"
	"github.com/mauv0809/seven-a-side/internal/recorder"
)

var demoRoster = []club.Player{
	{Name: "Alba Torres", Position: club.PositionGoalkeeper, Score: 72, Description: "Safe hands, loud voice."},
	{Name: "Ben Okafor", Position: club.PositionGoalkeeper, Score: 64},
	{Name: "Carla Jensen", Position: club.PositionDefender, Score: 81, Description: "Reads the game two passes ahead."},
	{Name: "Dario Rossi", Position: club.PositionDefender, Score: 69},
	{Name: "Emil Larsen", Position: club.PositionDefender, Score: 58},
	{Name: "Fatima Haddad", Position: club.PositionDefender, Score: 75},
	{Name: "Gus Novak", Position: club.PositionMidfielder, Score: 88, Description: "Runs all evening."},
	{Name: "Hana Sato", Position: club.PositionMidfielder, Score: 79},
	{Name: "Ivan Petrov", Position: club.PositionMidfielder, Score: 66},
	{Name: "Julia Berg", Position: club.PositionMidfielder, Score: 71},
	{Name: "Kofi Mensah", Position: club.PositionMidfielder, Score: 60},
	{Name: "Lena Vogel", Position: club.PositionForward, Score: 90, Description: "Top scorer three seasons running."},
	{Name: "Marco Silva", Position: club.PositionForward, Score: 77},
	{Name: "Nina Holm", Position: club.PositionForward, Score: 68},
	{Name: "Omar Farouk", Position: club.PositionForward, Score: 55},
	{Name: "Pia Andersen", Position: club.PositionForward, Score: 62},
}

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName = os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "sevens.db"
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

func main() {
	numMatches := flag.Int("matches", 0, "Number of random matches to record after seeding the roster")
	seed := flag.Int64("seed", 7, "Random seed for generated matches")
	defaultImage := flag.String("image", "https://images.unsplash.com/photo-1575361204480-aadea25e6e68?q=80&w=2671&auto=format&fit=crop", "Image used for seeded players")
	flag.Parse()

	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken := loadConfig()
	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := club.New(db)

	if _, err := seedRoster(ctx, store, *defaultImage); err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}

	if *numMatches > 0 {
		rec := recorder.New(store, metrics.NewService(), pubsub.New(""), clockwork.NewRealClock())
		if err := seedMatches(ctx, store, rec, *numMatches, rand.New(rand.NewSource(*seed))); err != nil {
			log.Fatalf("Failed to seed matches: %s", err)
		}
	}
	log.Info("Seeding finished")
}

// seedRoster inserts the demo roster unless the roster already has players.
// It returns the number of players inserted.
func seedRoster(ctx context.Context, store club.ClubStore, image string) (int, error) {
	existing, err := store.GetAllPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read roster: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Roster already has players, skipping roster seed", "count", len(existing))
		return 0, nil
	}
	for _, p := range demoRoster {
		p.Image = image
		if err := store.AddPlayer(ctx, &p); err != nil {
			return 0, fmt.Errorf("failed to insert player %s: %w", p.Name, err)
		}
	}
	log.Info("Seeded roster", "count", len(demoRoster))
	return len(demoRoster), nil
}

// seedMatches picks 14 random players, balances them and records a random result.
func seedMatches(ctx context.Context, store club.ClubStore, rec *recorder.Recorder, n int, rng *rand.Rand) error {
	players, err := store.GetAllPlayers(ctx)
	if err != nil {
		return err
	}
	if len(players) < matchmaking.SelectionSize {
		return fmt.Errorf("need at least %d players, have %d", matchmaking.SelectionSize, len(players))
	}

	for i := 0; i < n; i++ {
		rng.Shuffle(len(players), func(a, b int) { players[a], players[b] = players[b], players[a] })
		partition, err := matchmaking.Balance(players[:matchmaking.SelectionSize])
		if err != nil {
			return err
		}
		a, b := rng.Intn(6), rng.Intn(6)
		w := recorder.DeriveWinner(a, b)
		match, err := rec.RecordMatch(ctx, recorder.RecordRequest{
			TeamAIDs:   partition.TeamA.PlayerIDs(),
			TeamBIDs:   partition.TeamB.PlayerIDs(),
			TeamAScore: &a,
			TeamBScore: &b,
			Winner:     &w,
		})
		if err != nil {
			return err
		}
		log.Info("Seeded match", "matchID", match.ID, "score", fmt.Sprintf("%d-%d", a, b), "winner", match.Winner)
	}
	return nil
}
