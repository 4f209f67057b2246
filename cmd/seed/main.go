// Package main seeds a data directory with a demo game library.
//
// It accepts the same flags and environment as the server. Stop the server
// first: the store and search index are opened exclusively.
//
// Usage:
//
//	DATA_PATH=~/GameSync/data go run ./cmd/seed
//	go run ./cmd/seed -data-path /tmp/gamesync -store-driver sqlite
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/di/providers"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/service"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

var demoGames = []service.CreateGameRequest{
	{
		Name:            "Sushi Go!",
		Description:     "Pass-the-hand card drafting around a conveyor belt of sushi.",
		MinPlayers:      2,
		MaxPlayers:      5,
		PlayTimeMinutes: 15,
		Tags:            []string{"theme:Food", "type:Card Game", "mechanics:Drafting", "interaction:Competitive"},
	},
	{
		Name:            "7 Wonders",
		Description:     "Draft cards over three ages to build an ancient civilization.",
		MinPlayers:      3,
		MaxPlayers:      7,
		PlayTimeMinutes: 30,
		Tags:            []string{"theme:Ancient", "type:Strategy", "mechanics:Drafting", "mechanics:Set Collection", "interaction:Competitive"},
	},
	{
		Name:            "Pandemic",
		Description:     "Work together to treat outbreaks and cure four diseases.",
		MinPlayers:      2,
		MaxPlayers:      4,
		PlayTimeMinutes: 45,
		Tags:            []string{"theme:Medical", "type:Strategy", "mechanics:Hand Management", "interaction:Cooperative"},
	},
	{
		Name:            "Codenames",
		Description:     "Two rival spymasters give one-word clues to their teams.",
		MinPlayers:      2,
		MaxPlayers:      8,
		PlayTimeMinutes: 15,
		Tags:            []string{"theme:Spies", "type:Party", "mechanics:Deduction", "interaction:Team-Based"},
	},
	{
		Name:            "Azul",
		Description:     "Collect and place tiles to decorate the royal palace walls.",
		MinPlayers:      2,
		MaxPlayers:      4,
		PlayTimeMinutes: 40,
		Tags:            []string{"theme:Abstract", "type:Family", "mechanics:Pattern Building", "interaction:Competitive"},
	},
	{
		Name:            "Terraforming Mars",
		Description:     "Corporations compete to make Mars habitable.",
		MinPlayers:      1,
		MaxPlayers:      5,
		PlayTimeMinutes: 120,
		Tags:            []string{"theme:Space", "type:Strategy", "mechanics:Engine Building", "mechanics:Hand Management", "interaction:Competitive"},
	},
	{
		Name:            "Wingspan",
		Description:     "Attract birds to your wildlife preserves.",
		MinPlayers:      1,
		MaxPlayers:      5,
		PlayTimeMinutes: 60,
		Tags:            []string{"theme:Animals", "type:Strategy", "mechanics:Engine Building", "interaction:Competitive"},
	},
	{
		Name:            "One Night Ultimate Werewolf",
		Description:     "A fast game of hidden roles and bluffing in a single night.",
		MinPlayers:      3,
		MaxPlayers:      10,
		PlayTimeMinutes: 10,
		Tags:            []string{"theme:Horror", "type:Party", "mechanics:Hidden Roles", "interaction:Team-Based"},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, path, err := providers.OpenStore(cfg, logr)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	fmt.Printf("Opened %s store at %s\n", cfg.Data.Driver, path)

	index, err := search.NewGameIndex(search.Options{DataPath: cfg.Data.BasePath, Logger: logr.Logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	cat := catalog.New(st, logr.Logger)
	manager := taxonomy.NewManager(st, taxonomy.NewRegistry(), cfg.CollationTag(), logr.Logger)
	tags := service.NewTagService(cat, manager, index, logr.Logger)
	games := service.NewGameService(st, cat, manager, index, logr.Logger)

	ctx := context.Background()
	if err := tags.Bootstrap(ctx, cfg.Taxonomy.SeedDefaults); err != nil {
		log.Fatalf("Failed to bootstrap tags: %v", err)
	}

	existing, err := games.List(ctx, service.GameFilter{})
	if err != nil {
		log.Fatalf("Failed to list games: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, g := range existing {
		have[g.Name] = true
	}

	created := 0
	for _, req := range demoGames {
		if have[req.Name] {
			fmt.Printf("  skip   %s (already in library)\n", req.Name)
			continue
		}
		g, err := games.Create(ctx, req)
		if err != nil {
			var domainErr *domainerrors.Error
			if domainerrors.As(err, &domainErr) {
				log.Fatalf("Failed to create %q: %s (%s)", req.Name, domainErr.Message, domainErr.Code)
			}
			log.Fatalf("Failed to create %q: %v", req.Name, err)
		}
		created++
		fmt.Printf("  added  %s [%s] with %d tags\n", g.Name, g.ID, len(g.Tags))
	}

	count, _ := index.DocumentCount()
	fmt.Printf("\nSeeded %d games (%d in library, %d indexed)\n", created, len(existing)+created, count)
}
