package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meur/buildforge/internal/logger"
	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/storage"
	"github.com/meur/buildforge/internal/weapons"
)

func main() {
	dbPath := flag.String("db", "./buildforge.db", "SQLite database path")
	seedPath := flag.String("seeds", "./seeds/builds.json", "Builds seed file")
	flag.Parse()

	log, err := logger.New("info", "text")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	catalog, err := weapons.Default()
	if err != nil {
		log.Fatal("Failed to load weapon catalog", zap.Error(err))
	}

	builds, err := loadSeeds(*seedPath, catalog)
	if err != nil {
		log.Fatal("Failed to read seeds", zap.String("path", *seedPath), zap.Error(err))
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	if err := store.BulkCreateBuilds(context.Background(), builds); err != nil {
		log.Fatal("Failed to seed builds", zap.Error(err))
	}

	log.Info("Seeding complete", zap.Int("builds", len(builds)), zap.String("db", *dbPath))
}

// loadSeeds reads and validates a JSON array of builds
func loadSeeds(path string, catalog *weapons.Catalog) ([]models.Build, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var builds []models.Build
	if err := json.Unmarshal(data, &builds); err != nil {
		return nil, err
	}

	for i := range builds {
		b := &builds[i]
		if !catalog.Has(b.Weapon) {
			return nil, fmt.Errorf("build #%d: unknown weapon %q", i, b.Weapon)
		}
		for _, slot := range models.GearSlots() {
			if err := models.ValidateSlot(slot, b.Abilities(slot)); err != nil {
				return nil, fmt.Errorf("build #%d: %w", i, err)
			}
		}
		if b.ID == "" {
			b.ID = stableID(b)
		}
	}
	return builds, nil
}

// stableID derives an ID from a build's content so reseeding replaces rows
func stableID(b *models.Build) string {
	var parts []string
	parts = append(parts, b.Weapon, b.Title, b.Description)
	for _, slot := range models.GearSlots() {
		parts = append(parts, b.Item(slot))
		for _, a := range b.Abilities(slot) {
			parts = append(parts, string(a))
		}
		parts = append(parts, "|")
	}
	for _, m := range b.Modes {
		parts = append(parts, string(m))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(parts, ":"))).String()
}
