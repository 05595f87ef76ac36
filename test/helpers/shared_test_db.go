package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/bizsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/bizsim-go/internal/infrastructure/database"
)

// SharedTestDB is the database every BDD scenario writes to
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database.
// Called once in TestMain before running any scenario.
func InitializeSharedTestDB() error {
	db, err := database.Open(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables clears every table between scenarios
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	for _, table := range []string{"snapshots", "simulation_logs", "daily_stats"} {
		if err := SharedTestDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// CloseSharedTestDB closes the shared connection after all scenarios
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	return database.Close(SharedTestDB)
}
