package datafeed

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func InitDatabase() error {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"), // Required - no default
		DBName:   getEnvOrDefault("DB_NAME", "zonewatch"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = initializeSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	fmt.Println("Database connected successfully!")
	return nil
}

// initializeSchema creates the zone tables if they don't exist
func initializeSchema() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS zones (
		id SERIAL PRIMARY KEY,
		ticker TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE,
		candle_count INTEGER,
		score REAL,
		highest_body TEXT,
		lowest_body TEXT,
		total_diff_percent REAL,
		avg_rsi REAL,
		status TEXT DEFAULT 'active',
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS score_history (
		id SERIAL PRIMARY KEY,
		zone_id INTEGER NOT NULL,
		date DATE NOT NULL,
		score REAL,
		score_change REAL,
		candle_count INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(zone_id) REFERENCES zones(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS scan_logs (
		id SERIAL PRIMARY KEY,
		scan_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
		total_tickers INTEGER,
		active_zones_found INTEGER,
		completed_zones INTEGER,
		errors TEXT,
		duration_seconds REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_zones_ticker ON zones(ticker);
	CREATE INDEX IF NOT EXISTS idx_zones_status ON zones(status);
	CREATE INDEX IF NOT EXISTS idx_score_history_zone ON score_history(zone_id);
	`

	_, err := DB.Exec(schemaSQL)
	return err
}

func CloseDatabase() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	return DB.Ping()
}
