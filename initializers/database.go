package initializers

import (
	"database/sql"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var DB *goqu.Database

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	err = db.Ping()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	DB = goqu.New("postgres", db)

	if os.Getenv("RUN_MIGRATIONS") != "false" {
		if err := RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	log.Info().Msg("database connection established")
}
