package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lobby/internal/config"
	"lobby/internal/db"
	"lobby/internal/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "development")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.AppLogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Connect(ctx, cfg.DatabaseURL, 1)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema_migrations")
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		filename := filepath.Base(file)
		var exists bool
		if err := database.Get(&exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			log.Fatal().Err(err).Msg("failed to read migration state")
		}
		if exists {
			continue
		}
		tx, err := database.Beginx()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to begin migration")
		}
		if err := applyFile(tx, file); err != nil {
			_ = tx.Rollback()
			log.Fatal().Err(err).Str("file", filename).Msg("failed to apply migration")
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			_ = tx.Rollback()
			log.Fatal().Err(err).Str("file", filename).Msg("failed to record migration")
		}
		if err := tx.Commit(); err != nil {
			log.Fatal().Err(err).Str("file", filename).Msg("failed to commit migration")
		}
		log.Info().Str("file", filename).Msg("applied migration")
		applied++
	}
	log.Info().Int("applied", applied).Int("total", len(files)).Msg("migrations complete")
}

func applyFile(tx execer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, stmt := range upStatements(string(content)) {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// upStatements drops everything after the "-- +migrate Down" marker.
func upStatements(content string) []string {
	up, _, _ := strings.Cut(content, "-- +migrate Down")
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(up))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
