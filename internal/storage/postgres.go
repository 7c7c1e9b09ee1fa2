package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetThread(chatID int64) (string, error) {
	var threadID string
	err := s.db.QueryRow(
		`SELECT thread_id FROM conversation_threads WHERE chat_id = $1`,
		chatID,
	).Scan(&threadID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error querying thread: %v", err)
	}
	return threadID, nil
}

func (s *PostgresStorage) SaveThread(chatID int64, threadID string) error {
	query := `
		INSERT INTO conversation_threads (chat_id, thread_id, created_at, last_used_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (chat_id)
		DO UPDATE SET thread_id = $2, last_used_at = $3`

	if _, err := s.db.Exec(query, chatID, threadID, time.Now()); err != nil {
		return fmt.Errorf("error saving thread: %v", err)
	}
	return nil
}

func (s *PostgresStorage) UpdateThreadLastUsed(chatID int64) error {
	query := `
		UPDATE conversation_threads
		SET last_used_at = $1
		WHERE chat_id = $2`

	if _, err := s.db.Exec(query, time.Now(), chatID); err != nil {
		return fmt.Errorf("error updating thread last used: %v", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteThread(chatID int64) error {
	query := `DELETE FROM conversation_threads WHERE chat_id = $1`

	if _, err := s.db.Exec(query, chatID); err != nil {
		return fmt.Errorf("error deleting thread: %v", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
