// Package storage provides SQLite-backed persistence for draw history and
// prediction logs, plus CSV import.
package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rewired-gh/lottoracle/internal/models"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database for all persistence operations.
type Storage struct {
	db             *sql.DB
	maxPredictions int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/lottoracle/data.db.
func New(maxPredictions int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "lottoracle", "data.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxPredictions: maxPredictions}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			n1         INTEGER NOT NULL,
			n2         INTEGER NOT NULL,
			n3         INTEGER NOT NULL,
			n4         INTEGER NOT NULL,
			n5         INTEGER NOT NULL,
			m1         INTEGER,
			m2         INTEGER,
			m3         INTEGER,
			m4         INTEGER,
			m5         INTEGER,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id         TEXT PRIMARY KEY,
			strategy   TEXT NOT NULL,
			numbers    TEXT NOT NULL,
			confidence REAL,
			level      TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddDraw appends one draw (and optional aligned machine draw) to the history.
func (s *Storage) AddDraw(winning models.Draw, machine *models.Draw) error {
	args := []any{winning[0], winning[1], winning[2], winning[3], winning[4]}
	if machine != nil {
		for _, n := range machine {
			args = append(args, n)
		}
	} else {
		args = append(args, nil, nil, nil, nil, nil)
	}
	args = append(args, time.Now().UnixNano())

	_, err := s.db.Exec(`
		INSERT INTO draws (n1,n2,n3,n4,n5,m1,m2,m3,m4,m5,created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// LoadHistory reads the full stored draw sequence, oldest first. Machine draws
// are included only when every stored row carries one, since the engine
// requires full alignment.
func (s *Storage) LoadHistory() (*models.DrawHistory, error) {
	rows, err := s.db.Query(`SELECT n1,n2,n3,n4,n5,m1,m2,m3,m4,m5 FROM draws ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var winning, machine [][]int
	allMachine := true
	for rows.Next() {
		w := make([]int, models.DrawSize)
		m := make([]sql.NullInt64, models.DrawSize)
		if err := rows.Scan(&w[0], &w[1], &w[2], &w[3], &w[4], &m[0], &m[1], &m[2], &m[3], &m[4]); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		winning = append(winning, w)
		if allMachine && m[0].Valid {
			mi := make([]int, models.DrawSize)
			for i, v := range m {
				if !v.Valid {
					allMachine = false
					break
				}
				mi[i] = int(v.Int64)
			}
			if allMachine {
				machine = append(machine, mi)
			}
		} else {
			allMachine = false
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read draws: %w", err)
	}
	if len(winning) == 0 {
		return nil, fmt.Errorf("no draws stored")
	}
	if !allMachine {
		machine = nil
	}

	h, err := models.NewHistory(winning, machine)
	if err != nil {
		return nil, fmt.Errorf("stored history invalid: %w", err)
	}
	return h, nil
}

// ImportCSV reads rows of "n1,n2,n3,n4,n5" or "n1..n5,m1..m5" and stores each
// as one draw. Returns the number of imported rows.
func (s *Storage) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	imported := 0
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(record) != models.DrawSize && len(record) != 2*models.DrawSize {
			return imported, fmt.Errorf("csv line %d: expected %d or %d fields, got %d",
				line, models.DrawSize, 2*models.DrawSize, len(record))
		}

		nums := make([]int, len(record))
		for i, field := range record {
			n, err := strconv.Atoi(field)
			if err != nil {
				return imported, fmt.Errorf("csv line %d: %w", line, err)
			}
			nums[i] = n
		}

		winning, err := models.NewDraw(nums[:models.DrawSize])
		if err != nil {
			return imported, fmt.Errorf("csv line %d: %w", line, err)
		}
		var machine *models.Draw
		if len(nums) == 2*models.DrawSize {
			m, err := models.NewDraw(nums[models.DrawSize:])
			if err != nil {
				return imported, fmt.Errorf("csv line %d machine draw: %w", line, err)
			}
			machine = &m
		}
		if err := s.AddDraw(winning, machine); err != nil {
			return imported, fmt.Errorf("csv line %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

// RecordPrediction logs one prediction outcome under a fresh UUID and rotates
// out the oldest entries beyond the cap.
func (s *Storage) RecordPrediction(pred *models.Prediction) (string, error) {
	numbers, err := json.Marshal(pred.Tickets)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tickets: %w", err)
	}

	var confidence float64
	var level string
	if c, ok := pred.Confidence[pred.Strategy]; ok {
		confidence = c.Confidence
		level = c.Level
	}

	id := uuid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`
		INSERT INTO predictions (id, strategy, numbers, confidence, level, created_at)
		VALUES (?,?,?,?,?,?)`,
		id, pred.Strategy, string(numbers), confidence, level, pred.GeneratedAt.UnixNano(),
	); err != nil {
		return "", fmt.Errorf("failed to insert prediction: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM predictions WHERE id NOT IN (
			SELECT id FROM predictions ORDER BY created_at DESC LIMIT ?
		)`, s.maxPredictions); err != nil {
		return "", fmt.Errorf("failed to enforce prediction cap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit prediction: %w", err)
	}
	return id, nil
}

// CountDraws returns how many draws are stored.
func (s *Storage) CountDraws() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return n, nil
}
