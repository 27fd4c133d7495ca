// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// birth_date is stored as TEXT in this layout.
const dateLayout = "2006-01-02"

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.Storage.DSN, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// In-memory databases live per connection, so a pool of more than one
	// would see several empty databases.
	switch {
	case inMemory(cfg.Storage.DSN):
		db.SetMaxOpenConns(1)
	case cfg.Storage.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.Storage.MaxOpenConns)
	}

	// Names are NOT NULL and non-empty at the storage boundary; nothing
	// above this layer re-checks them.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT    NOT NULL CHECK (first_name <> ''),
			last_name  TEXT    NOT NULL CHECK (last_name <> ''),
			birth_date TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row and writes the generated id back into
// student. Values go through ? placeholders, never string concatenation.
func (s *SQLite) CreateStudent(ctx context.Context, student *types.Student) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (first_name, last_name, birth_date) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		student.FirstName, student.LastName, student.BirthDate.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}
	student.ID = lastID

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: rows affected: %w", err)
	}

	return affected, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, first_name, last_name, birth_date FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows in rowid order, which is sqlite's
// natural order for a table without an ORDER BY.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, first_name, last_name, birth_date FROM students",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudent overwrites the mutable columns of one row. The id itself
// is never written.
func (s *SQLite) UpdateStudent(ctx context.Context, student types.Student) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET first_name = ?, last_name = ?, birth_date = ? WHERE id = ?",
	)
	if err != nil {
		return 0, fmt.Errorf("UpdateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		student.FirstName, student.LastName, student.BirthDate.Format(dateLayout), student.ID)
	if err != nil {
		return 0, fmt.Errorf("UpdateStudent: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpdateStudent: rows affected: %w", err)
	}

	return affected, nil
}

// DeleteStudent removes a student row by primary key.
func (s *SQLite) DeleteStudent(ctx context.Context, id int64) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return 0, fmt.Errorf("DeleteStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("DeleteStudent: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteStudent: rows affected: %w", err)
	}

	return affected, nil
}

// Ping checks that the database file is still reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

// Close releases the underlying *sql.DB.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func inMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student   types.Student
		birthDate string
	)

	if err := row.Scan(&student.ID, &student.FirstName, &student.LastName, &birthDate); err != nil {
		return types.Student{}, err
	}

	parsed, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return types.Student{}, fmt.Errorf("birth_date %q: %w", birthDate, err)
	}
	student.BirthDate = parsed

	return student, nil
}
