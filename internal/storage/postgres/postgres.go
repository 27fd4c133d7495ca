// Package postgres implements storage.Storage on PostgreSQL through gorm.
//
// Connections come from a pgx pool; gorm talks to it through the
// database/sql bridge in pgx/v5/stdlib so pool limits are configured in one
// place.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
)

// Postgres is the gorm-backed implementation of storage.Storage.
type Postgres struct {
	db    *gorm.DB
	sqlDB *sql.DB
	pool  *pgxpool.Pool
}

var _ storage.Storage = (*Postgres)(nil)

// New connects to cfg.Storage.DSN and makes sure the students table exists.
func New(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse dsn: %w", err)
	}
	if cfg.Storage.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.Storage.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open pool: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("postgres.New: open gorm: %w", err)
	}

	p := &Postgres{db: db, sqlDB: sqlDB, pool: pool}

	if err := db.WithContext(ctx).AutoMigrate(&types.Student{}); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return p, nil
}

// CreateStudent inserts student and lets the database assign its id.
func (p *Postgres) CreateStudent(ctx context.Context, student *types.Student) (int64, error) {
	res := p.db.WithContext(ctx).Create(student)
	if res.Error != nil {
		return 0, fmt.Errorf("CreateStudent: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// GetStudentByID fetches one student by primary key.
func (p *Postgres) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}
	return student, nil
}

// GetStudents issues a plain SELECT without ORDER BY; rows come back in
// whatever order the planner chooses.
func (p *Postgres) GetStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	if err := p.db.WithContext(ctx).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

// UpdateStudent overwrites the mutable columns of one row.
func (p *Postgres) UpdateStudent(ctx context.Context, student types.Student) (int64, error) {
	res := p.db.WithContext(ctx).
		Model(&types.Student{}).
		Where("id = ?", student.ID).
		Updates(map[string]any{
			"first_name": student.FirstName,
			"last_name":  student.LastName,
			"birth_date": student.BirthDate,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("UpdateStudent: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteStudent removes a student row by primary key.
func (p *Postgres) DeleteStudent(ctx context.Context, id int64) (int64, error) {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&types.Student{})
	if res.Error != nil {
		return 0, fmt.Errorf("DeleteStudent: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Ping checks that the pool can reach the server.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the database/sql bridge and the pgx pool.
func (p *Postgres) Close() error {
	err := p.sqlDB.Close()
	p.pool.Close()
	return err
}
