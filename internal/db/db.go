package db

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/models"
)

// Schema is the on-disk layout of the students table. It must stay
// byte-compatible with existing enrollment files.
const Schema = `CREATE TABLE IF NOT EXISTS students (
                                id INTEGER PRIMARY KEY AUTOINCREMENT,
                                name TEXT,
                                email TEXT,
                                phone TEXT,
                                age INTEGER,
                                gender TEXT,
                                dob TEXT,
                                nationality TEXT,
                                qualification TEXT,
                                course TEXT,
                                percentage REAL
                            )`

const dsnParams = "?_journal_mode=WAL&_busy_timeout=5000"

// Store is the persistence handle. Open one per process and pass it down.
type Store struct {
	conn *gorm.DB
	log  *zap.Logger
}

type options struct {
	log        *zap.Logger
	logQueries bool
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithQueryLog turns on gorm's SQL logging.
func WithQueryLog(on bool) Option { return func(o *options) { o.logQueries = on } }

// Open opens or creates the SQLite file at path.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if o.logQueries {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	conn, err := gorm.Open(sqlite.Open(path+dsnParams), gcfg)
	if err != nil {
		return nil, apperr.Wrap("db.Open", apperr.ErrStorageUnavailable, "failed to connect to database", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, apperr.Wrap("db.Open", apperr.ErrStorageUnavailable, "failed to connect to database", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	o.log.Debug("database opened", zap.String("path", path))
	return &Store{conn: conn, log: o.log}, nil
}

// EnsureSchema creates the students table if it is absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.conn.WithContext(ctx).Exec(Schema).Error; err != nil {
		return apperr.Wrap("db.EnsureSchema", apperr.ErrSchema, "failed to create table", err)
	}
	s.log.Info("database ready (sqlite)")
	return nil
}

// Insert appends a record and returns the id the store assigned to it.
// Any id already set on st is ignored.
func (s *Store) Insert(ctx context.Context, st *models.Student) (uint, error) {
	st.ID = 0
	if err := s.conn.WithContext(ctx).Create(st).Error; err != nil {
		return 0, apperr.Wrap("db.Insert", apperr.ErrWrite, "failed to save enrollment", err)
	}
	s.log.Debug("student inserted", zap.Uint("id", st.ID))
	return st.ID, nil
}

// FetchAll returns every record in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]models.Student, error) {
	out := []models.Student{}
	if err := s.conn.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTopN returns up to n records by percentage, highest first.
// Ties keep insertion order.
func (s *Store) FetchTopN(ctx context.Context, n int) ([]models.Student, error) {
	out := []models.Student{}
	if n <= 0 {
		return out, nil
	}
	err := s.conn.WithContext(ctx).
		Order("percentage desc, id asc").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.WithContext(ctx).Model(&models.Student{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, id uint) (*models.Student, error) {
	var st models.Student
	err := s.conn.WithContext(ctx).First(&st, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New("db.Find", apperr.ErrNotFound, "student not found")
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Conn exposes the gorm handle for diagnostics and tests.
func (s *Store) Conn() *gorm.DB {
	return s.conn
}

func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
