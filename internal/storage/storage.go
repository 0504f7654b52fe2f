package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned by operations whose backing store was not set up.
var ErrNotConfigured = errors.New("store not configured")

// Service bundles the optional Redis presence mirror and the Postgres session audit log.
// Either field may be nil.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Connect opens whichever stores have a URL and verifies they answer.
func Connect(ctx context.Context, databaseURL, redisURL string) (*Service, error) {
	s := &Service{}

	if databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.DB = db
		if err := s.PingDB(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		s.Redis = redis.NewClient(opts)
		if err := s.PingRedis(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *Service) PingDB(ctx context.Context) error {
	if s.DB == nil {
		return ErrNotConfigured
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (s *Service) PingRedis(ctx context.Context) error {
	if s.Redis == nil {
		return ErrNotConfigured
	}
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases both connections.
func (s *Service) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
