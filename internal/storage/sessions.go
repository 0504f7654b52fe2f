package storage

import (
	"context"
	"fmt"

	"hospitalchat/backend/internal/models"
)

const maxSessionPage = 500

// Migrate creates or updates the audit table.
func (s *Service) Migrate() error {
	if s.DB == nil {
		return ErrNotConfigured
	}
	if err := s.DB.AutoMigrate(&models.ConnectionSession{}); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	return nil
}

// RecordSession stores the audit record of a finished connection.
func (s *Service) RecordSession(ctx context.Context, session *models.ConnectionSession) error {
	if s.DB == nil {
		return ErrNotConfigured
	}
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("record session %s: %w", session.ID, err)
	}
	return nil
}

// RecentSessions returns the latest finished connections, newest first.
func (s *Service) RecentSessions(ctx context.Context, limit int) ([]models.ConnectionSession, error) {
	if s.DB == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 || limit > maxSessionPage {
		limit = maxSessionPage
	}

	var sessions []models.ConnectionSession
	err := s.DB.WithContext(ctx).
		Order("disconnected_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
