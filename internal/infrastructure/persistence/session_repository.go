package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venueops/backend/internal/domain/reconciliation"
	"github.com/venueops/backend/internal/domain/shared"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session with its items
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.Session, error) {
	var session reconciliation.Session
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpen finds all OPEN sessions with their items
func (r *GormSessionRepository) FindOpen(ctx context.Context) ([]reconciliation.Session, error) {
	var sessions []reconciliation.Session
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", reconciliation.SessionStatusOpen).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindAll finds sessions without their items, for listings
func (r *GormSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reconciliation.Session, error) {
	var sessions []reconciliation.Session
	query := r.db.WithContext(ctx).Model(&reconciliation.Session{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, SessionSortFields, "started_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save creates or updates a session without touching its items
func (r *GormSessionRepository) Save(ctx context.Context, s *reconciliation.Session) error {
	return r.db.WithContext(ctx).Omit("Items").Save(s).Error
}

// SaveWithItems saves a session and all of its items. Items are only ever
// added or updated, never removed from a session.
func (r *GormSessionRepository) SaveWithItems(ctx context.Context, s *reconciliation.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(s).Error; err != nil {
			return err
		}
		for i := range s.Items {
			s.Items[i].SessionID = s.ID
			if err := tx.Save(&s.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a session and its items
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&reconciliation.SessionItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&reconciliation.Session{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts sessions matching the filter
func (r *GormSessionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&reconciliation.Session{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ reconciliation.SessionRepository = (*GormSessionRepository)(nil)
