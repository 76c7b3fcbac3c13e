package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/telemed-scheduling/internal/model"
)

type EventRepository interface {
	// Записать событие аудита.
	Create(ctx context.Context, event *model.Event) error
	// События по приёму в порядке возникновения.
	ListByAppointment(ctx context.Context, appointmentID string) ([]model.Event, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormEventRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
