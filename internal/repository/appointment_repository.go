package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

// ErrNotScheduled — приём уже отменён или завершён, переход невозможен.
var ErrNotScheduled = errors.New("appointment is not scheduled")

type AppointmentRepository interface {
	// Создать запись на приём. Занятый слот — schedule.ErrSlotTaken.
	Create(ctx context.Context, appt *model.Appointment) error
	// Занятые слоты врача в [from, to).
	BookedTimestamps(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error)
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	// Приёмы пациента, новые сверху.
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]model.Appointment, int64, error)
	// Приёмы врача в [from, to) по возрастанию времени.
	ListByDoctor(ctx context.Context, doctorID string, from, to time.Time) ([]model.Appointment, error)
	// Отменить активный приём и освободить слот.
	Cancel(ctx context.Context, id, reason string, at time.Time) error
	// Отметить активный приём завершённым.
	Complete(ctx context.Context, id string, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	if appt.Status == "" {
		appt.Status = model.AppointmentStatusScheduled
	}
	if appt.PaymentStatus == "" {
		appt.PaymentStatus = model.PaymentStatusPending
	}
	appt.ScheduledAt = appt.ScheduledAt.UTC()
	if appt.IsActive() {
		at := appt.ScheduledAt
		appt.ActiveSlotAt = &at
	}

	tx := r.db.WithContext(ctx)
	tx = tx.Session(&gorm.Session{Logger: slotConflictLogger{tx.Logger}})
	if err := tx.Create(appt).Error; err != nil {
		if isUniqueViolation(err) {
			return schedule.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *GormAppointmentRepository) BookedTimestamps(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	var slots []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Where("active_slot_at IS NOT NULL").
		Where("active_slot_at >= ? AND active_slot_at < ?", from.UTC(), to.UTC()).
		Order("active_slot_at ASC").
		Pluck("active_slot_at", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) ListByPatient(
	ctx context.Context,
	patientID string,
	limit, offset int,
) ([]model.Appointment, int64, error) {
	var (
		appts []model.Appointment
		total int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("patient_id = ?", patientID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("scheduled_at DESC").Find(&appts).Error; err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}

func (r *GormAppointmentRepository) ListByDoctor(ctx context.Context, doctorID string, from, to time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("scheduled_at >= ? AND scheduled_at < ?", from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	return r.transition(ctx, id, map[string]any{
		"status":         model.AppointmentStatusCancelled,
		"active_slot_at": nil,
		"cancelled_at":   at.UTC(),
		"cancel_reason":  reason,
	})
}

func (r *GormAppointmentRepository) Complete(ctx context.Context, id string, at time.Time) error {
	// Слот остаётся занятым: приём состоялся.
	return r.transition(ctx, id, map[string]any{
		"status":       model.AppointmentStatusCompleted,
		"completed_at": at.UTC(),
	})
}

// transition меняет только активные приёмы; проверка и запись — одним UPDATE.
func (r *GormAppointmentRepository) transition(ctx context.Context, id string, update map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND status = ?", id, model.AppointmentStatusScheduled).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrNotScheduled
}

func (r *GormAppointmentRepository) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// slotConflictLogger не пишет занятый слот как ошибку SQL: это обычный исход гонки,
// вызывающий получает schedule.ErrSlotTaken.
type slotConflictLogger struct {
	logger.Interface
}

func (l slotConflictLogger) LogMode(level logger.LogLevel) logger.Interface {
	return slotConflictLogger{l.Interface.LogMode(level)}
}

func (l slotConflictLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if isUniqueViolation(err) {
		return
	}
	l.Interface.Trace(ctx, begin, fc, err)
}
