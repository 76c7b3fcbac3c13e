package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

type DoctorRepository interface {
	// Создать профиль врача.
	Create(ctx context.Context, doctor *model.Doctor) error
	// Получить врача по ID.
	GetByID(ctx context.Context, id string) (*model.Doctor, error)
	// Список врачей с пагинацией; onlyVerified оставляет только подтверждённых.
	List(ctx context.Context, onlyVerified bool, limit, offset int) ([]model.Doctor, int64, error)
	// Заменить регулярное расписание врача.
	UpdateSchedule(ctx context.Context, id string, s schedule.Schedule) error
	// Расписание врача без занятых слотов.
	GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
	// Подтвердить или снять подтверждение профиля.
	SetVerified(ctx context.Context, id string, verified bool) error
}

type GormDoctorRepository struct {
	db *gorm.DB
}

func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *GormDoctorRepository) GetByID(ctx context.Context, id string) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDoctorRepository) List(ctx context.Context, onlyVerified bool, limit, offset int) ([]model.Doctor, int64, error) {
	var (
		doctors []model.Doctor
		total   int64
	)

	q := r.db.WithContext(ctx).Model(&model.Doctor{})
	if onlyVerified {
		q = q.Where("is_verified = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("full_name ASC").Find(&doctors).Error; err != nil {
		return nil, 0, err
	}

	return doctors, total, nil
}

func (r *GormDoctorRepository) UpdateSchedule(ctx context.Context, id string, s schedule.Schedule) error {
	s.BookedSlots = nil
	res := r.db.WithContext(ctx).
		Model(&model.Doctor{}).
		Where("id = ?", id).
		Update("schedule", datatypes.NewJSONType(s))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormDoctorRepository) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).Select("id", "schedule").First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	s := d.Schedule.Data()
	s.BookedSlots = schedule.BookedSlots{}
	return &s, nil
}

func (r *GormDoctorRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Doctor{}).
		Where("id = ?", id).
		Update("is_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
