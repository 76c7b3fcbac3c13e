package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/telemed-scheduling/internal/calendar"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

type CreateDoctorInput struct {
	FullName        string `validate:"required,max=255"`
	Specialty       string `validate:"required,max=255"`
	Email           string `validate:"required,email"`
	Phone           string `validate:"max=32"`
	WhatsAppNumber  string `validate:"max=32"`
	ImageURL        string `validate:"omitempty,url"`
	LicenseURL      string `validate:"omitempty,url"`
	Clinic          string `validate:"max=255"`
	ExperienceYears int    `validate:"min=0,max=80"`
	IsVerified      bool

	// nil — расписание по умолчанию.
	Schedule *schedule.Schedule `validate:"-"`
}

func (s *Service) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*model.Doctor, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	sched := schedule.DefaultSchedule()
	if in.Schedule != nil {
		sched = in.Schedule.Clone()
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	sched.BookedSlots = nil

	doctor := &model.Doctor{
		FullName:        in.FullName,
		Specialty:       in.Specialty,
		Email:           in.Email,
		Phone:           in.Phone,
		WhatsAppNumber:  in.WhatsAppNumber,
		ImageURL:        in.ImageURL,
		LicenseURL:      in.LicenseURL,
		Clinic:          in.Clinic,
		ExperienceYears: in.ExperienceYears,
		IsVerified:      in.IsVerified,
		Schedule:        datatypes.NewJSONType(sched),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, storeErr("create doctor", err)
	}

	s.log.Info("doctor created", zap.String("doctor_id", doctor.ID.String()), zap.String("specialty", doctor.Specialty))
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	if _, err := parseID("doctor_id", id); err != nil {
		return nil, err
	}
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get doctor", err)
	}
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context, onlyVerified bool, page, pageSize int) (calendar.Page[model.Doctor], error) {
	page, pageSize, offset := calendar.Normalize(page, pageSize)
	doctors, total, err := s.doctors.List(ctx, onlyVerified, pageSize, offset)
	if err != nil {
		return calendar.Page[model.Doctor]{}, storeErr("list doctors", err)
	}
	return calendar.FromTotal(doctors, page, pageSize, total), nil
}

// UpdateSchedule заменяет регулярное расписание. Уже созданные приёмы не трогаются,
// даже если новое расписание их больше не покрывает.
func (s *Service) UpdateSchedule(ctx context.Context, doctorID string, sched schedule.Schedule) (*model.Doctor, error) {
	doctorUUID, err := parseID("doctor_id", doctorID)
	if err != nil {
		return nil, err
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.doctors.UpdateSchedule(ctx, doctorID, sched); err != nil {
		return nil, storeErr("update schedule", err)
	}

	s.record(ctx, model.EventTypeScheduleUpdated, &doctorUUID, nil, sched)
	s.log.Info("doctor schedule updated", zap.String("doctor_id", doctorID))

	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, storeErr("get doctor", err)
	}
	return doctor, nil
}

// SetDoctorVerified включает или снимает подтверждение врача; от него зависит выдача ListDoctors(onlyVerified).
func (s *Service) SetDoctorVerified(ctx context.Context, doctorID string, verified bool) (*model.Doctor, error) {
	doctorUUID, err := parseID("doctor_id", doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.doctors.SetVerified(ctx, doctorID, verified); err != nil {
		return nil, storeErr("set doctor verification", err)
	}

	s.record(ctx, model.EventTypeDoctorVerification, &doctorUUID, nil, map[string]any{"is_verified": verified})
	s.log.Info("doctor verification updated", zap.String("doctor_id", doctorID), zap.Bool("is_verified", verified))

	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, storeErr("get doctor", err)
	}
	return doctor, nil
}
