package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/telemed-scheduling/internal/calendar"
	"github.com/Leganyst/telemed-scheduling/internal/events"
	"github.com/Leganyst/telemed-scheduling/internal/metrics"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

// Slot — свободный слот для показа пациенту.
type Slot struct {
	StartsAt time.Time
	EndsAt   time.Time
	Label    string
}

type ReserveInput struct {
	DoctorID     string    `validate:"required"`
	StartsAt     time.Time `validate:"required"`
	PatientID    string    `validate:"required,max=128"`
	PatientName  string    `validate:"max=255"`
	PatientEmail string    `validate:"omitempty,email"`
	PhoneNumber  string    `validate:"max=32"`
	Description  string    `validate:"max=2000"`
}

// loadSchedule читает расписание врача и занятые слоты календарного дня date.
func (s *Service) loadSchedule(ctx context.Context, doctorID string, date time.Time) (*schedule.Schedule, error) {
	sched, err := s.doctors.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, storeErr("get schedule", err)
	}
	if err := s.attachBooked(ctx, doctorID, sched, date); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *Service) attachBooked(ctx context.Context, doctorID string, sched *schedule.Schedule, date time.Time) error {
	from, to := s.eval.DayBounds(sched, date)
	booked, err := s.appts.BookedTimestamps(ctx, doctorID, from, to)
	if err != nil {
		return fmt.Errorf("load booked slots: %w", err)
	}
	sched.BookedSlots = schedule.NewBookedSlots(booked...)
	return nil
}

// ListAvailableSlots — свободные слоты врача на календарный день date.
// Сегодня слоты, время которых уже наступило, не показываются.
func (s *Service) ListAvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]Slot, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveSlotListing(time.Since(started)) }()

	if _, err := parseID("doctor_id", doctorID); err != nil {
		return nil, err
	}
	sched, err := s.loadSchedule(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	loc := s.eval.LocationFor(sched)
	step := s.eval.Step()
	now := s.eval.CurrentTime()

	out := make([]Slot, 0)
	for _, start := range s.eval.EnumerateSlots(sched, date) {
		if start.Before(now) {
			continue
		}
		out = append(out, Slot{
			StartsAt: start,
			EndsAt:   start.Add(step),
			Label:    schedule.FormatSlot(start, step, loc),
		})
	}
	return out, nil
}

// IsDateSelectable — можно ли выбрать день в календаре записи.
func (s *Service) IsDateSelectable(ctx context.Context, doctorID string, date time.Time) (bool, error) {
	if _, err := parseID("doctor_id", doctorID); err != nil {
		return false, err
	}
	sched, err := s.doctors.GetSchedule(ctx, doctorID)
	if err != nil {
		return false, storeErr("get schedule", err)
	}
	return s.eval.IsDateSelectable(sched, date), nil
}

// ReserveSlot бронирует слот. Занятость перепроверяется под блокировкой врача по свежему чтению;
// гонку между репликами без общей блокировки разрешает уникальный индекс хранилища.
func (s *Service) ReserveSlot(ctx context.Context, in ReserveInput) (*model.Appointment, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	doctorUUID, err := parseID("doctor_id", in.DoctorID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, storeErr("get doctor", err)
	}
	sched := doctor.Schedule.Data()
	sched.BookedSlots = schedule.BookedSlots{}

	// Занятые слоты читаются уже под блокировкой врача.
	load := func(ctx context.Context, doctorID string, at time.Time) (schedule.BookedSlots, error) {
		from, to := s.eval.DayBounds(&sched, at)
		booked, err := s.appts.BookedTimestamps(ctx, doctorID, from, to)
		if err != nil {
			return nil, err
		}
		return schedule.NewBookedSlots(booked...), nil
	}

	var created *model.Appointment
	persist := schedule.PersistFunc(func(ctx context.Context, _ string, at time.Time, p schedule.PatientInfo) (string, error) {
		meetingID := uuid.NewString()
		appt := &model.Appointment{
			DoctorID:        doctorUUID,
			ScheduledAt:     at,
			DoctorName:      doctor.FullName,
			DoctorSpecialty: doctor.Specialty,
			PatientID:       p.ID,
			PatientName:     p.Name,
			PatientEmail:    p.Email,
			PhoneNumber:     p.PhoneNumber,
			Description:     p.Description,
			MeetingID:       meetingID,
			MeetingLink:     s.meetingLink(meetingID),
		}
		if err := s.appts.Create(ctx, appt); err != nil {
			return "", err
		}
		created = appt
		return appt.ID.String(), nil
	})

	patient := schedule.PatientInfo{
		ID:          in.PatientID,
		Name:        in.PatientName,
		Email:       in.PatientEmail,
		PhoneNumber: in.PhoneNumber,
		Description: in.Description,
	}

	guard := schedule.NewGuard(s.eval, persist, s.locker, schedule.WithBookedLoader(load))
	if _, err := guard.Reserve(ctx, in.DoctorID, &sched, in.StartsAt, patient); err != nil {
		if reason, ok := schedule.ReasonOf(err); ok {
			s.metrics.ObserveConflict(string(reason))
			s.log.Info("reservation rejected",
				zap.String("doctor_id", in.DoctorID),
				zap.Time("starts_at", in.StartsAt),
				zap.String("reason", string(reason)),
			)
			return nil, err
		}
		s.metrics.ObserveReservation(metrics.OutcomeError)
		s.log.Error("reservation failed", zap.String("doctor_id", in.DoctorID), zap.Error(err))
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	s.metrics.ObserveReservation(metrics.OutcomeBooked)
	s.log.Info("appointment booked",
		zap.String("appointment_id", created.ID.String()),
		zap.String("doctor_id", in.DoctorID),
		zap.Time("scheduled_at", created.ScheduledAt),
	)
	s.record(ctx, model.EventTypeAppointmentBooked, &created.DoctorID, &created.ID, map[string]any{
		"patient_id":   created.PatientID,
		"scheduled_at": created.ScheduledAt,
	})
	s.publish(ctx, events.TypeAppointmentBooked, created, "")
	return created, nil
}

// CancelAppointment отменяет активный приём и освобождает слот.
func (s *Service) CancelAppointment(ctx context.Context, id, reason string) (*model.Appointment, error) {
	if _, err := parseID("appointment_id", id); err != nil {
		return nil, err
	}
	if err := s.appts.Cancel(ctx, id, reason, s.eval.CurrentTime()); err != nil {
		return nil, storeErr("cancel appointment", err)
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get appointment", err)
	}

	s.metrics.ObserveCancellation()
	s.log.Info("appointment cancelled", zap.String("appointment_id", id), zap.String("reason", reason))
	s.record(ctx, model.EventTypeAppointmentCancelled, &appt.DoctorID, &appt.ID, map[string]any{"reason": reason})
	s.publish(ctx, events.TypeAppointmentCancelled, appt, reason)
	return appt, nil
}

func (s *Service) CompleteAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if _, err := parseID("appointment_id", id); err != nil {
		return nil, err
	}
	if err := s.appts.Complete(ctx, id, s.eval.CurrentTime()); err != nil {
		return nil, storeErr("complete appointment", err)
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get appointment", err)
	}

	s.record(ctx, model.EventTypeAppointmentCompleted, &appt.DoctorID, &appt.ID, nil)
	s.publish(ctx, events.TypeAppointmentCompleted, appt, "")
	return appt, nil
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) (*model.Appointment, error) {
	if _, err := parseID("appointment_id", id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, status)
	}
	if err := s.appts.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, storeErr("update payment status", err)
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get appointment", err)
	}

	s.record(ctx, model.EventTypePaymentUpdated, &appt.DoctorID, &appt.ID, map[string]any{"status": status})
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if _, err := parseID("appointment_id", id); err != nil {
		return nil, err
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get appointment", err)
	}
	return appt, nil
}

func (s *Service) ListPatientAppointments(ctx context.Context, patientID string, page, pageSize int) (calendar.Page[model.Appointment], error) {
	if patientID == "" {
		return calendar.Page[model.Appointment]{}, fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	page, pageSize, offset := calendar.Normalize(page, pageSize)
	appts, total, err := s.appts.ListByPatient(ctx, patientID, pageSize, offset)
	if err != nil {
		return calendar.Page[model.Appointment]{}, storeErr("list patient appointments", err)
	}
	return calendar.FromTotal(appts, page, pageSize, total), nil
}

// ListDoctorAppointments — приёмы врача в [from, to), включая отменённые.
func (s *Service) ListDoctorAppointments(ctx context.Context, doctorID string, from, to time.Time) ([]model.Appointment, error) {
	if _, err := parseID("doctor_id", doctorID); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	appts, err := s.appts.ListByDoctor(ctx, doctorID, from, to)
	if err != nil {
		return nil, storeErr("list doctor appointments", err)
	}
	return appts, nil
}

// AppointmentHistory — журнал аудита приёма в порядке возникновения.
func (s *Service) AppointmentHistory(ctx context.Context, id string) ([]model.Event, error) {
	if _, err := parseID("appointment_id", id); err != nil {
		return nil, err
	}
	if _, err := s.appts.GetByID(ctx, id); err != nil {
		return nil, storeErr("get appointment", err)
	}
	if s.audit == nil {
		return []model.Event{}, nil
	}
	events, err := s.audit.ListByAppointment(ctx, id)
	if err != nil {
		return nil, storeErr("list appointment events", err)
	}
	return events, nil
}
