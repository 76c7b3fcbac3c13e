package booking

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/telemed-scheduling/internal/events"
	"github.com/Leganyst/telemed-scheduling/internal/metrics"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/repository"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

// Service — сценарии записи на приём и справочник врачей поверх ядра расписания.
type Service struct {
	doctors repository.DoctorRepository
	appts   repository.AppointmentRepository
	audit   repository.EventRepository

	eval      *schedule.Evaluator
	locker    schedule.Locker
	publisher events.Publisher
	metrics   *metrics.BookingMetrics
	log       *zap.Logger

	meetingBaseURL string
}

type Option func(*Service)

func WithLocker(l schedule.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMeetingBaseURL(u string) Option {
	return func(s *Service) { s.meetingBaseURL = u }
}

func NewService(
	doctors repository.DoctorRepository,
	appts repository.AppointmentRepository,
	audit repository.EventRepository,
	eval *schedule.Evaluator,
	opts ...Option,
) *Service {
	s := &Service{
		doctors:   doctors,
		appts:     appts,
		audit:     audit,
		eval:      eval,
		publisher: events.NopPublisher{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.eval == nil {
		s.eval = &schedule.Evaluator{}
	}
	return s
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func validateInput(v any) error {
	if err := inputValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) meetingLink(meetingID string) string {
	if s.meetingBaseURL == "" {
		return ""
	}
	link, err := url.JoinPath(s.meetingBaseURL, meetingID)
	if err != nil {
		s.log.Warn("invalid meeting base url", zap.String("base_url", s.meetingBaseURL), zap.Error(err))
		return ""
	}
	return link
}

// record пишет событие аудита; сбой аудита не отменяет уже выполненную операцию.
func (s *Service) record(ctx context.Context, typ model.EventType, doctorID, appointmentID *uuid.UUID, details any) {
	if s.audit == nil {
		return
	}
	var payload string
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload = string(b)
		}
	}
	event := &model.Event{
		EventType:     typ,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		Details:       payload,
	}
	if err := s.audit.Create(ctx, event); err != nil {
		s.log.Warn("audit event not recorded", zap.String("type", string(typ)), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, typ events.Type, a *model.Appointment, reason string) {
	event := events.AppointmentEvent{
		Type:          typ,
		AppointmentID: a.ID.String(),
		DoctorID:      a.DoctorID.String(),
		DoctorName:    a.DoctorName,
		PatientID:     a.PatientID,
		PatientName:   a.PatientName,
		PhoneNumber:   a.PhoneNumber,
		ScheduledAt:   a.ScheduledAt,
		MeetingLink:   a.MeetingLink,
		Reason:        reason,
		OccurredAt:    s.eval.CurrentTime().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("appointment event not published",
			zap.String("type", string(typ)),
			zap.String("appointment_id", event.AppointmentID),
			zap.Error(err),
		)
	}
}
