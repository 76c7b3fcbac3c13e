package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	calendarv1 "github.com/Leganyst/telemed-scheduling/internal/api/calendar/v1"
	"github.com/Leganyst/telemed-scheduling/internal/booking"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

type CalendarService struct {
	calendarv1.UnimplementedCalendarServiceServer

	booking *booking.Service
	log     *zap.Logger
}

func NewCalendarService(svc *booking.Service, log *zap.Logger) *CalendarService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarService{booking: svc, log: log}
}

func (s *CalendarService) ListDoctors(ctx context.Context, req *calendarv1.ListDoctorsRequest) (*calendarv1.ListDoctorsResponse, error) {
	page, err := s.booking.ListDoctors(ctx, req.OnlyVerified, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, s.toStatus("list doctors", err)
	}

	resp := &calendarv1.ListDoctorsResponse{
		Doctors:    make([]*calendarv1.Doctor, 0, len(page.Items)),
		TotalCount: int32(page.Total),
		HasNext:    page.HasNext,
	}
	for i := range page.Items {
		resp.Doctors = append(resp.Doctors, toDoctor(&page.Items[i]))
	}
	return resp, nil
}

func (s *CalendarService) GetDoctor(ctx context.Context, req *calendarv1.GetDoctorRequest) (*calendarv1.DoctorResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	d, err := s.booking.GetDoctor(ctx, req.DoctorId)
	if err != nil {
		return nil, s.toStatus("get doctor", err)
	}
	return &calendarv1.DoctorResponse{Doctor: toDoctor(d)}, nil
}

func (s *CalendarService) CreateDoctor(ctx context.Context, req *calendarv1.CreateDoctorRequest) (*calendarv1.DoctorResponse, error) {
	d, err := s.booking.CreateDoctor(ctx, booking.CreateDoctorInput{
		FullName:        req.FullName,
		Specialty:       req.Specialty,
		Email:           req.Email,
		Phone:           req.Phone,
		WhatsAppNumber:  req.WhatsAppNumber,
		ImageURL:        req.ImageUrl,
		LicenseURL:      req.LicenseUrl,
		Clinic:          req.Clinic,
		ExperienceYears: int(req.ExperienceYears),
		IsVerified:      req.IsVerified,
		Schedule:        req.Schedule,
	})
	if err != nil {
		return nil, s.toStatus("create doctor", err)
	}
	return &calendarv1.DoctorResponse{Doctor: toDoctor(d)}, nil
}

func (s *CalendarService) UpdateSchedule(ctx context.Context, req *calendarv1.UpdateScheduleRequest) (*calendarv1.DoctorResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	d, err := s.booking.UpdateSchedule(ctx, req.DoctorId, req.Schedule)
	if err != nil {
		return nil, s.toStatus("update schedule", err)
	}
	return &calendarv1.DoctorResponse{Doctor: toDoctor(d)}, nil
}

func (s *CalendarService) SetDoctorVerification(ctx context.Context, req *calendarv1.SetDoctorVerificationRequest) (*calendarv1.DoctorResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	d, err := s.booking.SetDoctorVerified(ctx, req.DoctorId, req.IsVerified)
	if err != nil {
		return nil, s.toStatus("set doctor verification", err)
	}
	return &calendarv1.DoctorResponse{Doctor: toDoctor(d)}, nil
}

func (s *CalendarService) ListAvailableSlots(ctx context.Context, req *calendarv1.ListAvailableSlotsRequest) (*calendarv1.ListAvailableSlotsResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	slots, err := s.booking.ListAvailableSlots(ctx, req.DoctorId, date)
	if err != nil {
		return nil, s.toStatus("list available slots", err)
	}

	resp := &calendarv1.ListAvailableSlotsResponse{Slots: make([]*calendarv1.Slot, 0, len(slots))}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, &calendarv1.Slot{
			StartsAt: slot.StartsAt,
			EndsAt:   slot.EndsAt,
			Label:    slot.Label,
		})
	}
	return resp, nil
}

func (s *CalendarService) CheckDate(ctx context.Context, req *calendarv1.CheckDateRequest) (*calendarv1.CheckDateResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	ok, err := s.booking.IsDateSelectable(ctx, req.DoctorId, date)
	if err != nil {
		return nil, s.toStatus("check date", err)
	}
	return &calendarv1.CheckDateResponse{Selectable: ok}, nil
}

func (s *CalendarService) ReserveSlot(ctx context.Context, req *calendarv1.ReserveSlotRequest) (*calendarv1.AppointmentResponse, error) {
	if req.DoctorId == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	if req.StartsAt.IsZero() {
		return nil, status.Error(codes.InvalidArgument, "starts_at is required")
	}
	appt, err := s.booking.ReserveSlot(ctx, booking.ReserveInput{
		DoctorID:     req.DoctorId,
		StartsAt:     req.StartsAt,
		PatientID:    req.PatientId,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PhoneNumber:  req.PhoneNumber,
		Description:  req.Description,
	})
	if err != nil {
		return nil, s.toStatus("reserve slot", err)
	}
	return &calendarv1.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *CalendarService) CancelAppointment(ctx context.Context, req *calendarv1.CancelAppointmentRequest) (*calendarv1.AppointmentResponse, error) {
	appt, err := s.booking.CancelAppointment(ctx, req.AppointmentId, req.Reason)
	if err != nil {
		return nil, s.toStatus("cancel appointment", err)
	}
	return &calendarv1.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *CalendarService) CompleteAppointment(ctx context.Context, req *calendarv1.CompleteAppointmentRequest) (*calendarv1.AppointmentResponse, error) {
	appt, err := s.booking.CompleteAppointment(ctx, req.AppointmentId)
	if err != nil {
		return nil, s.toStatus("complete appointment", err)
	}
	return &calendarv1.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *CalendarService) GetAppointment(ctx context.Context, req *calendarv1.GetAppointmentRequest) (*calendarv1.AppointmentResponse, error) {
	appt, err := s.booking.GetAppointment(ctx, req.AppointmentId)
	if err != nil {
		return nil, s.toStatus("get appointment", err)
	}
	return &calendarv1.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *CalendarService) ListPatientAppointments(ctx context.Context, req *calendarv1.ListPatientAppointmentsRequest) (*calendarv1.ListPatientAppointmentsResponse, error) {
	page, err := s.booking.ListPatientAppointments(ctx, req.PatientId, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, s.toStatus("list patient appointments", err)
	}

	resp := &calendarv1.ListPatientAppointmentsResponse{
		Appointments: make([]*calendarv1.Appointment, 0, len(page.Items)),
		TotalCount:   int32(page.Total),
		HasNext:      page.HasNext,
	}
	for i := range page.Items {
		resp.Appointments = append(resp.Appointments, toAppointment(&page.Items[i]))
	}
	return resp, nil
}

func (s *CalendarService) UpdatePaymentStatus(ctx context.Context, req *calendarv1.UpdatePaymentStatusRequest) (*calendarv1.AppointmentResponse, error) {
	appt, err := s.booking.UpdatePaymentStatus(ctx, req.AppointmentId, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return nil, s.toStatus("update payment status", err)
	}
	return &calendarv1.AppointmentResponse{Appointment: toAppointment(appt)}, nil
}

func (s *CalendarService) ListDoctorAppointments(ctx context.Context, req *calendarv1.ListDoctorAppointmentsRequest) (*calendarv1.ListDoctorAppointmentsResponse, error) {
	appts, err := s.booking.ListDoctorAppointments(ctx, req.DoctorId, req.From, req.To)
	if err != nil {
		return nil, s.toStatus("list doctor appointments", err)
	}

	resp := &calendarv1.ListDoctorAppointmentsResponse{Appointments: make([]*calendarv1.Appointment, 0, len(appts))}
	for i := range appts {
		resp.Appointments = append(resp.Appointments, toAppointment(&appts[i]))
	}
	return resp, nil
}

func (s *CalendarService) ListAppointmentEvents(ctx context.Context, req *calendarv1.ListAppointmentEventsRequest) (*calendarv1.ListAppointmentEventsResponse, error) {
	history, err := s.booking.AppointmentHistory(ctx, req.AppointmentId)
	if err != nil {
		return nil, s.toStatus("list appointment events", err)
	}

	resp := &calendarv1.ListAppointmentEventsResponse{Events: make([]*calendarv1.AppointmentEvent, 0, len(history))}
	for _, e := range history {
		out := &calendarv1.AppointmentEvent{
			Id:        e.ID.String(),
			Type:      string(e.EventType),
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		}
		if e.DoctorID != nil {
			out.DoctorId = e.DoctorID.String()
		}
		if e.AppointmentID != nil {
			out.AppointmentId = e.AppointmentID.String()
		}
		resp.Events = append(resp.Events, out)
	}
	return resp, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, status.Error(codes.InvalidArgument, "date is required")
	}
	date, err := time.Parse(calendarv1.DateLayout, v)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "date must be %s", calendarv1.DateLayout)
	}
	return date, nil
}

// toStatus — единственное место, где доменные ошибки превращаются в gRPC-коды.
func (s *CalendarService) toStatus(op string, err error) error {
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &conflict):
		if conflict.Reason == schedule.ReasonAlreadyBooked {
			return status.Error(codes.AlreadyExists, conflict.Error())
		}
		return status.Error(codes.FailedPrecondition, conflict.Error())
	case errors.Is(err, booking.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.log.Error(op+" failed", zap.Error(err))
		return status.Errorf(codes.Internal, "%s: internal error", op)
	}
}

func toDoctor(d *model.Doctor) *calendarv1.Doctor {
	return &calendarv1.Doctor{
		Id:              d.ID.String(),
		FullName:        d.FullName,
		Specialty:       d.Specialty,
		Email:           d.Email,
		Phone:           d.Phone,
		WhatsAppNumber:  d.WhatsAppNumber,
		ImageUrl:        d.ImageURL,
		LicenseUrl:      d.LicenseURL,
		Clinic:          d.Clinic,
		ExperienceYears: int32(d.ExperienceYears),
		IsVerified:      d.IsVerified,
		Schedule:        d.Schedule.Data(),
		CreatedAt:       d.CreatedAt,
	}
}

func toAppointment(a *model.Appointment) *calendarv1.Appointment {
	return &calendarv1.Appointment{
		Id:              a.ID.String(),
		DoctorId:        a.DoctorID.String(),
		DoctorName:      a.DoctorName,
		DoctorSpecialty: a.DoctorSpecialty,
		PatientId:       a.PatientID,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
		PhoneNumber:     a.PhoneNumber,
		Description:     a.Description,
		ScheduledAt:     a.ScheduledAt,
		MeetingId:       a.MeetingID,
		MeetingLink:     a.MeetingLink,
		Status:          string(a.Status),
		PaymentStatus:   string(a.PaymentStatus),
		CancelReason:    a.CancelReason,
		CancelledAt:     a.CancelledAt,
		CompletedAt:     a.CompletedAt,
		CreatedAt:       a.CreatedAt,
	}
}
