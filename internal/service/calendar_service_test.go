package service

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	calendarv1 "github.com/Leganyst/telemed-scheduling/internal/api/calendar/v1"
	"github.com/Leganyst/telemed-scheduling/internal/booking"
	"github.com/Leganyst/telemed-scheduling/internal/db"
	"github.com/Leganyst/telemed-scheduling/internal/locker"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/repository"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

var fixedNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T) calendarv1.CalendarServiceClient {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.Config())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	eval := &schedule.Evaluator{
		Granularity: 30 * time.Minute,
		Location:    time.UTC,
		Now:         func() time.Time { return fixedNow },
	}
	svc := booking.NewService(
		repository.NewGormDoctorRepository(gdb),
		repository.NewGormAppointmentRepository(gdb),
		repository.NewGormEventRepository(gdb),
		eval,
		booking.WithLocker(locker.NewKeyedMutex()),
		booking.WithMeetingBaseURL("https://meet.example.com/room"),
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	calendarv1.RegisterCalendarServiceServer(srv, NewCalendarService(svc, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return calendarv1.NewCalendarServiceClient(conn)
}

func createDoctor(t *testing.T, client calendarv1.CalendarServiceClient) *calendarv1.Doctor {
	t.Helper()
	resp, err := client.CreateDoctor(context.Background(), &calendarv1.CreateDoctorRequest{
		FullName:  "Dr. Amina Otieno",
		Specialty: "General Practice",
		Email:     "amina@clinic.test",
	})
	require.NoError(t, err)
	return resp.Doctor
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status, got %v", err)
	assert.Equal(t, want, st.Code(), st.Message())
}

func TestCalendarService_BookingFlow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	doctor := createDoctor(t, client)
	assert.Equal(t, "08:00", doctor.Schedule.WorkingHours.Start)

	slots, err := client.ListAvailableSlots(ctx, &calendarv1.ListAvailableSlotsRequest{DoctorId: doctor.Id, Date: "2025-01-06"})
	require.NoError(t, err)
	require.Len(t, slots.Slots, 14)
	first := slots.Slots[0]
	assert.Equal(t, "Monday, 06.01.2025, 08:00–08:30", first.Label)

	booked, err := client.ReserveSlot(ctx, &calendarv1.ReserveSlotRequest{
		DoctorId:    doctor.Id,
		StartsAt:    first.StartsAt,
		PatientId:   "patient-1",
		PatientName: "Wanjiru",
	})
	require.NoError(t, err)
	appt := booked.Appointment
	assert.Equal(t, "scheduled", appt.Status)
	assert.Equal(t, "pending", appt.PaymentStatus)
	assert.Equal(t, "https://meet.example.com/room/"+appt.MeetingId, appt.MeetingLink)

	_, err = client.ReserveSlot(ctx, &calendarv1.ReserveSlotRequest{DoctorId: doctor.Id, StartsAt: first.StartsAt, PatientId: "patient-2"})
	requireCode(t, err, codes.AlreadyExists)
	assert.Contains(t, status.Convert(err).Message(), "already_booked")

	slots, err = client.ListAvailableSlots(ctx, &calendarv1.ListAvailableSlotsRequest{DoctorId: doctor.Id, Date: "2025-01-06"})
	require.NoError(t, err)
	assert.Len(t, slots.Slots, 13)

	paid, err := client.UpdatePaymentStatus(ctx, &calendarv1.UpdatePaymentStatusRequest{AppointmentId: appt.Id, PaymentStatus: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", paid.Appointment.PaymentStatus)

	list, err := client.ListPatientAppointments(ctx, &calendarv1.ListPatientAppointmentsRequest{PatientId: "patient-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)

	cancelled, err := client.CancelAppointment(ctx, &calendarv1.CancelAppointmentRequest{AppointmentId: appt.Id, Reason: "travel"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Appointment.Status)
	assert.NotNil(t, cancelled.Appointment.CancelledAt)

	_, err = client.CancelAppointment(ctx, &calendarv1.CancelAppointmentRequest{AppointmentId: appt.Id})
	requireCode(t, err, codes.FailedPrecondition)

	rebooked, err := client.ReserveSlot(ctx, &calendarv1.ReserveSlotRequest{DoctorId: doctor.Id, StartsAt: first.StartsAt, PatientId: "patient-2"})
	require.NoError(t, err, "cancelled slot is bookable again")

	done, err := client.CompleteAppointment(ctx, &calendarv1.CompleteAppointmentRequest{AppointmentId: rebooked.Appointment.Id})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Appointment.Status)

	day, err := client.ListDoctorAppointments(ctx, &calendarv1.ListDoctorAppointmentsRequest{
		DoctorId: doctor.Id,
		From:     time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, day.Appointments, 2, "cancelled appointments stay in the doctor's log")

	history, err := client.ListAppointmentEvents(ctx, &calendarv1.ListAppointmentEventsRequest{AppointmentId: appt.Id})
	require.NoError(t, err)
	types := make([]string, 0, len(history.Events))
	for _, e := range history.Events {
		assert.Equal(t, appt.Id, e.AppointmentId)
		assert.Equal(t, doctor.Id, e.DoctorId)
		types = append(types, e.Type)
	}
	assert.ElementsMatch(t, []string{"appointment_booked", "payment_updated", "appointment_cancelled"}, types)
}

func TestCalendarService_ConflictsAreFailedPrecondition(t *testing.T) {
	client := newTestClient(t)
	doctor := createDoctor(t, client)

	_, err := client.ReserveSlot(context.Background(), &calendarv1.ReserveSlotRequest{
		DoctorId:  doctor.Id,
		StartsAt:  time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
		PatientId: "patient-1",
	})
	requireCode(t, err, codes.FailedPrecondition)
	assert.Contains(t, status.Convert(err).Message(), "on_break")
}

func TestCalendarService_InputErrors(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	doctor := createDoctor(t, client)

	_, err := client.ListAvailableSlots(ctx, &calendarv1.ListAvailableSlotsRequest{DoctorId: doctor.Id, Date: "06.01.2025"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.ListAvailableSlots(ctx, &calendarv1.ListAvailableSlotsRequest{Date: "2025-01-06"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.GetDoctor(ctx, &calendarv1.GetDoctorRequest{DoctorId: "6f1c7f4e-8a4b-4d4e-9f8a-1b2c3d4e5f60"})
	requireCode(t, err, codes.NotFound)

	_, err = client.GetAppointment(ctx, &calendarv1.GetAppointmentRequest{AppointmentId: "not-a-uuid"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.CreateDoctor(ctx, &calendarv1.CreateDoctorRequest{FullName: "Dr. X"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.ReserveSlot(ctx, &calendarv1.ReserveSlotRequest{DoctorId: doctor.Id, PatientId: "p"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.ListDoctorAppointments(ctx, &calendarv1.ListDoctorAppointmentsRequest{
		DoctorId: doctor.Id,
		From:     time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	requireCode(t, err, codes.InvalidArgument)

	_, err = client.ListAppointmentEvents(ctx, &calendarv1.ListAppointmentEventsRequest{AppointmentId: "6f1c7f4e-8a4b-4d4e-9f8a-1b2c3d4e5f60"})
	requireCode(t, err, codes.NotFound)
}

func TestCalendarService_ScheduleAndDates(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	doctor := createDoctor(t, client)

	check, err := client.CheckDate(ctx, &calendarv1.CheckDateRequest{DoctorId: doctor.Id, Date: "2025-01-04"})
	require.NoError(t, err)
	assert.False(t, check.Selectable, "saturday")

	updated, err := client.UpdateSchedule(ctx, &calendarv1.UpdateScheduleRequest{
		DoctorId: doctor.Id,
		Schedule: schedule.Schedule{
			WorkingHours: schedule.WorkingHours{Start: "10:00", End: "14:00"},
			WorkingDays:  []int{6},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{6}, updated.Doctor.Schedule.WorkingDays)

	check, err = client.CheckDate(ctx, &calendarv1.CheckDateRequest{DoctorId: doctor.Id, Date: "2025-01-04"})
	require.NoError(t, err)
	assert.True(t, check.Selectable)

	_, err = client.UpdateSchedule(ctx, &calendarv1.UpdateScheduleRequest{
		DoctorId: doctor.Id,
		Schedule: schedule.Schedule{WorkingHours: schedule.WorkingHours{Start: "14:00", End: "10:00"}},
	})
	requireCode(t, err, codes.InvalidArgument)

	list, err := client.ListDoctors(ctx, &calendarv1.ListDoctorsRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)
	assert.False(t, list.HasNext)

	verified, err := client.ListDoctors(ctx, &calendarv1.ListDoctorsRequest{OnlyVerified: true})
	require.NoError(t, err)
	assert.Zero(t, verified.TotalCount)

	toggled, err := client.SetDoctorVerification(ctx, &calendarv1.SetDoctorVerificationRequest{DoctorId: doctor.Id, IsVerified: true})
	require.NoError(t, err)
	assert.True(t, toggled.Doctor.IsVerified)

	verified, err = client.ListDoctors(ctx, &calendarv1.ListDoctorsRequest{OnlyVerified: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, verified.TotalCount)

	_, err = client.SetDoctorVerification(ctx, &calendarv1.SetDoctorVerificationRequest{IsVerified: true})
	requireCode(t, err, codes.InvalidArgument)
	_, err = client.SetDoctorVerification(ctx, &calendarv1.SetDoctorVerificationRequest{DoctorId: "6f1c7f4e-8a4b-4d4e-9f8a-1b2c3d4e5f60"})
	requireCode(t, err, codes.NotFound)
}

func TestToStatus_HidesInternalErrors(t *testing.T) {
	s := NewCalendarService(nil, nil)
	err := s.toStatus("reserve slot", errors.New("pq: connection refused"))
	st := status.Convert(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "connection refused")
}
