package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Leganyst/telemed-scheduling/internal/db"
	"github.com/Leganyst/telemed-scheduling/internal/model"
	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, db.Config())
}

func openTestDB(t *testing.T, cfg *gorm.Config) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// у каждого соединения :memory: своя база
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

func createDoctor(t *testing.T, repo *GormDoctorRepository, name string, verified bool) *model.Doctor {
	t.Helper()
	d := &model.Doctor{
		FullName:   name,
		Specialty:  "Pediatrics",
		Email:      uuid.NewString() + "@clinic.test",
		IsVerified: verified,
		Schedule:   datatypes.NewJSONType(schedule.DefaultSchedule()),
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return d
}

func TestDoctorRepository_CreateAndGet(t *testing.T) {
	repo := NewGormDoctorRepository(newTestDB(t))
	d := createDoctor(t, repo, "Dr. Amina Otieno", true)

	if d.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned")
	}

	got, err := repo.GetByID(context.Background(), d.ID.String())
	if err != nil {
		t.Fatalf("get doctor: %v", err)
	}
	if got.FullName != "Dr. Amina Otieno" {
		t.Fatalf("unexpected name %q", got.FullName)
	}
	if got.Schedule.Data().WorkingHours.Start != "08:00" {
		t.Fatalf("schedule not round-tripped: %+v", got.Schedule.Data())
	}
}

func TestDoctorRepository_GetByID_NotFound(t *testing.T) {
	repo := NewGormDoctorRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDoctorRepository_List(t *testing.T) {
	repo := NewGormDoctorRepository(newTestDB(t))
	createDoctor(t, repo, "Dr. C", true)
	createDoctor(t, repo, "Dr. A", true)
	createDoctor(t, repo, "Dr. B", false)

	all, total, err := repo.List(context.Background(), false, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(all) != 2 {
		t.Fatalf("expected total=3 page=2, got total=%d page=%d", total, len(all))
	}
	if all[0].FullName != "Dr. A" || all[1].FullName != "Dr. B" {
		t.Fatalf("unexpected order: %s, %s", all[0].FullName, all[1].FullName)
	}

	verified, total, err := repo.List(context.Background(), true, 0, 0)
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if total != 2 || len(verified) != 2 {
		t.Fatalf("expected 2 verified doctors, got total=%d len=%d", total, len(verified))
	}
}

func TestDoctorRepository_SetVerified(t *testing.T) {
	repo := NewGormDoctorRepository(newTestDB(t))
	ctx := context.Background()
	d := createDoctor(t, repo, "Dr. Wambui", false)

	if err := repo.SetVerified(ctx, d.ID.String(), true); err != nil {
		t.Fatalf("verify: %v", err)
	}
	verified, total, err := repo.List(ctx, true, 0, 0)
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if total != 1 || verified[0].ID != d.ID {
		t.Fatalf("expected verified doctor in list, got total=%d", total)
	}

	if err := repo.SetVerified(ctx, d.ID.String(), false); err != nil {
		t.Fatalf("unverify: %v", err)
	}
	got, err := repo.GetByID(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsVerified {
		t.Fatalf("expected verification to be revoked")
	}

	err = repo.SetVerified(ctx, uuid.NewString(), true)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDoctorRepository_UpdateAndGetSchedule(t *testing.T) {
	repo := NewGormDoctorRepository(newTestDB(t))
	d := createDoctor(t, repo, "Dr. Kamau", true)

	s := schedule.Schedule{
		WorkingHours: schedule.WorkingHours{Start: "09:00", End: "12:00"},
		WorkingDays:  []int{1},
		TimeZone:     "Africa/Nairobi",
	}
	s.Book(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC))

	if err := repo.UpdateSchedule(context.Background(), d.ID.String(), s); err != nil {
		t.Fatalf("update schedule: %v", err)
	}

	got, err := repo.GetSchedule(context.Background(), d.ID.String())
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if got.WorkingHours.End != "12:00" || got.TimeZone != "Africa/Nairobi" {
		t.Fatalf("unexpected schedule %+v", got)
	}
	if got.BookedSlots == nil || got.BookedSlots.Len() != 0 {
		t.Fatalf("booked slots must not be persisted with the schedule")
	}

	if err := repo.UpdateSchedule(context.Background(), uuid.NewString(), s); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown doctor, got %v", err)
	}
}

func newAppointment(doctorID uuid.UUID, patientID string, at time.Time) *model.Appointment {
	return &model.Appointment{
		DoctorID:    doctorID,
		PatientID:   patientID,
		ScheduledAt: at,
		MeetingID:   uuid.NewString(),
	}
}

func TestAppointmentRepository_CreateDefaults(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Wanjiru", true)

	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	a := newAppointment(d.ID, "patient-1", at)
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(context.Background(), a.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.AppointmentStatusScheduled || got.PaymentStatus != model.PaymentStatusPending {
		t.Fatalf("unexpected defaults: status=%s payment=%s", got.Status, got.PaymentStatus)
	}
	if !got.ScheduledAt.Equal(at) || got.ActiveSlotAt == nil || !got.ActiveSlotAt.Equal(at) {
		t.Fatalf("unexpected times: scheduled=%v active=%v", got.ScheduledAt, got.ActiveSlotAt)
	}
}

func TestAppointmentRepository_DuplicateSlot(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Njoroge", true)
	other := createDoctor(t, doctors, "Dr. Mwangi", true)
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(context.Background(), newAppointment(d.ID, "p1", at)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.Create(context.Background(), newAppointment(d.ID, "p2", at))
	if !errors.Is(err, schedule.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if err := repo.Create(context.Background(), newAppointment(other.ID, "p2", at)); err != nil {
		t.Fatalf("same time for another doctor must succeed: %v", err)
	}
}

// traceRecorder запоминает ошибки, которые GORM отправил в лог запросов.
type traceRecorder struct {
	logger.Interface
	mu   sync.Mutex
	errs []error
}

func (r *traceRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *traceRecorder) Trace(_ context.Context, _ time.Time, _ func() (string, int64), err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *traceRecorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func TestAppointmentRepository_DuplicateSlotIsNotLoggedAsError(t *testing.T) {
	rec := &traceRecorder{Interface: logger.Discard}
	cfg := db.Config()
	cfg.Logger = rec
	gdb := openTestDB(t, cfg)

	d := createDoctor(t, NewGormDoctorRepository(gdb), "Dr. Kamau", true)
	repo := NewGormAppointmentRepository(gdb)
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(context.Background(), newAppointment(d.ID, "p1", at)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := repo.Create(context.Background(), newAppointment(d.ID, "p2", at)); !errors.Is(err, schedule.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if errs := rec.Errors(); len(errs) != 0 {
		t.Fatalf("lost slot race must not be logged as SQL error, got %v", errs)
	}

	// Прочие ошибки по-прежнему доходят до лога.
	l := slotConflictLogger{rec}
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "", 0 }, gorm.ErrDuplicatedKey)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "", 0 }, errors.New("disk I/O error"))
	if errs := rec.Errors(); len(errs) != 1 || errs[0].Error() != "disk I/O error" {
		t.Fatalf("unexpected traced errors %v", errs)
	}
}

func TestAppointmentRepository_CancelFreesSlot(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Achieng", true)
	at := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	a := newAppointment(d.ID, "p1", at)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelledAt := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	if err := repo.Cancel(ctx, a.ID.String(), "patient request", cancelledAt); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.AppointmentStatusCancelled || got.ActiveSlotAt != nil || got.CancelReason != "patient request" {
		t.Fatalf("unexpected cancelled appointment %+v", got)
	}

	if err := repo.Cancel(ctx, a.ID.String(), "again", cancelledAt); !errors.Is(err, ErrNotScheduled) {
		t.Fatalf("expected ErrNotScheduled, got %v", err)
	}
	if err := repo.Cancel(ctx, uuid.NewString(), "", cancelledAt); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := repo.Create(ctx, newAppointment(d.ID, "p2", at)); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

func TestAppointmentRepository_BookedTimestamps(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Odhiambo", true)
	ctx := context.Background()

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	nine := day.Add(9 * time.Hour)
	ten := day.Add(10 * time.Hour)
	eleven := day.Add(11 * time.Hour)
	nextDay := day.Add(33 * time.Hour)

	for _, at := range []time.Time{ten, nine, eleven, nextDay} {
		if err := repo.Create(ctx, newAppointment(d.ID, "p", at)); err != nil {
			t.Fatalf("create %v: %v", at, err)
		}
	}

	appts, err := repo.ListByDoctor(ctx, d.ID.String(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list by doctor: %v", err)
	}
	for _, a := range appts {
		if a.ScheduledAt.Equal(eleven) {
			if err := repo.Cancel(ctx, a.ID.String(), "", day); err != nil {
				t.Fatalf("cancel: %v", err)
			}
		}
		if a.ScheduledAt.Equal(ten) {
			if err := repo.Complete(ctx, a.ID.String(), ten.Add(30*time.Minute)); err != nil {
				t.Fatalf("complete: %v", err)
			}
		}
	}

	got, err := repo.BookedTimestamps(ctx, d.ID.String(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("booked timestamps: %v", err)
	}
	if len(got) != 2 || !got[0].Equal(nine) || !got[1].Equal(ten) {
		t.Fatalf("expected [09:00 10:00], got %v", got)
	}
}

func TestAppointmentRepository_ListByPatient(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Kiptoo", true)
	ctx := context.Background()

	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, newAppointment(d.ID, "patient-1", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, newAppointment(d.ID, "patient-2", base.Add(5*time.Hour))); err != nil {
		t.Fatalf("create: %v", err)
	}

	appts, total, err := repo.ListByPatient(ctx, "patient-1", 2, 0)
	if err != nil {
		t.Fatalf("list by patient: %v", err)
	}
	if total != 3 || len(appts) != 2 {
		t.Fatalf("expected total=3 page=2, got total=%d page=%d", total, len(appts))
	}
	if !appts[0].ScheduledAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("expected newest first, got %v", appts[0].ScheduledAt)
	}
}

func TestAppointmentRepository_UpdatePaymentStatus(t *testing.T) {
	gdb := newTestDB(t)
	doctors := NewGormDoctorRepository(gdb)
	repo := NewGormAppointmentRepository(gdb)
	d := createDoctor(t, doctors, "Dr. Chebet", true)
	ctx := context.Background()

	a := newAppointment(d.ID, "p1", time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdatePaymentStatus(ctx, a.ID.String(), model.PaymentStatusCompleted); err != nil {
		t.Fatalf("update payment: %v", err)
	}
	got, err := repo.GetByID(ctx, a.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PaymentStatus != model.PaymentStatusCompleted {
		t.Fatalf("unexpected payment status %s", got.PaymentStatus)
	}
	if err := repo.UpdatePaymentStatus(ctx, uuid.NewString(), model.PaymentStatusFailed); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEventRepository(t *testing.T) {
	repo := NewGormEventRepository(newTestDB(t))
	ctx := context.Background()
	apptID := uuid.New()

	for _, typ := range []model.EventType{model.EventTypeAppointmentBooked, model.EventTypeAppointmentCancelled} {
		if err := repo.Create(ctx, &model.Event{EventType: typ, AppointmentID: &apptID}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}
	if err := repo.Create(ctx, &model.Event{EventType: model.EventTypePaymentUpdated}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := repo.ListByAppointment(ctx, apptID.String())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}
