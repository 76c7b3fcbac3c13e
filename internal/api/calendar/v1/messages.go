package calendarv1

import (
	"time"

	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

// DateLayout — формат календарного дня в запросах.
const DateLayout = "2006-01-02"

type Doctor struct {
	Id              string            `json:"id"`
	FullName        string            `json:"fullName"`
	Specialty       string            `json:"specialty"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	WhatsAppNumber  string            `json:"whatsappNumber,omitempty"`
	ImageUrl        string            `json:"imageUrl,omitempty"`
	LicenseUrl      string            `json:"licenseUrl,omitempty"`
	Clinic          string            `json:"clinic,omitempty"`
	ExperienceYears int32             `json:"experienceYears"`
	IsVerified      bool              `json:"isVerified"`
	Schedule        schedule.Schedule `json:"schedule"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type Slot struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Label    string    `json:"label"`
}

type Appointment struct {
	Id              string     `json:"id"`
	DoctorId        string     `json:"doctorId"`
	DoctorName      string     `json:"doctorName,omitempty"`
	DoctorSpecialty string     `json:"doctorSpecialty,omitempty"`
	PatientId       string     `json:"patientId"`
	PatientName     string     `json:"patientName,omitempty"`
	PatientEmail    string     `json:"patientEmail,omitempty"`
	PhoneNumber     string     `json:"phoneNumber,omitempty"`
	Description     string     `json:"description,omitempty"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	MeetingId       string     `json:"meetingId"`
	MeetingLink     string     `json:"meetingLink,omitempty"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	CancelReason    string     `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// AppointmentEvent — запись журнала аудита приёма.
type AppointmentEvent struct {
	Id            string    `json:"id"`
	Type          string    `json:"type"`
	DoctorId      string    `json:"doctorId,omitempty"`
	AppointmentId string    `json:"appointmentId"`
	Details       string    `json:"details,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ListDoctorsRequest struct {
	OnlyVerified bool  `json:"onlyVerified"`
	Page         int32 `json:"page"`
	PageSize     int32 `json:"pageSize"`
}

type ListDoctorsResponse struct {
	Doctors    []*Doctor `json:"doctors"`
	TotalCount int32     `json:"totalCount"`
	HasNext    bool      `json:"hasNext"`
}

type GetDoctorRequest struct {
	DoctorId string `json:"doctorId"`
}

type CreateDoctorRequest struct {
	FullName        string             `json:"fullName"`
	Specialty       string             `json:"specialty"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	WhatsAppNumber  string             `json:"whatsappNumber,omitempty"`
	ImageUrl        string             `json:"imageUrl,omitempty"`
	LicenseUrl      string             `json:"licenseUrl,omitempty"`
	Clinic          string             `json:"clinic,omitempty"`
	ExperienceYears int32              `json:"experienceYears"`
	IsVerified      bool               `json:"isVerified"`
	Schedule        *schedule.Schedule `json:"schedule,omitempty"`
}

type UpdateScheduleRequest struct {
	DoctorId string            `json:"doctorId"`
	Schedule schedule.Schedule `json:"schedule"`
}

type SetDoctorVerificationRequest struct {
	DoctorId   string `json:"doctorId"`
	IsVerified bool   `json:"isVerified"`
}

type DoctorResponse struct {
	Doctor *Doctor `json:"doctor"`
}

type ListAvailableSlotsRequest struct {
	DoctorId string `json:"doctorId"`
	// Календарный день в формате DateLayout.
	Date string `json:"date"`
}

type ListAvailableSlotsResponse struct {
	Slots []*Slot `json:"slots"`
}

type CheckDateRequest struct {
	DoctorId string `json:"doctorId"`
	Date     string `json:"date"`
}

type CheckDateResponse struct {
	Selectable bool `json:"selectable"`
}

type ReserveSlotRequest struct {
	DoctorId     string    `json:"doctorId"`
	StartsAt     time.Time `json:"startsAt"`
	PatientId    string    `json:"patientId"`
	PatientName  string    `json:"patientName,omitempty"`
	PatientEmail string    `json:"patientEmail,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Description  string    `json:"description,omitempty"`
}

type CancelAppointmentRequest struct {
	AppointmentId string `json:"appointmentId"`
	Reason        string `json:"reason,omitempty"`
}

type CompleteAppointmentRequest struct {
	AppointmentId string `json:"appointmentId"`
}

type GetAppointmentRequest struct {
	AppointmentId string `json:"appointmentId"`
}

type UpdatePaymentStatusRequest struct {
	AppointmentId string `json:"appointmentId"`
	PaymentStatus string `json:"paymentStatus"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListPatientAppointmentsRequest struct {
	PatientId string `json:"patientId"`
	Page      int32  `json:"page"`
	PageSize  int32  `json:"pageSize"`
}

type ListPatientAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
	TotalCount   int32          `json:"totalCount"`
	HasNext      bool           `json:"hasNext"`
}

// ListDoctorAppointmentsRequest — приёмы врача в полуинтервале [From, To).
type ListDoctorAppointmentsRequest struct {
	DoctorId string    `json:"doctorId"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

type ListDoctorAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type ListAppointmentEventsRequest struct {
	AppointmentId string `json:"appointmentId"`
}

type ListAppointmentEventsResponse struct {
	Events []*AppointmentEvent `json:"events"`
}
