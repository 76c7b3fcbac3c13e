package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Пара (doctor_id, active_slot_at) уникальна: два активных приёма на одно время невозможны.
	DoctorID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_active_slot,priority:1"`
	ActiveSlotAt *time.Time `gorm:"uniqueIndex:idx_doctor_active_slot,priority:2"`

	ScheduledAt time.Time `gorm:"not null;index"`

	// Снимок данных врача на момент записи.
	DoctorName      string `gorm:"type:varchar(255)"`
	DoctorSpecialty string `gorm:"type:varchar(255)"`

	PatientID    string `gorm:"type:varchar(128);not null;index"`
	PatientName  string `gorm:"type:varchar(255)"`
	PatientEmail string `gorm:"type:varchar(255)"`
	PhoneNumber  string `gorm:"type:varchar(32)"`
	Description  string `gorm:"type:text"`

	MeetingID   string `gorm:"type:varchar(64);not null"`
	MeetingLink string `gorm:"type:text"`

	Status        AppointmentStatus `gorm:"type:varchar(32);not null;index"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(32);not null"`

	CancelledAt  *time.Time
	CancelReason string `gorm:"type:text"`
	CompletedAt  *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsActive — приём ещё занимает слот врача.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusScheduled
}
