package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeAppointmentBooked    EventType = "appointment_booked"
	EventTypeAppointmentCancelled EventType = "appointment_cancelled"
	EventTypeAppointmentCompleted EventType = "appointment_completed"
	EventTypePaymentUpdated       EventType = "payment_updated"
	EventTypeScheduleUpdated      EventType = "schedule_updated"
	EventTypeDoctorVerification   EventType = "doctor_verification_updated"
)

// events — события аудита
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	DoctorID      *uuid.UUID `gorm:"type:uuid;index"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
