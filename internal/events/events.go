// Package events публикует доменные события записи на приём для внешних потребителей
// (уведомления в WhatsApp, подготовка видеокомнат).
package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeAppointmentBooked    Type = "appointment.booked"
	TypeAppointmentCancelled Type = "appointment.cancelled"
	TypeAppointmentCompleted Type = "appointment.completed"
)

// AppointmentEvent — тело сообщения в очереди.
type AppointmentEvent struct {
	Type          Type      `json:"type"`
	AppointmentID string    `json:"appointmentId"`
	DoctorID      string    `json:"doctorId"`
	DoctorName    string    `json:"doctorName,omitempty"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName,omitempty"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	MeetingLink   string    `json:"meetingLink,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// NopPublisher используется, когда брокер отключён.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }
