package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/telemed-scheduling/internal/schedule"
)

// Doctor — врач, к которому пациенты записываются на онлайн-приём.
type Doctor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FullName  string `gorm:"type:varchar(255);not null"`
	Specialty string `gorm:"type:varchar(255);not null;index"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex"`

	Phone          string `gorm:"type:varchar(32)"`
	WhatsAppNumber string `gorm:"type:varchar(32)"`
	ImageURL       string `gorm:"type:text"`
	LicenseURL     string `gorm:"type:text"`
	Clinic         string `gorm:"type:varchar(255)"`

	ExperienceYears int  `gorm:"not null;default:0"`
	IsVerified      bool `gorm:"not null;default:false;index"`

	// Регулярное расписание. Занятые слоты сюда не пишутся: их источник — таблица appointments.
	Schedule datatypes.JSONType[schedule.Schedule]

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Appointments []Appointment `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (d *Doctor) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
