package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Appointment statuses
const (
	StatusPending   = "PENDING"
	StatusCalled    = "CALLED"
	StatusDone      = "DONE"
	StatusCancelled = "CANCELLED"
)

type Doctor struct {
	gorm.Model
	Name      string `gorm:"column:name;not null"`
	Specialty string `gorm:"column:specialty;not null"`
	RoomNo    string `gorm:"column:room_no;not null"`
}

// Queue is one doctor's queue for one day. CurrentNo is the last token
// number handed out; booking increments it inside the same transaction that
// creates the appointment.
type Queue struct {
	gorm.Model
	DoctorID  uint      `gorm:"column:doctor_id;index;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	CurrentNo int       `gorm:"column:current_no;not null;default:0"`
}

type Appointment struct {
	gorm.Model
	TokenNo int            `gorm:"column:token_no;not null"`
	Status  string         `gorm:"column:status;not null;default:PENDING;index"`
	UserID  uint           `gorm:"column:user_id;index;not null"`
	QueueID uint           `gorm:"column:queue_id;index;not null"`
	Notes   datatypes.JSON `gorm:"column:notes"`
}
