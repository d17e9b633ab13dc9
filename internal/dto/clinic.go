package dto

import (
	"encoding/json"
	"time"
)

type CreateDoctorRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Specialty string `json:"specialty" binding:"required,min=2,max=100"`
	RoomNo    string `json:"room_no" binding:"required,max=20"`
}

type UpdateDoctorRequest struct {
	Name      string `json:"name" binding:"omitempty,min=2,max=100"`
	Specialty string `json:"specialty" binding:"omitempty,min=2,max=100"`
	RoomNo    string `json:"room_no" binding:"omitempty,max=20"`
}

type DoctorResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	RoomNo    string    `json:"room_no"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateQueueRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"` // RFC 3339 or YYYY-MM-DD
}

type QueueResponse struct {
	ID        uint      `json:"id"`
	DoctorID  uint      `json:"doctor_id"`
	Date      time.Time `json:"date"`
	CurrentNo int       `json:"current_no"`
}

type CreateAppointmentRequest struct {
	QueueID uint            `json:"queue_id" binding:"required"`
	UserID  uint            `json:"user_id" binding:"required"`
	Notes   json.RawMessage `json:"notes,omitempty"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CALLED DONE CANCELLED"`
}

type AppointmentResponse struct {
	ID        uint            `json:"id"`
	TokenNo   int             `json:"token_no"`
	Status    string          `json:"status"`
	UserID    uint            `json:"user_id"`
	QueueID   uint            `json:"queue_id"`
	Notes     json.RawMessage `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type PresignUploadRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
	FileType string `json:"file_type" binding:"required"`
	Size     int64  `json:"size" binding:"omitempty,min=1"`
}

type PresignUploadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SendEmailRequest struct {
	To       string         `json:"to" binding:"required,email"`
	Subject  string         `json:"subject" binding:"required,max=200"`
	Template string         `json:"template" binding:"required"`
	Data     map[string]any `json:"data"`
}
