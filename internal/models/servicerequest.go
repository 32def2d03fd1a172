package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRequest status constants. Transitions are one-way:
// pending -> accepted -> completed, or pending -> cancelled.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ServiceRequest is one unit of roadside help requested by a user. Column
// names match the production collection (snake case with a couple of
// camelCase stragglers like acceptedAt).
type ServiceRequest struct {
	gorm.Model

	RequestID   string  `json:"requestId" gorm:"column:request_id;uniqueIndex;not null"`
	UserPhone   string  `json:"user_phone" gorm:"column:user_phone;index;not null"`
	UserLat     float64 `json:"user_lat" gorm:"column:user_lat"`
	UserLng     float64 `json:"user_lng" gorm:"column:user_lng"`
	Service     string  `json:"service" gorm:"column:service;not null"`
	VehicleType string  `json:"vehicle_type" gorm:"column:vehicle_type;not null"`
	Status      string  `json:"status" gorm:"column:status;index;default:pending"`

	MechanicPhone *string  `json:"mechanic_phone" gorm:"column:mechanic_phone;index"`
	MechanicLat   *float64 `json:"mechanic_lat" gorm:"column:mechanic_lat"`
	MechanicLng   *float64 `json:"mechanic_lng" gorm:"column:mechanic_lng"`

	AcceptedAt      *time.Time `json:"acceptedAt" gorm:"column:acceptedAt"`
	CancelledBy     *string    `json:"cancelled_by" gorm:"column:cancelled_by"`
	Amount          *float64   `json:"amount" gorm:"column:amount"`
	CallStartedAt   *time.Time `json:"call_started_at" gorm:"column:call_started_at"`
	CallCompletedAt *time.Time `json:"call_completed_at" gorm:"column:call_completed_at"`
}

// BeforeCreate assigns the external request ID and the initial status.
func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// CreateRequestInput is the body for POST /api/service/create
type CreateRequestInput struct {
	UserPhone   string   `json:"user_phone"`
	UserLat     *float64 `json:"user_lat"`
	UserLng     *float64 `json:"user_lng"`
	Service     string   `json:"service"`
	VehicleType string   `json:"vehicle_type"`
}

// AcceptRequestInput is the body for POST /api/service/accept
type AcceptRequestInput struct {
	RequestID     string   `json:"requestId"`
	MechanicPhone string   `json:"mechanic_phone"`
	MechanicLat   *float64 `json:"mechanic_lat"`
	MechanicLng   *float64 `json:"mechanic_lng"`
}
