package storage

import (
	"errors"
	"sync"

	"github.com/mec-app/mec-backend/internal/models"
)

// Sentinel errors so callers can tell true absence and state conflicts apart
// from backend failures.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("invalid state transition")
)

// NearbyPageSize bounds the mechanic scan used by the nearby query.
const NearbyPageSize = 100

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations. All phone arguments
// are expected in normalized form.
type Store interface {
	// User operations
	UpsertUserByPhone(phone string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Mechanic operations
	UpsertMechanicByPhone(phone string) (*models.Mechanic, error)
	GetMechanicByPhone(phone string) (*models.Mechanic, error)
	UpdateMechanicFields(phone string, fields map[string]interface{}) (*models.Mechanic, error)
	GetOnDutyMechanics() ([]*models.Mechanic, error)

	// Service request operations
	CreateServiceRequest(req *models.ServiceRequest) (*models.ServiceRequest, error)
	GetServiceRequest(requestID string) (*models.ServiceRequest, error)
	AcceptServiceRequest(requestID, mechanicPhone string, lat, lng *float64) (*models.ServiceRequest, error)
	CancelServiceRequest(requestID, cancelledBy string) (*models.ServiceRequest, error)
	CompleteServiceRequest(requestID, mechanicPhone string) (*models.ServiceRequest, error)
	UpdateRequestLocation(requestID string, lat, lng *float64) (*models.ServiceRequest, error)
	GetActiveRequestsForMechanic(mechanicPhone string) ([]*models.ServiceRequest, error)
	GetRequestsByUserPhone(phone string) ([]*models.ServiceRequest, error)
	GetRequestsByMechanicPhone(phone string) ([]*models.ServiceRequest, error)
}
