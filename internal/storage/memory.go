package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mec-app/mec-backend/internal/models"
)

// MemoryStore holds all data in memory, used for tests and local development
// (USE_MEMORY_STORE=true).
type MemoryStore struct {
	users     map[string]*models.User     // keyed by phone
	mechanics map[string]*models.Mechanic // keyed by phone
	requests  map[string]*models.ServiceRequest

	// Mutexes for thread safety
	userMu     sync.RWMutex
	mechanicMu sync.RWMutex
	requestMu  sync.RWMutex

	// Counters for ID generation
	userCounter     uint
	mechanicCounter uint
	requestCounter  uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		mechanics: make(map[string]*models.Mechanic),
		requests:  make(map[string]*models.ServiceRequest),
	}
}

// User operations

func (m *MemoryStore) UpsertUserByPhone(phone string) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if user, exists := m.users[phone]; exists {
		return user, nil
	}

	m.userCounter++
	user := &models.User{Phone: phone}
	user.ID = m.userCounter
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	m.users[phone] = user
	return user, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[phone]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.Phone]; !exists {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.Phone] = user
	return nil
}

// Mechanic operations

func (m *MemoryStore) UpsertMechanicByPhone(phone string) (*models.Mechanic, error) {
	m.mechanicMu.Lock()
	defer m.mechanicMu.Unlock()

	if mech, exists := m.mechanics[phone]; exists {
		return mech, nil
	}

	m.mechanicCounter++
	mech := &models.Mechanic{
		MobileNumber: phone,
		State:        models.DutyOff,
		Rating:       4.5,
	}
	mech.ID = m.mechanicCounter
	mech.CreatedAt = time.Now()
	mech.UpdatedAt = time.Now()

	m.mechanics[phone] = mech
	return mech, nil
}

func (m *MemoryStore) GetMechanicByPhone(phone string) (*models.Mechanic, error) {
	m.mechanicMu.RLock()
	defer m.mechanicMu.RUnlock()

	mech, exists := m.mechanics[phone]
	if !exists {
		return nil, ErrNotFound
	}
	return mech, nil
}

func (m *MemoryStore) UpdateMechanicFields(phone string, fields map[string]interface{}) (*models.Mechanic, error) {
	m.mechanicMu.Lock()
	defer m.mechanicMu.Unlock()

	mech, exists := m.mechanics[phone]
	if !exists {
		return nil, ErrNotFound
	}

	for column, value := range fields {
		applyMechanicField(mech, column, value)
	}
	mech.UpdatedAt = time.Now()
	return mech, nil
}

// applyMechanicField maps a database column name onto the struct. Column
// names are the source of truth so both store implementations accept the
// same field maps.
func applyMechanicField(mech *models.Mechanic, column string, value interface{}) {
	switch column {
	case "Name":
		mech.Name, _ = value.(string)
	case "TypeOfService":
		mech.TypeOfService, _ = value.(string)
	case "Role":
		mech.Role, _ = value.(string)
	case "TypeOfVehicle":
		mech.TypeOfVehicle, _ = value.(string)
	case "Address":
		mech.Address, _ = value.(string)
	case "Aadhaar_Number":
		mech.AadhaarNumber, _ = value.(string)
	case "latitude":
		mech.Latitude, _ = value.(float64)
	case "longitude":
		mech.Longitude, _ = value.(float64)
	case "state":
		mech.State, _ = value.(string)
	case "profile_completed":
		mech.ProfileDone, _ = value.(bool)
	}
}

func (m *MemoryStore) GetOnDutyMechanics() ([]*models.Mechanic, error) {
	m.mechanicMu.RLock()
	defer m.mechanicMu.RUnlock()

	var result []*models.Mechanic
	for _, mech := range m.mechanics {
		if mech.ProfileDone && strings.EqualFold(mech.State, models.DutyOn) {
			result = append(result, mech)
			if len(result) >= NearbyPageSize {
				break
			}
		}
	}
	return result, nil
}

// Service request operations

func (m *MemoryStore) CreateServiceRequest(req *models.ServiceRequest) (*models.ServiceRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	m.requestCounter++
	req.ID = m.requestCounter
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	req.Status = models.StatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	m.requests[req.RequestID] = req
	return req, nil
}

func (m *MemoryStore) GetServiceRequest(requestID string) (*models.ServiceRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, ErrNotFound
	}
	return req, nil
}

// AcceptServiceRequest performs the pending->accepted transition under the
// store lock, so exactly one of any number of concurrent acceptors wins.
func (m *MemoryStore) AcceptServiceRequest(requestID, mechanicPhone string, lat, lng *float64) (*models.ServiceRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, ErrNotFound
	}
	if req.Status != models.StatusPending {
		return nil, ErrConflict
	}

	now := time.Now()
	req.Status = models.StatusAccepted
	req.MechanicPhone = &mechanicPhone
	req.MechanicLat = lat
	req.MechanicLng = lng
	req.AcceptedAt = &now
	req.UpdatedAt = now
	return req, nil
}

func (m *MemoryStore) CancelServiceRequest(requestID, cancelledBy string) (*models.ServiceRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, ErrNotFound
	}
	if req.Status != models.StatusPending {
		return nil, ErrConflict
	}

	req.Status = models.StatusCancelled
	req.CancelledBy = &cancelledBy
	req.UpdatedAt = time.Now()
	return req, nil
}

func (m *MemoryStore) CompleteServiceRequest(requestID, mechanicPhone string) (*models.ServiceRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, ErrNotFound
	}
	if req.Status != models.StatusAccepted || req.MechanicPhone == nil || *req.MechanicPhone != mechanicPhone {
		return nil, ErrConflict
	}

	now := time.Now()
	req.Status = models.StatusCompleted
	req.CallCompletedAt = &now
	req.UpdatedAt = now
	return req, nil
}

func (m *MemoryStore) UpdateRequestLocation(requestID string, lat, lng *float64) (*models.ServiceRequest, error) {
	m.requestMu.Lock()
	defer m.requestMu.Unlock()

	req, exists := m.requests[requestID]
	if !exists {
		return nil, ErrNotFound
	}

	req.MechanicLat = lat
	req.MechanicLng = lng
	req.UpdatedAt = time.Now()
	return req, nil
}

// GetActiveRequestsForMechanic returns every pending request plus accepted
// requests assigned to the caller.
func (m *MemoryStore) GetActiveRequestsForMechanic(mechanicPhone string) ([]*models.ServiceRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var result []*models.ServiceRequest
	for _, req := range m.requests {
		if req.Status == models.StatusPending {
			result = append(result, req)
			continue
		}
		if req.Status == models.StatusAccepted && req.MechanicPhone != nil && *req.MechanicPhone == mechanicPhone {
			result = append(result, req)
		}
	}
	sortRequestsNewestFirst(result)
	return result, nil
}

func (m *MemoryStore) GetRequestsByUserPhone(phone string) ([]*models.ServiceRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var result []*models.ServiceRequest
	for _, req := range m.requests {
		if req.UserPhone == phone {
			result = append(result, req)
		}
	}
	sortRequestsNewestFirst(result)
	return result, nil
}

func (m *MemoryStore) GetRequestsByMechanicPhone(phone string) ([]*models.ServiceRequest, error) {
	m.requestMu.RLock()
	defer m.requestMu.RUnlock()

	var result []*models.ServiceRequest
	for _, req := range m.requests {
		if req.MechanicPhone != nil && *req.MechanicPhone == phone {
			result = append(result, req)
		}
	}
	sortRequestsNewestFirst(result)
	return result, nil
}

func sortRequestsNewestFirst(reqs []*models.ServiceRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
