package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mec-app/mec-backend/internal/models"
)

// DatabaseStore implements Store on top of GORM/PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (s *DatabaseStore) UpsertUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := s.db.Where("phone = ?", phone).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{Phone: phone}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := s.db.Where("phone = ?", phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// Mechanic operations

func (s *DatabaseStore) UpsertMechanicByPhone(phone string) (*models.Mechanic, error) {
	var mech models.Mechanic
	err := s.db.Where(`"Mobile_Number" = ?`, phone).First(&mech).Error
	if err == nil {
		return &mech, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	mech = models.Mechanic{MobileNumber: phone}
	if err := s.db.Create(&mech).Error; err != nil {
		return nil, err
	}
	return &mech, nil
}

func (s *DatabaseStore) GetMechanicByPhone(phone string) (*models.Mechanic, error) {
	var mech models.Mechanic
	err := s.db.Where(`"Mobile_Number" = ?`, phone).First(&mech).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mech, nil
}

func (s *DatabaseStore) UpdateMechanicFields(phone string, fields map[string]interface{}) (*models.Mechanic, error) {
	result := s.db.Model(&models.Mechanic{}).
		Where(`"Mobile_Number" = ?`, phone).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetMechanicByPhone(phone)
}

func (s *DatabaseStore) GetOnDutyMechanics() ([]*models.Mechanic, error) {
	var mechanics []*models.Mechanic
	err := s.db.
		Where("profile_completed = ? AND state = ?", true, models.DutyOn).
		Limit(NearbyPageSize).
		Find(&mechanics).Error
	if err != nil {
		return nil, err
	}
	return mechanics, nil
}

// Service request operations

func (s *DatabaseStore) CreateServiceRequest(req *models.ServiceRequest) (*models.ServiceRequest, error) {
	if err := s.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (s *DatabaseStore) GetServiceRequest(requestID string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := s.db.Where("request_id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// AcceptServiceRequest runs the pending->accepted transition as a single
// conditional UPDATE. The WHERE clause on status makes the database the
// arbiter under concurrent acceptors: only one UPDATE matches a row, the
// rest see RowsAffected == 0 and get ErrConflict.
func (s *DatabaseStore) AcceptServiceRequest(requestID, mechanicPhone string, lat, lng *float64) (*models.ServiceRequest, error) {
	now := time.Now()
	result := s.db.Model(&models.ServiceRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":         models.StatusAccepted,
			"mechanic_phone": mechanicPhone,
			"mechanic_lat":   lat,
			"mechanic_lng":   lng,
			"acceptedAt":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, s.classifyMissedUpdate(requestID)
	}
	return s.GetServiceRequest(requestID)
}

// CancelServiceRequest is the same conditional-update pattern for
// pending->cancelled.
func (s *DatabaseStore) CancelServiceRequest(requestID, cancelledBy string) (*models.ServiceRequest, error) {
	result := s.db.Model(&models.ServiceRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":       models.StatusCancelled,
			"cancelled_by": cancelledBy,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, s.classifyMissedUpdate(requestID)
	}
	return s.GetServiceRequest(requestID)
}

func (s *DatabaseStore) CompleteServiceRequest(requestID, mechanicPhone string) (*models.ServiceRequest, error) {
	now := time.Now()
	result := s.db.Model(&models.ServiceRequest{}).
		Where("request_id = ? AND status = ? AND mechanic_phone = ?",
			requestID, models.StatusAccepted, mechanicPhone).
		Updates(map[string]interface{}{
			"status":            models.StatusCompleted,
			"call_completed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, s.classifyMissedUpdate(requestID)
	}
	return s.GetServiceRequest(requestID)
}

// classifyMissedUpdate decides whether a zero-row conditional update means
// the request is absent or just in the wrong state.
func (s *DatabaseStore) classifyMissedUpdate(requestID string) error {
	if _, err := s.GetServiceRequest(requestID); err != nil {
		return err
	}
	return ErrConflict
}

func (s *DatabaseStore) UpdateRequestLocation(requestID string, lat, lng *float64) (*models.ServiceRequest, error) {
	result := s.db.Model(&models.ServiceRequest{}).
		Where("request_id = ?", requestID).
		Updates(map[string]interface{}{
			"mechanic_lat": lat,
			"mechanic_lng": lng,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetServiceRequest(requestID)
}

func (s *DatabaseStore) GetActiveRequestsForMechanic(mechanicPhone string) ([]*models.ServiceRequest, error) {
	var requests []*models.ServiceRequest
	err := s.db.
		Where("status = ? OR (status = ? AND mechanic_phone = ?)",
			models.StatusPending, models.StatusAccepted, mechanicPhone).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *DatabaseStore) GetRequestsByUserPhone(phone string) ([]*models.ServiceRequest, error) {
	var requests []*models.ServiceRequest
	err := s.db.
		Where("user_phone = ?", phone).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *DatabaseStore) GetRequestsByMechanicPhone(phone string) ([]*models.ServiceRequest, error) {
	var requests []*models.ServiceRequest
	err := s.db.
		Where("mechanic_phone = ?", phone).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
