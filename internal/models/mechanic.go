package models

import (
	"gorm.io/gorm"
)

// Duty state constants
const (
	DutyOn  = "OnDuty"
	DutyOff = "OffDuty"
)

// Mechanic represents a mechanic profile. Column names are kept exactly as
// they exist in the production collection (mixed Pascal/snake case), so the
// mobile clients and the old database keep working unchanged.
type Mechanic struct {
	gorm.Model

	Name          string  `json:"Name" gorm:"column:Name"`
	MobileNumber  string  `json:"Mobile_Number" gorm:"column:Mobile_Number;uniqueIndex;not null"`
	TypeOfService string  `json:"TypeOfService" gorm:"column:TypeOfService"` // comma-joined list
	Role          string  `json:"Role" gorm:"column:Role"`                   // comma-joined list
	TypeOfVehicle string  `json:"TypeOfVehicle" gorm:"column:TypeOfVehicle"` // comma-joined list
	Address       string  `json:"Address" gorm:"column:Address"`
	AadhaarNumber string  `json:"-" gorm:"column:Aadhaar_Number"` // encrypted, never returned
	Latitude      float64 `json:"latitude" gorm:"column:latitude"`
	Longitude     float64 `json:"longitude" gorm:"column:longitude"`
	State         string  `json:"state" gorm:"column:state;default:OffDuty"` // OnDuty | OffDuty
	Rating        float64 `json:"rating" gorm:"column:rating;default:4.5"`
	ProfileDone   bool    `json:"profile_completed" gorm:"column:profile_completed;default:false"`
}

// BeforeCreate makes sure a fresh login row starts off-duty and incomplete.
func (m *Mechanic) BeforeCreate(tx *gorm.DB) error {
	if m.State == "" {
		m.State = DutyOff
	}
	if m.Rating == 0 {
		m.Rating = 4.5
	}
	return nil
}

// MechanicRegistration is the body for POST /api/mechanic/register
type MechanicRegistration struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone"`
	ServiceTypes []string `json:"serviceTypes"`
	Roles        []string `json:"roles"`
	VehicleTypes []string `json:"vehicleTypes"`
	Address      string   `json:"address"`
	Aadhaar      string   `json:"aadhaar"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
}

// MechanicProfileUpdate is the body for PUT /api/mechanic/profile
type MechanicProfileUpdate struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Service string `json:"service"`
	Address string `json:"address"`
}

// NearbyMechanic is a mechanic plus its haversine distance from the caller.
type NearbyMechanic struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Service   string  `json:"service"`
	Role      string  `json:"role"`
	Rating    float64 `json:"rating"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"` // km
}
