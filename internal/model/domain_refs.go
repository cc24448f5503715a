package model

import "github.com/google/uuid"

// Reference entities owned by other platform services. This service only
// reads them for display joins; their CRUD lives elsewhere.

type Truck struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlateNumber string    `gorm:"type:varchar(32)" json:"plate_number"`
	Model       string    `gorm:"type:varchar(64)" json:"model"`
}

func (Truck) TableName() string {
	return "trucks"
}

type Driver struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"type:varchar(255)" json:"full_name"`
	Phone    string    `gorm:"type:varchar(32)" json:"phone"`
}

func (Driver) TableName() string {
	return "drivers"
}

type Barangay struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:text" json:"name"`
}

func (Barangay) TableName() string {
	return "barangays"
}

type Zone struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BarangayID uuid.UUID `gorm:"type:uuid" json:"barangay_id"`
	Name       string    `gorm:"type:text" json:"name"`
}

func (Zone) TableName() string {
	return "zones"
}

type Terminal struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:text" json:"name"`
}

func (Terminal) TableName() string {
	return "terminals"
}
