package domain

import "strings"

type VehicleCategory string

const (
	CategoryStandard   VehicleCategory = "standard"
	CategoryMotorcycle VehicleCategory = "motorcycle"
	CategoryAccessible VehicleCategory = "accessible"
)

func (c VehicleCategory) Valid() bool {
	switch c {
	case CategoryStandard, CategoryMotorcycle, CategoryAccessible:
		return true
	}
	return false
}

// Vehicle is a registered plate/make record. Its category mirrors SpaceKind
// for matching in the UI but is never enforced against the space a session
// parks it on.
type Vehicle struct {
	ID       int             `json:"id"`
	Plate    string          `json:"plate"`
	Make     string          `json:"make"`
	Category VehicleCategory `json:"category"`
}

// NormalizePlate is applied before every write and lookup so the unique
// constraint on plate is case-insensitive in practice.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

type VehicleDTO struct {
	Plate    string `json:"plate" binding:"required"`
	Make     string `json:"make"`
	Category string `json:"category" binding:"required"`
}
