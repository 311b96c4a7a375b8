package domain

type SpaceKind string

const (
	KindStandard   SpaceKind = "standard"
	KindMotorcycle SpaceKind = "motorcycle"
	KindAccessible SpaceKind = "accessible"
)

func (k SpaceKind) Valid() bool {
	switch k {
	case KindStandard, KindMotorcycle, KindAccessible:
		return true
	}
	return false
}

type SpaceStatus string

const (
	StatusFree     SpaceStatus = "free"
	StatusOccupied SpaceStatus = "occupied"
)

func (s SpaceStatus) Valid() bool {
	return s == StatusFree || s == StatusOccupied
}

// Space is a physical parking space. Status mirrors the existence of an open
// session referencing the space; it is only ever flipped together with the
// session write, never on its own.
type Space struct {
	ID         int         `json:"id"`
	Label      string      `json:"label"`
	Kind       SpaceKind   `json:"kind"`
	Status     SpaceStatus `json:"status"`
	HourlyRate float64     `json:"hourly_rate"`
}

type SpaceDTO struct {
	Label      string  `json:"label" binding:"required"`
	Kind       string  `json:"kind" binding:"required"`
	HourlyRate float64 `json:"hourly_rate"`
}

type SpaceFilterDTO struct {
	Kind   *string `form:"kind"`
	Status *string `form:"status"`
}
