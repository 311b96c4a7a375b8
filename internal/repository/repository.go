package repository

import (
	"context"
	"errors"
	"time"

	"github.com/uknown4ever/parking/internal/domain"
)

var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrSpaceOccupied           = errors.New("space already has an open session")
	ErrAlreadyClosed           = errors.New("session is already closed")
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrReferencedByOpenSession = errors.New("referenced by an open session")
	ErrStorageUnavailable      = errors.New("storage unavailable")
)

type SpaceRepository interface {
	Create(ctx context.Context, space *domain.Space) (*domain.Space, error)
	Update(ctx context.Context, space *domain.Space) (*domain.Space, error)
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Space, error)
	FindAll(ctx context.Context) ([]domain.Space, error)
	Find(ctx context.Context, kind *domain.SpaceKind, status *domain.SpaceStatus) ([]domain.Space, error)
	FindFreeByKind(ctx context.Context, kind domain.SpaceKind) ([]domain.Space, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Vehicle, error)
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
}

// SessionRepository owns the occupancy invariant at the storage level. Open
// and Close each apply the session write and the space status flip as one
// atomic unit; a second Open racing on the same space must fail with
// ErrSpaceOccupied instead of inserting a second open row.
type SessionRepository interface {
	// Open inserts the session (exit and charge unset) and flips its space to
	// occupied. Returns the created session with joined snapshots.
	Open(ctx context.Context, session *domain.Session) (*domain.Session, error)
	// Close sets exit time and charge on an open session and flips its space
	// back to free. ErrAlreadyClosed if the exit time is already set.
	Close(ctx context.Context, id int, exitTime time.Time, charge float64) (*domain.Session, error)
	// Update is a full overwrite by id, for administrative corrections.
	// Validation is the engine's job, not the repository's.
	Update(ctx context.Context, session *domain.Session) (*domain.Session, error)
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Session, error)
	FindAll(ctx context.Context) ([]domain.Session, error)
	FindOpen(ctx context.Context) ([]domain.Session, error)
	FindOpenBySpaceID(ctx context.Context, spaceID int) (*domain.Session, error)
	HasOpenByVehicleID(ctx context.Context, vehicleID int) (bool, error)
	FindByVehicle(ctx context.Context, vehicleID int) ([]domain.Session, error)
	Find(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)
	MonthlyRevenue(ctx context.Context) ([]domain.RevenueByMonth, error)
}
