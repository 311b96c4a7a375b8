package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/repository"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v4"
)

// ErrInvalidInput marks request payloads the engine rejects before touching
// storage (unknown kind, empty label, negative rate, malformed filter date).
var ErrInvalidInput = errors.New("invalid input")

const dateLayout = "2006-01-02"

// ParkingService is the occupancy and billing engine. All business rules live
// here; the repositories below it are pure storage, the handlers above it are
// pure renderers.
type ParkingService struct {
	spaceRepo   repository.SpaceRepository
	vehicleRepo repository.VehicleRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
	log         *logrus.Logger
}

func NewParkingService(
	spaceRepo repository.SpaceRepository,
	vehicleRepo repository.VehicleRepository,
	sessionRepo repository.SessionRepository,
	log *logrus.Logger,
) *ParkingService {
	return &ParkingService{
		spaceRepo:   spaceRepo,
		vehicleRepo: vehicleRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
		log:         log,
	}
}

// WithClock overrides the time source, for deterministic tests.
func (s *ParkingService) WithClock(now func() time.Time) *ParkingService {
	s.now = now
	return s
}

// --- Space ---

func (s *ParkingService) CreateSpace(ctx context.Context, dto domain.SpaceDTO) (*domain.Space, error) {
	space, err := spaceFromDTO(dto)
	if err != nil {
		return nil, err
	}
	return s.spaceRepo.Create(ctx, space)
}

func (s *ParkingService) GetSpaceByID(ctx context.Context, id int) (*domain.Space, error) {
	return s.spaceRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllSpaces(ctx context.Context) ([]domain.Space, error) {
	return s.spaceRepo.FindAll(ctx)
}

func (s *ParkingService) FindSpaces(ctx context.Context, dto domain.SpaceFilterDTO) ([]domain.Space, error) {
	var kind *domain.SpaceKind
	if dto.Kind != nil && *dto.Kind != "" {
		k := domain.SpaceKind(*dto.Kind)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: unknown space kind %q", ErrInvalidInput, *dto.Kind)
		}
		kind = &k
	}
	var status *domain.SpaceStatus
	if dto.Status != nil && *dto.Status != "" {
		st := domain.SpaceStatus(*dto.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown space status %q", ErrInvalidInput, *dto.Status)
		}
		status = &st
	}
	return s.spaceRepo.Find(ctx, kind, status)
}

func (s *ParkingService) FindFreeSpaces(ctx context.Context, kind string) ([]domain.Space, error) {
	k := domain.SpaceKind(kind)
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown space kind %q", ErrInvalidInput, kind)
	}
	return s.spaceRepo.FindFreeByKind(ctx, k)
}

func (s *ParkingService) UpdateSpace(ctx context.Context, id int, dto domain.SpaceDTO) (*domain.Space, error) {
	space, err := s.spaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := spaceFromDTO(dto)
	if err != nil {
		return nil, err
	}
	// Status is derived from open sessions and only flipped by open/close;
	// an operator edit never touches it.
	updated.ID = space.ID
	updated.Status = space.Status
	return s.spaceRepo.Update(ctx, updated)
}

func (s *ParkingService) DeleteSpace(ctx context.Context, id int) error {
	if _, err := s.spaceRepo.FindByID(ctx, id); err != nil {
		return err
	}
	_, err := s.sessionRepo.FindOpenBySpaceID(ctx, id)
	if err == nil {
		return fmt.Errorf("cannot delete space %d: %w", id, repository.ErrReferencedByOpenSession)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking open sessions for space %d: %w", id, err)
	}
	return s.spaceRepo.Delete(ctx, id)
}

func spaceFromDTO(dto domain.SpaceDTO) (*domain.Space, error) {
	kind := domain.SpaceKind(dto.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown space kind %q", ErrInvalidInput, dto.Kind)
	}
	if dto.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidInput)
	}
	return &domain.Space{
		Label:      dto.Label,
		Kind:       kind,
		Status:     domain.StatusFree,
		HourlyRate: dto.HourlyRate,
	}, nil
}

// --- Vehicle ---

func (s *ParkingService) CreateVehicle(ctx context.Context, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	vehicle, err := vehicleFromDTO(dto)
	if err != nil {
		return nil, err
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *ParkingService) GetVehicleByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.FindAll(ctx)
}

func (s *ParkingService) GetVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByPlate(ctx, domain.NormalizePlate(plate))
}

func (s *ParkingService) UpdateVehicle(ctx context.Context, id int, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	if _, err := s.vehicleRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	vehicle, err := vehicleFromDTO(dto)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	return s.vehicleRepo.Update(ctx, vehicle)
}

func (s *ParkingService) DeleteVehicle(ctx context.Context, id int) error {
	if _, err := s.vehicleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	open, err := s.sessionRepo.HasOpenByVehicleID(ctx, id)
	if err != nil {
		return fmt.Errorf("checking open sessions for vehicle %d: %w", id, err)
	}
	if open {
		return fmt.Errorf("cannot delete vehicle %d: %w", id, repository.ErrReferencedByOpenSession)
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func vehicleFromDTO(dto domain.VehicleDTO) (*domain.Vehicle, error) {
	plate := domain.NormalizePlate(dto.Plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate must not be empty", ErrInvalidInput)
	}
	category := domain.VehicleCategory(dto.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle category %q", ErrInvalidInput, dto.Category)
	}
	return &domain.Vehicle{
		Plate:    plate,
		Make:     dto.Make,
		Category: category,
	}, nil
}

// --- Sessions ---

// OpenSession assigns a space to a vehicle. The single-open-session-per-space
// guarantee is enforced by the repository's atomic insert, not by the
// existence checks here, which only produce better NotFound errors.
func (s *ParkingService) OpenSession(ctx context.Context, dto domain.OpenSessionDTO) (*domain.Session, error) {
	if _, err := s.spaceRepo.FindByID(ctx, dto.SpaceID); err != nil {
		return nil, fmt.Errorf("space %d: %w", dto.SpaceID, err)
	}
	if _, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID); err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", dto.VehicleID, err)
	}

	entryTime := s.now().UTC()
	if dto.EntryTime != nil {
		entryTime = dto.EntryTime.UTC()
	}

	session, err := s.sessionRepo.Open(ctx, &domain.Session{
		SpaceID:   dto.SpaceID,
		VehicleID: dto.VehicleID,
		EntryTime: entryTime,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"space_id":   session.SpaceID,
		"vehicle_id": session.VehicleID,
		"entry_time": session.EntryTime,
	}).Info("session opened")
	return session, nil
}

// CloseSession computes the charge and releases the space.
func (s *ParkingService) CloseSession(ctx context.Context, id int, dto domain.CloseSessionDTO) (*domain.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Open() {
		return nil, repository.ErrAlreadyClosed
	}

	exitTime := s.now().UTC()
	if dto.ExitTime != nil {
		exitTime = dto.ExitTime.UTC()
	}
	if exitTime.Before(session.EntryTime) {
		return nil, fmt.Errorf("%w: exit %s before entry %s",
			repository.ErrInvalidTimeRange, exitTime.Format(time.RFC3339), session.EntryTime.Format(time.RFC3339))
	}

	charge := domain.ComputeCharge(session.EntryTime, exitTime, session.Space.HourlyRate)

	closed, err := s.sessionRepo.Close(ctx, id, exitTime, charge)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": closed.ID,
		"space_id":   closed.SpaceID,
		"exit_time":  exitTime,
		"charge":     charge,
	}).Info("session closed")
	return closed, nil
}

func (s *ParkingService) GetSessionByID(ctx context.Context, id int) (*domain.Session, error) {
	return s.sessionRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessionRepo.FindAll(ctx)
}

func (s *ParkingService) GetOpenSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessionRepo.FindOpen(ctx)
}

func (s *ParkingService) GetSessionsByVehicle(ctx context.Context, vehicleID int) ([]domain.Session, error) {
	if _, err := s.vehicleRepo.FindByID(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", vehicleID, err)
	}
	return s.sessionRepo.FindByVehicle(ctx, vehicleID)
}

// UpdateSession is the administrative full overwrite. It keeps the session
// invariants intact (exit and charge set together, exit not before entry) but
// does not recompute the charge: the operator's figures stand as given.
func (s *ParkingService) UpdateSession(ctx context.Context, id int, dto domain.UpdateSessionDTO) (*domain.Session, error) {
	if _, err := s.sessionRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.spaceRepo.FindByID(ctx, dto.SpaceID); err != nil {
		return nil, fmt.Errorf("space %d: %w", dto.SpaceID, err)
	}
	if _, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID); err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", dto.VehicleID, err)
	}
	if (dto.ExitTime == nil) != (dto.Charge == nil) {
		return nil, fmt.Errorf("%w: exit time and charge must be set together", ErrInvalidInput)
	}

	session := &domain.Session{
		ID:        id,
		SpaceID:   dto.SpaceID,
		VehicleID: dto.VehicleID,
		EntryTime: dto.EntryTime.UTC(),
	}
	if dto.ExitTime != nil {
		exit := dto.ExitTime.UTC()
		if exit.Before(session.EntryTime) {
			return nil, fmt.Errorf("%w: exit before entry", repository.ErrInvalidTimeRange)
		}
		session.ExitTime = null.TimeFrom(exit)
		session.Charge = null.FloatFrom(*dto.Charge)
	}
	return s.sessionRepo.Update(ctx, session)
}

// DeleteSession is an administrative override, allowed regardless of state.
// The repository releases the space when the deleted session was still open.
func (s *ParkingService) DeleteSession(ctx context.Context, id int) error {
	return s.sessionRepo.Delete(ctx, id)
}

func (s *ParkingService) FindSessions(ctx context.Context, dto domain.SessionFilterDTO) ([]domain.Session, error) {
	filter, err := sessionFilterFromDTO(dto)
	if err != nil {
		return nil, err
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, fmt.Errorf("%w: date_to before date_from", repository.ErrInvalidTimeRange)
	}
	return s.sessionRepo.Find(ctx, filter)
}

func (s *ParkingService) MonthlyRevenue(ctx context.Context) ([]domain.RevenueByMonth, error) {
	return s.sessionRepo.MonthlyRevenue(ctx)
}

func sessionFilterFromDTO(dto domain.SessionFilterDTO) (domain.SessionFilter, error) {
	var filter domain.SessionFilter

	if dto.SpaceKind != nil && *dto.SpaceKind != "" {
		kind := domain.SpaceKind(*dto.SpaceKind)
		if !kind.Valid() {
			return filter, fmt.Errorf("%w: unknown space kind %q", ErrInvalidInput, *dto.SpaceKind)
		}
		filter.SpaceKind = &kind
	}
	if dto.Status != nil && *dto.Status != "" {
		state := domain.SessionState(*dto.Status)
		if !state.Valid() {
			return filter, fmt.Errorf("%w: unknown session status %q", ErrInvalidInput, *dto.Status)
		}
		filter.Status = &state
	}
	if dto.DateFrom != nil && *dto.DateFrom != "" {
		t, err := time.Parse(dateLayout, *dto.DateFrom)
		if err != nil {
			return filter, fmt.Errorf("%w: date_from: %v", ErrInvalidInput, err)
		}
		filter.DateFrom = &t
	}
	if dto.DateTo != nil && *dto.DateTo != "" {
		t, err := time.Parse(dateLayout, *dto.DateTo)
		if err != nil {
			return filter, fmt.Errorf("%w: date_to: %v", ErrInvalidInput, err)
		}
		filter.DateTo = &t
	}
	return filter, nil
}
