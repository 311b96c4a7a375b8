package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/repository"
)

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (plate, make, category)
	           VALUES ($1, $2, $3)
	           RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		vehicle.Plate, vehicle.Make, vehicle.Category,
	).Scan(&vehicle.ID)
	if err != nil {
		return nil, wrapErr("VehicleRepository.Create", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `UPDATE vehicles
	           SET plate = $1, make = $2, category = $3
	           WHERE id = $4
	           RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		vehicle.Plate, vehicle.Make, vehicle.Category, vehicle.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("VehicleRepository.Update", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return wrapErr("VehicleRepository.Delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgVehicleRepository) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT id, plate, make, category FROM vehicles WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vehicle.ID, &vehicle.Plate, &vehicle.Make, &vehicle.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("VehicleRepository.FindByID", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT id, plate, make, category FROM vehicles ORDER BY plate`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("VehicleRepository.FindAll", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.Plate, &vehicle.Make, &vehicle.Category); err != nil {
			return nil, wrapErr("VehicleRepository.FindAll (scanning row)", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr("VehicleRepository.FindAll (rows error)", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT id, plate, make, category FROM vehicles WHERE plate = $1`

	err := r.db.QueryRowContext(ctx, query, plate).Scan(
		&vehicle.ID, &vehicle.Plate, &vehicle.Make, &vehicle.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("VehicleRepository.FindByPlate", err)
	}
	return vehicle, nil
}
