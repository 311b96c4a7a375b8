package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/repository"
)

type pgSpaceRepository struct {
	db *sql.DB
}

func NewPgSpaceRepository(db *sql.DB) repository.SpaceRepository {
	return &pgSpaceRepository{db: db}
}

func (r *pgSpaceRepository) Create(ctx context.Context, space *domain.Space) (*domain.Space, error) {
	query := `INSERT INTO spaces (label, kind, status, hourly_rate)
	           VALUES ($1, $2, $3, $4)
	           RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		space.Label, space.Kind, space.Status, space.HourlyRate,
	).Scan(&space.ID)
	if err != nil {
		return nil, wrapErr("SpaceRepository.Create", err)
	}
	return space, nil
}

func (r *pgSpaceRepository) Update(ctx context.Context, space *domain.Space) (*domain.Space, error) {
	query := `UPDATE spaces
	           SET label = $1, kind = $2, status = $3, hourly_rate = $4
	           WHERE id = $5
	           RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		space.Label, space.Kind, space.Status, space.HourlyRate, space.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("SpaceRepository.Update", err)
	}
	return space, nil
}

func (r *pgSpaceRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM spaces WHERE id = $1`, id)
	if err != nil {
		return wrapErr("SpaceRepository.Delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgSpaceRepository) FindByID(ctx context.Context, id int) (*domain.Space, error) {
	space := &domain.Space{}
	query := `SELECT id, label, kind, status, hourly_rate FROM spaces WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&space.ID, &space.Label, &space.Kind, &space.Status, &space.HourlyRate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("SpaceRepository.FindByID", err)
	}
	return space, nil
}

func (r *pgSpaceRepository) FindAll(ctx context.Context) ([]domain.Space, error) {
	query := `SELECT id, label, kind, status, hourly_rate FROM spaces ORDER BY label`
	return r.queryList(ctx, "SpaceRepository.FindAll", query)
}

func (r *pgSpaceRepository) Find(ctx context.Context, kind *domain.SpaceKind, status *domain.SpaceStatus) ([]domain.Space, error) {
	baseQuery := `SELECT id, label, kind, status, hourly_rate FROM spaces`

	var conditions []string
	var args []interface{}
	argID := 1

	if kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argID))
		args = append(args, *kind)
		argID++
	}
	if status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *status)
		argID++
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY label"

	return r.queryList(ctx, "SpaceRepository.Find", query, args...)
}

func (r *pgSpaceRepository) FindFreeByKind(ctx context.Context, kind domain.SpaceKind) ([]domain.Space, error) {
	query := `SELECT id, label, kind, status, hourly_rate
	           FROM spaces
	           WHERE status = $1 AND kind = $2
	           ORDER BY label`
	return r.queryList(ctx, "SpaceRepository.FindFreeByKind", query, domain.StatusFree, kind)
}

func (r *pgSpaceRepository) queryList(ctx context.Context, op, query string, args ...interface{}) ([]domain.Space, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var spaces []domain.Space
	for rows.Next() {
		var space domain.Space
		if err := rows.Scan(&space.ID, &space.Label, &space.Kind, &space.Status, &space.HourlyRate); err != nil {
			return nil, wrapErr(op+" (scanning row)", err)
		}
		spaces = append(spaces, space)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op+" (rows error)", err)
	}
	return spaces, nil
}
