package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/repository"
)

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) repository.SessionRepository {
	return &pgSessionRepository{db: db}
}

// Every read joins the space and vehicle rows so callers get a consistent
// point-in-time snapshot alongside the session itself.
const sessionSelect = `SELECT s.id, s.space_id, s.vehicle_id, s.entry_time, s.exit_time, s.charge,
	       p.id, p.label, p.kind, p.status, p.hourly_rate,
	       v.id, v.plate, v.make, v.category
	  FROM sessions s
	  JOIN spaces p ON p.id = s.space_id
	  JOIN vehicles v ON v.id = s.vehicle_id`

func (r *pgSessionRepository) Open(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("SessionRepository.Open (begin)", err)
	}
	defer tx.Rollback()

	// The partial unique index on (space_id) WHERE exit_time IS NULL is the
	// linearization point: a concurrent open on the same space fails here
	// with ErrSpaceOccupied instead of corrupting the invariant.
	query := `INSERT INTO sessions (space_id, vehicle_id, entry_time)
	           VALUES ($1, $2, $3)
	           RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		session.SpaceID, session.VehicleID, session.EntryTime,
	).Scan(&session.ID)
	if err != nil {
		return nil, wrapErr("SessionRepository.Open", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE spaces SET status = $1 WHERE id = $2`,
		domain.StatusOccupied, session.SpaceID,
	)
	if err != nil {
		return nil, wrapErr("SessionRepository.Open (space status)", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, wrapErr("SessionRepository.Open (commit)", err)
	}
	return r.FindByID(ctx, session.ID)
}

func (r *pgSessionRepository) Close(ctx context.Context, id int, exitTime time.Time, charge float64) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("SessionRepository.Close (begin)", err)
	}
	defer tx.Rollback()

	// Guarded update: the exit_time IS NULL predicate makes a second close a
	// no-op, which we report as ErrAlreadyClosed below.
	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET exit_time = $1, charge = $2 WHERE id = $3 AND exit_time IS NULL`,
		exitTime, charge, id,
	)
	if err != nil {
		return nil, wrapErr("SessionRepository.Close", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, wrapErr("SessionRepository.Close (rows affected)", err)
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return nil, wrapErr("SessionRepository.Close (exists)", err)
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrAlreadyClosed
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE spaces SET status = $1 WHERE id = (SELECT space_id FROM sessions WHERE id = $2)`,
		domain.StatusFree, id,
	)
	if err != nil {
		return nil, wrapErr("SessionRepository.Close (space status)", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, wrapErr("SessionRepository.Close (commit)", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgSessionRepository) Update(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	query := `UPDATE sessions
	           SET space_id = $1, vehicle_id = $2, entry_time = $3, exit_time = $4, charge = $5
	           WHERE id = $6
	           RETURNING id`

	var exitTimeVal sql.NullTime
	if session.ExitTime.Valid {
		exitTimeVal = sql.NullTime{Time: session.ExitTime.Time, Valid: true}
	}
	var chargeVal sql.NullFloat64
	if session.Charge.Valid {
		chargeVal = sql.NullFloat64{Float64: session.Charge.Float64, Valid: true}
	}

	var id int
	err := r.db.QueryRowContext(ctx, query,
		session.SpaceID, session.VehicleID, session.EntryTime, exitTimeVal, chargeVal, session.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("SessionRepository.Update", err)
	}
	return r.FindByID(ctx, session.ID)
}

func (r *pgSessionRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("SessionRepository.Delete (begin)", err)
	}
	defer tx.Rollback()

	var spaceID int
	var wasOpen bool
	err = tx.QueryRowContext(ctx,
		`DELETE FROM sessions WHERE id = $1 RETURNING space_id, exit_time IS NULL`, id,
	).Scan(&spaceID, &wasOpen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return wrapErr("SessionRepository.Delete", err)
	}

	// Deleting an open session must release its space, or the status would
	// claim an occupancy no session backs.
	if wasOpen {
		if _, err = tx.ExecContext(ctx,
			`UPDATE spaces SET status = $1 WHERE id = $2`, domain.StatusFree, spaceID,
		); err != nil {
			return wrapErr("SessionRepository.Delete (space status)", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return wrapErr("SessionRepository.Delete (commit)", err)
	}
	return nil
}

func (r *pgSessionRepository) FindByID(ctx context.Context, id int) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("SessionRepository.FindByID", err)
	}
	return session, nil
}

func (r *pgSessionRepository) FindAll(ctx context.Context) ([]domain.Session, error) {
	return r.queryList(ctx, "SessionRepository.FindAll", sessionSelect+` ORDER BY s.entry_time DESC`)
}

func (r *pgSessionRepository) FindOpen(ctx context.Context) ([]domain.Session, error) {
	return r.queryList(ctx, "SessionRepository.FindOpen",
		sessionSelect+` WHERE s.exit_time IS NULL ORDER BY s.entry_time`)
}

func (r *pgSessionRepository) FindOpenBySpaceID(ctx context.Context, spaceID int) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		sessionSelect+` WHERE s.space_id = $1 AND s.exit_time IS NULL`, spaceID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrapErr("SessionRepository.FindOpenBySpaceID", err)
	}
	return session, nil
}

func (r *pgSessionRepository) HasOpenByVehicleID(ctx context.Context, vehicleID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE vehicle_id = $1 AND exit_time IS NULL)`,
		vehicleID,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("SessionRepository.HasOpenByVehicleID", err)
	}
	return exists, nil
}

func (r *pgSessionRepository) FindByVehicle(ctx context.Context, vehicleID int) ([]domain.Session, error) {
	return r.queryList(ctx, "SessionRepository.FindByVehicle",
		sessionSelect+` WHERE s.vehicle_id = $1 ORDER BY s.entry_time DESC`, vehicleID)
}

func (r *pgSessionRepository) Find(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.SpaceKind != nil {
		conditions = append(conditions, fmt.Sprintf("p.kind = $%d", argID))
		args = append(args, *filter.SpaceKind)
		argID++
	}
	if filter.Status != nil {
		if *filter.Status == domain.SessionOpen {
			conditions = append(conditions, "s.exit_time IS NULL")
		} else {
			conditions = append(conditions, "s.exit_time IS NOT NULL")
		}
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("s.entry_time::date >= $%d::date", argID))
		args = append(args, *filter.DateFrom)
		argID++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.entry_time::date <= $%d::date", argID))
		args = append(args, *filter.DateTo)
		argID++
	}

	query := sessionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.entry_time DESC"

	return r.queryList(ctx, "SessionRepository.Find", query, args...)
}

func (r *pgSessionRepository) MonthlyRevenue(ctx context.Context) ([]domain.RevenueByMonth, error) {
	query := `SELECT to_char(exit_time, 'YYYY-MM') AS month, SUM(charge) AS total
	           FROM sessions
	           WHERE exit_time IS NOT NULL
	           GROUP BY month
	           ORDER BY month`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("SessionRepository.MonthlyRevenue", err)
	}
	defer rows.Close()

	var result []domain.RevenueByMonth
	for rows.Next() {
		var rev domain.RevenueByMonth
		if err := rows.Scan(&rev.Month, &rev.Total); err != nil {
			return nil, wrapErr("SessionRepository.MonthlyRevenue (scanning row)", err)
		}
		result = append(result, rev)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr("SessionRepository.MonthlyRevenue (rows error)", err)
	}
	return result, nil
}

func (r *pgSessionRepository) queryList(ctx context.Context, op, query string, args ...interface{}) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, wrapErr(op+" (scanning row)", err)
		}
		sessions = append(sessions, *session)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op+" (rows error)", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	session := &domain.Session{
		Space:   &domain.Space{},
		Vehicle: &domain.Vehicle{},
	}
	err := row.Scan(
		&session.ID, &session.SpaceID, &session.VehicleID,
		&session.EntryTime, &session.ExitTime, &session.Charge,
		&session.Space.ID, &session.Space.Label, &session.Space.Kind,
		&session.Space.Status, &session.Space.HourlyRate,
		&session.Vehicle.ID, &session.Vehicle.Plate, &session.Vehicle.Make,
		&session.Vehicle.Category,
	)
	if err != nil {
		return nil, err
	}
	session.EntryTime = session.EntryTime.In(time.UTC)
	if session.ExitTime.Valid {
		session.ExitTime.Time = session.ExitTime.Time.In(time.UTC)
	}
	return session, nil
}
