package postgresql

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/uknown4ever/parking/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"

	constraintOpenSpace = "uq_sessions_open_space"
)

// wrapErr translates driver-level failures into the repository's sentinel
// errors and tags everything else with the calling method, mirroring how
// handlers branch on errors.Is.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		if pgErr.ConstraintName == constraintOpenSpace {
			return fmt.Errorf("%s: %w", op, repository.ErrSpaceOccupied)
		}
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicateKey)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: %v", op, repository.ErrStorageUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
