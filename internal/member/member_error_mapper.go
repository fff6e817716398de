package member

import (
	"errors"
	"strings"

	membererrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/member/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return membererrors.ErrMemberNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return membererrors.ErrMemberAlreadyExists
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return membererrors.ErrMemberAlreadyExists
	}

	return err
}
