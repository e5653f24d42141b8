package services

import (
	"fmt"

	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
)

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrConflict, fmt.Sprintf(format, args...))
}

func forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrForbidden, fmt.Sprintf(format, args...))
}

func unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrUnauthorized, fmt.Sprintf(format, args...))
}
