package booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/telemed-scheduling/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func parseID(field, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", ErrInvalidInput, field)
	}
	return parsed, nil
}

// storeErr переводит ошибки репозиториев в ошибки пакета.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrNotScheduled):
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
