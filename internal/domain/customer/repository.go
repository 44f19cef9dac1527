package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
)

var (
	ErrNotFound = fmt.Errorf("customer %w", apperrors.ErrNotFound)

	ErrCreditHistoryNotFound = fmt.Errorf("credit history %w", apperrors.ErrNotFound)

	ErrDuplicateCustomer = fmt.Errorf("email or ssn %w", apperrors.ErrAlreadyExists)
)

type Repository interface {
	FindProfiles(ctx context.Context, activeOnly bool) ([]Profile, error)

	FindProfileByID(ctx context.Context, id uuid.UUID, activeOnly bool) (*Profile, error)

	FindProfileByEmail(ctx context.Context, email string, activeOnly bool) (*Profile, error)

	// CreateCustomer stores the customer and, when non-nil, its address in one unit of work.
	CreateCustomer(ctx context.Context, customer *Customer, address *Address) error

	UpdateCustomer(ctx context.Context, customer *Customer, address *Address) error

	// SetActiveStatus ignores the current active flag when looking the customer up.
	SetActiveStatus(ctx context.Context, id uuid.UUID, active bool, at time.Time) error

	// Delete removes the customer and everything it owns.
	Delete(ctx context.Context, id uuid.UUID) error

	AddEmployment(ctx context.Context, employment *Employment) error

	FindEmployments(ctx context.Context, customerID uuid.UUID) ([]Employment, error)

	FindCreditHistory(ctx context.Context, customerID uuid.UUID) (*CreditHistory, error)

	// SaveCreditHistory inserts the record, or overwrites the one already held for
	// the same customer.
	SaveCreditHistory(ctx context.Context, credit *CreditHistory) error

	Ping(ctx context.Context) error
}
