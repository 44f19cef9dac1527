package customer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paddyrails/mortgage-customer-service/internal/event"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/monitoring"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	ListActive(ctx context.Context) ([]CustomerView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerView, error)
	GetByEmail(ctx context.Context, email string) (*CustomerView, error)
	Create(ctx context.Context, input CreateCustomerInput) (*CustomerView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddEmployment(ctx context.Context, customerID uuid.UUID, input EmploymentInput) (*EmploymentView, error)
	ListEmployments(ctx context.Context, customerID uuid.UUID) ([]EmploymentView, error)
	GetCreditHistory(ctx context.Context, customerID uuid.UUID) (*CreditView, error)
	UpsertCreditHistory(ctx context.Context, customerID uuid.UUID, input CreditInput) (*CreditView, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*customerService)

// WithClock replaces time.Now as the source of timestamps and derived ages.
func WithClock(now func() time.Time) Option {
	return func(s *customerService) {
		s.now = now
	}
}

func NewCustomerService(repo Repository, eventPublisher event.EventPublisher, logger *slog.Logger, opts ...Option) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if eventPublisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will be dropped")
		eventPublisher = event.NopPublisher{}
	}

	s := &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newCustomerEventPayload(c *Customer) event.CustomerEventPayload {
	return event.CustomerEventPayload{
		CustomerID: c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// publishFailed logs a broker failure. Events never fail the operation that raised them.
func (s *customerService) publishFailed(ctx context.Context, log *slog.Logger, name string, err error) {
	if err != nil {
		log.ErrorContext(ctx, "Write succeeded, but FAILED to publish event", slog.String("event", name), slog.Any("error", err))
		return
	}
	log.DebugContext(ctx, "Published event", slog.String("event", name))
}

func (s *customerService) ListActive(ctx context.Context) ([]CustomerView, error) {
	s.logger.InfoContext(ctx, "Attempting to list all active customers")

	profiles, err := s.repo.FindProfiles(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing active customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list active customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved active customers", slog.Int("count", len(profiles)))
	return NewCustomerViews(profiles, s.now()), nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	log := s.logger.With(slog.String("customerID", id.String()))
	log.InfoContext(ctx, "Attempting to get customer by ID")

	profile, err := s.repo.FindProfileByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}

	return NewCustomerView(profile, s.now()), nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*CustomerView, error) {
	log := s.logger.With(slog.String("email", email))
	log.InfoContext(ctx, "Attempting to get customer by email")

	profile, err := s.repo.FindProfileByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer by email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return NewCustomerView(profile, s.now()), nil
}

func (s *customerService) Create(ctx context.Context, input CreateCustomerInput) (*CustomerView, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	now := s.now().UTC()
	cust, addr := NewCustomerFromInput(input, now)
	log := s.logger.With(slog.String("customerID", cust.ID.String()))

	log.InfoContext(ctx, "Calling repository CreateCustomer", slog.Bool("withAddress", addr != nil))
	if err := s.repo.CreateCustomer(ctx, cust, addr); err != nil {
		if errors.Is(err, ErrDuplicateCustomer) {
			log.WarnContext(ctx, "Email or SSN already in use", slog.Any("error", err))
			return nil, err
		}
		log.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	monitoring.RecordCustomerCreated()

	err := s.pub.PublishCustomerCreated(ctx, event.CustomerCreatedEvent{
		Timestamp: now,
		Payload:   newCustomerEventPayload(cust),
	})
	s.publishFailed(ctx, log, "customer.created", err)

	log.InfoContext(ctx, "Successfully created new customer")
	return NewCustomerView(&Profile{Customer: *cust, Address: addr}, now), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error) {
	log := s.logger.With(slog.String("customerID", id.String()))
	log.InfoContext(ctx, "Attempting to update customer")

	profile, err := s.repo.FindProfileByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, "Customer not found by repository for update")
			return nil, ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %s to update: %w", id, err)
	}

	now := s.now().UTC()
	cust := &profile.Customer
	overwrite(&cust.FirstName, input.FirstName)
	overwrite(&cust.LastName, input.LastName)
	overwrite(&cust.Email, input.Email)
	overwrite(&cust.Phone, input.Phone)
	cust.UpdatedAt = &now

	// An address can only be edited here, never attached.
	var addr *Address
	if input.Address != nil && profile.Address != nil {
		addr = profile.Address
		overwrite(&addr.Street, input.Address.Street)
		overwrite(&addr.City, input.Address.City)
		overwrite(&addr.State, input.Address.State)
		overwrite(&addr.ZipCode, input.Address.ZipCode)
		if input.Address.Unit != nil {
			addr.Unit = cloneString(input.Address.Unit)
		}
		addr.UpdatedAt = &now
	}

	log.InfoContext(ctx, "Calling repository UpdateCustomer", slog.Bool("withAddress", addr != nil))
	if err := s.repo.UpdateCustomer(ctx, cust, addr); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.ErrorContext(ctx, "Customer disappeared before save completed")
			return nil, ErrNotFound
		case errors.Is(err, ErrDuplicateCustomer):
			log.WarnContext(ctx, "Email already in use by another customer", slog.Any("error", err))
			return nil, err
		}
		log.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save updated customer %s: %w", id, err)
	}
	monitoring.RecordCustomerUpdated()

	err = s.pub.PublishCustomerUpdated(ctx, event.CustomerUpdatedEvent{
		Timestamp: now,
		Payload:   newCustomerEventPayload(cust),
	})
	s.publishFailed(ctx, log, "customer.updated", err)

	log.InfoContext(ctx, "Successfully updated customer")
	return NewCustomerView(profile, now), nil
}

// overwrite applies a partial-update field when it is present and not blank.
func overwrite(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = *src
	}
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	log := s.logger.With(slog.String("customerID", id.String()))
	log.InfoContext(ctx, "Attempting to deactivate customer")

	now := s.now().UTC()
	log.InfoContext(ctx, "Calling repository SetActiveStatus", slog.Bool("isActive", false))
	if err := s.repo.SetActiveStatus(ctx, id, false, now); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return false, nil
		}
		log.ErrorContext(ctx, "Repository error deactivating customer", slog.Any("error", err))
		return false, fmt.Errorf("failed to deactivate customer %s: %w", id, err)
	}
	monitoring.RecordCustomerDeleted()

	err := s.pub.PublishCustomerDeleted(ctx, event.CustomerDeletedEvent{Timestamp: now, CustomerID: id})
	s.publishFailed(ctx, log, "customer.deleted", err)

	log.InfoContext(ctx, "Successfully deactivated customer")
	return true, nil
}

func (s *customerService) AddEmployment(ctx context.Context, customerID uuid.UUID, input EmploymentInput) (*EmploymentView, error) {
	log := s.logger.With(slog.String("customerID", customerID.String()))
	log.InfoContext(ctx, "Attempting to add employment")

	now := s.now().UTC()
	emp := NewEmploymentFromInput(customerID, input, now)

	if err := s.repo.AddEmployment(ctx, emp); err != nil {
		log.ErrorContext(ctx, "Repository failed to save employment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add employment for customer %s: %w", customerID, err)
	}
	monitoring.RecordEmploymentAdded()

	err := s.pub.PublishEmploymentAdded(ctx, event.EmploymentAddedEvent{
		Timestamp:      now,
		CustomerID:     customerID,
		EmploymentID:   emp.ID,
		EmployerName:   emp.EmployerName,
		EmploymentType: emp.EmploymentType.String(),
		IsCurrent:      emp.IsCurrent,
	})
	s.publishFailed(ctx, log, "customer.employment.added", err)

	log.InfoContext(ctx, "Successfully added employment", slog.String("employmentID", emp.ID.String()))
	return NewEmploymentView(emp, now), nil
}

func (s *customerService) ListEmployments(ctx context.Context, customerID uuid.UUID) ([]EmploymentView, error) {
	log := s.logger.With(slog.String("customerID", customerID.String()))
	log.InfoContext(ctx, "Attempting to list employments")

	employments, err := s.repo.FindEmployments(ctx, customerID)
	if err != nil {
		log.ErrorContext(ctx, "Repository error listing employments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list employments for customer %s: %w", customerID, err)
	}

	SortEmployments(employments)
	return NewEmploymentViews(employments, s.now()), nil
}

// SortEmployments orders current employments first, each group by start date, newest first.
func SortEmployments(employments []Employment) {
	slices.SortStableFunc(employments, func(a, b Employment) int {
		if a.IsCurrent != b.IsCurrent {
			if a.IsCurrent {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.StartDate.UnixNano(), a.StartDate.UnixNano())
	})
}

func (s *customerService) GetCreditHistory(ctx context.Context, customerID uuid.UUID) (*CreditView, error) {
	log := s.logger.With(slog.String("customerID", customerID.String()))
	log.InfoContext(ctx, "Attempting to get credit history")

	credit, err := s.repo.FindCreditHistory(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrCreditHistoryNotFound) {
			log.WarnContext(ctx, "Credit history not found by repository")
			return nil, ErrCreditHistoryNotFound
		}
		log.ErrorContext(ctx, "Repository error finding credit history", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get credit history for customer %s: %w", customerID, err)
	}

	return NewCreditView(credit), nil
}

func (s *customerService) UpsertCreditHistory(ctx context.Context, customerID uuid.UUID, input CreditInput) (*CreditView, error) {
	log := s.logger.With(slog.String("customerID", customerID.String()))
	log.InfoContext(ctx, "Attempting to upsert credit history")

	credit, err := s.repo.FindCreditHistory(ctx, customerID)
	if err != nil && !errors.Is(err, ErrCreditHistoryNotFound) {
		log.ErrorContext(ctx, "Repository error finding credit history", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load credit history for customer %s: %w", customerID, err)
	}

	now := s.now().UTC()
	created := credit == nil
	if created {
		credit = newCreditHistory(customerID, input, now)
	} else {
		applyCreditInput(credit, input, now)
	}

	log.InfoContext(ctx, "Calling repository SaveCreditHistory", slog.Bool("created", created))
	if err := s.repo.SaveCreditHistory(ctx, credit); err != nil {
		log.ErrorContext(ctx, "Repository failed to save credit history", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save credit history for customer %s: %w", customerID, err)
	}
	monitoring.RecordCreditUpsert(created)

	err = s.pub.PublishCreditUpdated(ctx, event.CreditUpdatedEvent{
		Timestamp:       now,
		CustomerID:      customerID,
		CreditHistoryID: credit.ID,
		CreditScore:     credit.CreditScore,
		CreditRating:    credit.CreditRating(),
		Created:         created,
	})
	s.publishFailed(ctx, log, "customer.credit.updated", err)

	log.InfoContext(ctx, "Successfully saved credit history")
	return NewCreditView(credit), nil
}

func newCreditHistory(customerID uuid.UUID, in CreditInput, now time.Time) *CreditHistory {
	c := &CreditHistory{
		ID:           uuid.New(),
		CustomerID:   customerID,
		CreditScore:  in.CreditScore,
		ReportDate:   now,
		CreditBureau: DefaultCreditBureau,
		CreatedAt:    now,
	}
	applyCreditFigures(c, in)
	return c
}

func applyCreditInput(c *CreditHistory, in CreditInput, now time.Time) {
	c.CreditScore = in.CreditScore
	c.ReportDate = now
	applyCreditFigures(c, in)
	c.UpdatedAt = &now
}

func applyCreditFigures(c *CreditHistory, in CreditInput) {
	if in.TotalDebt != nil {
		c.TotalDebt = *in.TotalDebt
	}
	if in.AvailableCredit != nil {
		c.AvailableCredit = *in.AvailableCredit
	}
	if in.NumberOfAccounts != nil {
		c.NumberOfAccounts = *in.NumberOfAccounts
	}
	if in.LatePayments != nil {
		c.LatePayments = *in.LatePayments
	}
}
