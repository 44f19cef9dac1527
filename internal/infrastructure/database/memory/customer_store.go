package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/monitoring"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
)

// CustomerStore keeps customer profiles in an in-process go-memdb database.
// Reads see a consistent snapshot; writers are serialised by memdb. Every
// value crossing the store boundary is copied.
type CustomerStore struct {
	db     *memdb.MemDB
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerStore)(nil)

func NewCustomerStore(logger *slog.Logger) (*CustomerStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerStore, using default stderr handler")
	}

	db, err := memdb.NewMemDB(newSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to build in-memory schema: %w", err)
	}

	return &CustomerStore{
		db:     db,
		logger: logger.With("component", "MemoryCustomerStore"),
	}, nil
}

// Seed loads the given profiles in a single transaction.
func (s *CustomerStore) Seed(ctx context.Context, profiles []customer.Profile) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for i := range profiles {
		p := &profiles[i]
		if err := s.insertCustomer(txn, &p.Customer); err != nil {
			return err
		}
		if p.Address != nil {
			if err := txn.Insert(tableAddresses, cloneAddress(p.Address)); err != nil {
				return apperrors.WrapDatabaseError(err, "failed to seed address")
			}
		}
		for j := range p.Employments {
			if err := txn.Insert(tableEmployments, cloneEmployment(&p.Employments[j])); err != nil {
				return apperrors.WrapDatabaseError(err, "failed to seed employment")
			}
		}
		if p.CreditHistory != nil {
			if err := txn.Insert(tableCreditHistories, cloneCredit(p.CreditHistory)); err != nil {
				return apperrors.WrapDatabaseError(err, "failed to seed credit history")
			}
		}
	}

	txn.Commit()
	s.logger.InfoContext(ctx, "Seeded in-memory store", slog.Int("customers", len(profiles)))
	return nil
}

func (s *CustomerStore) FindProfiles(ctx context.Context, activeOnly bool) (profiles []customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("memory.find_profiles", time.Now(), &err)

	txn := s.db.Txn(false)
	defer txn.Abort()

	var it memdb.ResultIterator
	if activeOnly {
		it, err = txn.Get(tableCustomers, indexActive, true)
	} else {
		it, err = txn.Get(tableCustomers, indexID)
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to scan customers")
	}

	profiles = []customer.Profile{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p, err := expandProfile(txn, obj.(*customer.Customer))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	slices.SortStableFunc(profiles, func(a, b customer.Profile) int {
		if c := a.Customer.CreatedAt.Compare(b.Customer.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Customer.ID.String(), b.Customer.ID.String())
	})
	return profiles, nil
}

func (s *CustomerStore) FindProfileByID(ctx context.Context, id uuid.UUID, activeOnly bool) (p *customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("memory.find_profile_by_id", time.Now(), &err)
	return s.findProfile(indexID, id, activeOnly)
}

func (s *CustomerStore) FindProfileByEmail(ctx context.Context, email string, activeOnly bool) (p *customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("memory.find_profile_by_email", time.Now(), &err)
	if email == "" {
		return nil, customer.ErrNotFound
	}
	return s.findProfile(indexEmail, email, activeOnly)
}

func (s *CustomerStore) findProfile(index string, arg interface{}, activeOnly bool) (*customer.Profile, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableCustomers, index, arg)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to look up customer")
	}
	if obj == nil {
		return nil, customer.ErrNotFound
	}
	c := obj.(*customer.Customer)
	if activeOnly && !c.Active {
		return nil, customer.ErrNotFound
	}
	return expandProfile(txn, c)
}

func expandProfile(txn *memdb.Txn, c *customer.Customer) (*customer.Profile, error) {
	p := &customer.Profile{Customer: *cloneCustomer(c), Employments: []customer.Employment{}}

	addr, err := txn.First(tableAddresses, indexCustomerID, c.ID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to load address")
	}
	if addr != nil {
		p.Address = cloneAddress(addr.(*customer.Address))
	}

	employments, err := findEmployments(txn, c.ID)
	if err != nil {
		return nil, err
	}
	p.Employments = employments

	credit, err := txn.First(tableCreditHistories, indexCustomerID, c.ID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to load credit history")
	}
	if credit != nil {
		p.CreditHistory = cloneCredit(credit.(*customer.CreditHistory))
	}
	return p, nil
}

func findEmployments(txn *memdb.Txn, customerID uuid.UUID) ([]customer.Employment, error) {
	it, err := txn.Get(tableEmployments, indexCustomerID, customerID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to load employments")
	}
	employments := []customer.Employment{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		employments = append(employments, *cloneEmployment(obj.(*customer.Employment)))
	}
	return employments, nil
}

// insertCustomer enforces email and ssn uniqueness across active and inactive rows.
func (s *CustomerStore) insertCustomer(txn *memdb.Txn, c *customer.Customer) error {
	for _, check := range []struct {
		index string
		value string
	}{
		{indexEmail, c.Email},
		{indexSSN, c.SSN},
	} {
		existing, err := txn.First(tableCustomers, check.index, check.value)
		if err != nil {
			return apperrors.WrapDatabaseError(err, "failed to check customer uniqueness")
		}
		if existing != nil && existing.(*customer.Customer).ID != c.ID {
			return fmt.Errorf("%w: %s already in use", customer.ErrDuplicateCustomer, check.index)
		}
	}

	if err := txn.Insert(tableCustomers, cloneCustomer(c)); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to store customer")
	}
	return nil
}

func (s *CustomerStore) CreateCustomer(ctx context.Context, c *customer.Customer, addr *customer.Address) (err error) {
	defer monitoring.ObserveDBQuery("memory.create_customer", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableCustomers, indexID, c.ID)
	if err != nil {
		return apperrors.WrapDatabaseError(err, "failed to look up customer")
	}
	if existing != nil {
		return fmt.Errorf("%w: id already in use", apperrors.ErrAlreadyExists)
	}

	if err := s.insertCustomer(txn, c); err != nil {
		s.logger.WarnContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return err
	}
	if addr != nil {
		if err := txn.Insert(tableAddresses, cloneAddress(addr)); err != nil {
			return apperrors.WrapDatabaseError(err, "failed to store address")
		}
	}

	txn.Commit()
	return nil
}

func (s *CustomerStore) UpdateCustomer(ctx context.Context, c *customer.Customer, addr *customer.Address) (err error) {
	defer monitoring.ObserveDBQuery("memory.update_customer", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableCustomers, indexID, c.ID)
	if err != nil {
		return apperrors.WrapDatabaseError(err, "failed to look up customer")
	}
	if existing == nil {
		return customer.ErrNotFound
	}

	if err := s.insertCustomer(txn, c); err != nil {
		return err
	}
	if addr != nil {
		if err := txn.Insert(tableAddresses, cloneAddress(addr)); err != nil {
			return apperrors.WrapDatabaseError(err, "failed to store address")
		}
	}

	txn.Commit()
	return nil
}

func (s *CustomerStore) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool, at time.Time) (err error) {
	defer monitoring.ObserveDBQuery("memory.set_active_status", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableCustomers, indexID, id)
	if err != nil {
		return apperrors.WrapDatabaseError(err, "failed to look up customer")
	}
	if obj == nil {
		return customer.ErrNotFound
	}

	updated := cloneCustomer(obj.(*customer.Customer))
	updated.Active = active
	updated.UpdatedAt = &at
	if err := txn.Insert(tableCustomers, updated); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to update customer status")
	}

	txn.Commit()
	return nil
}

func (s *CustomerStore) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer monitoring.ObserveDBQuery("memory.delete_customer", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableCustomers, indexID, id)
	if err != nil {
		return apperrors.WrapDatabaseError(err, "failed to look up customer")
	}
	if obj == nil {
		return customer.ErrNotFound
	}

	for _, table := range []string{tableAddresses, tableEmployments, tableCreditHistories} {
		if _, err := txn.DeleteAll(table, indexCustomerID, id); err != nil {
			return apperrors.WrapDatabaseError(err, "failed to cascade delete from "+table)
		}
	}
	if err := txn.Delete(tableCustomers, obj); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to delete customer")
	}

	txn.Commit()
	s.logger.InfoContext(ctx, "Hard deleted customer", slog.String("customerID", id.String()))
	return nil
}

// AddEmployment does not require the customer to exist.
func (s *CustomerStore) AddEmployment(ctx context.Context, e *customer.Employment) (err error) {
	defer monitoring.ObserveDBQuery("memory.add_employment", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(tableEmployments, cloneEmployment(e)); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to store employment")
	}

	txn.Commit()
	return nil
}

func (s *CustomerStore) FindEmployments(ctx context.Context, customerID uuid.UUID) (employments []customer.Employment, err error) {
	defer monitoring.ObserveDBQuery("memory.find_employments", time.Now(), &err)

	txn := s.db.Txn(false)
	defer txn.Abort()

	return findEmployments(txn, customerID)
}

func (s *CustomerStore) FindCreditHistory(ctx context.Context, customerID uuid.UUID) (credit *customer.CreditHistory, err error) {
	defer monitoring.ObserveDBQuery("memory.find_credit_history", time.Now(), &err)

	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableCreditHistories, indexCustomerID, customerID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to look up credit history")
	}
	if obj == nil {
		return nil, customer.ErrCreditHistoryNotFound
	}
	return cloneCredit(obj.(*customer.CreditHistory)), nil
}

func (s *CustomerStore) SaveCreditHistory(ctx context.Context, credit *customer.CreditHistory) (err error) {
	defer monitoring.ObserveDBQuery("memory.save_credit_history", time.Now(), &err)

	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableCreditHistories, indexCustomerID, credit.CustomerID)
	if err != nil {
		return apperrors.WrapDatabaseError(err, "failed to look up credit history")
	}
	if obj != nil {
		existing := obj.(*customer.CreditHistory)
		credit.ID = existing.ID
		credit.CreatedAt = existing.CreatedAt
	}

	if err := txn.Insert(tableCreditHistories, cloneCredit(credit)); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to store credit history")
	}

	txn.Commit()
	return nil
}

func (s *CustomerStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("in-memory store is not initialised")
	}
	return ctx.Err()
}
