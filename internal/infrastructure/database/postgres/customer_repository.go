package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/monitoring"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
)

const (
	customerColumns   = `id, first_name, last_name, email, phone, ssn, date_of_birth, is_active, created_at, updated_at`
	addressColumns    = `id, customer_id, street, unit, city, state, zip_code, country, address_type, created_at, updated_at`
	employmentColumns = `id, customer_id, employer_name, job_title, employment_type, annual_income, start_date, end_date, is_current, employer_phone, employer_address, created_at, updated_at`
	creditColumns     = `id, customer_id, credit_score, report_date, credit_bureau, total_debt, available_credit, number_of_accounts, late_payments, bankruptcies, foreclosures, created_at, updated_at`
)

const (
	selectCustomersSQL = `SELECT ` + customerColumns + ` FROM customers`

	selectAddressesSQL = `SELECT ` + addressColumns + ` FROM addresses WHERE customer_id = ANY($1)`

	selectEmploymentsSQL = `SELECT ` + employmentColumns + ` FROM employments WHERE customer_id = ANY($1) ORDER BY created_at ASC, id ASC`

	selectCreditsSQL = `SELECT ` + creditColumns + ` FROM credit_histories WHERE customer_id = ANY($1)`

	insertCustomerSQL = `INSERT INTO customers (` + customerColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertAddressSQL = `INSERT INTO addresses (` + addressColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	insertEmploymentSQL = `INSERT INTO employments (` + employmentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	insertCreditSQL = `INSERT INTO credit_histories (` + creditColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateCustomerSQL = `
        UPDATE customers
        SET first_name = $1,
            last_name = $2,
            email = $3,
            phone = $4,
            updated_at = $5
        WHERE id = $6`

	updateAddressSQL = `
        UPDATE addresses
        SET street = $1,
            unit = $2,
            city = $3,
            state = $4,
            zip_code = $5,
            country = $6,
            address_type = $7,
            updated_at = $8
        WHERE id = $9`

	upsertCreditSQL = insertCreditSQL + `
        ON CONFLICT (customer_id) DO UPDATE
        SET credit_score = EXCLUDED.credit_score,
            report_date = EXCLUDED.report_date,
            credit_bureau = EXCLUDED.credit_bureau,
            total_debt = EXCLUDED.total_debt,
            available_credit = EXCLUDED.available_credit,
            number_of_accounts = EXCLUDED.number_of_accounts,
            late_payments = EXCLUDED.late_payments,
            bankruptcies = EXCLUDED.bankruptcies,
            foreclosures = EXCLUDED.foreclosures,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`

	onConflictDoNothing = ` ON CONFLICT DO NOTHING`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.SSN,
		&c.DateOfBirth,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanAddress(row rowScanner) (customer.Address, error) {
	var a customer.Address
	var addressType int
	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.Street,
		&a.Unit,
		&a.City,
		&a.State,
		&a.ZipCode,
		&a.Country,
		&addressType,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.AddressType = customer.AddressType(addressType)
	return a, err
}

func scanEmployment(row rowScanner) (customer.Employment, error) {
	var e customer.Employment
	var employmentType int
	err := row.Scan(
		&e.ID,
		&e.CustomerID,
		&e.EmployerName,
		&e.JobTitle,
		&employmentType,
		&e.AnnualIncome,
		&e.StartDate,
		&e.EndDate,
		&e.IsCurrent,
		&e.Phone,
		&e.Address,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	e.EmploymentType = customer.EmploymentType(employmentType)
	return e, err
}

func scanCredit(row rowScanner) (customer.CreditHistory, error) {
	var c customer.CreditHistory
	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.CreditScore,
		&c.ReportDate,
		&c.CreditBureau,
		&c.TotalDebt,
		&c.AvailableCredit,
		&c.NumberOfAccounts,
		&c.LatePayments,
		&c.Bankruptcies,
		&c.Foreclosures,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func customerArgs(c *customer.Customer) []any {
	return []any{c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.SSN, c.DateOfBirth, c.Active, c.CreatedAt, c.UpdatedAt}
}

func addressArgs(a *customer.Address) []any {
	return []any{a.ID, a.CustomerID, a.Street, a.Unit, a.City, a.State, a.ZipCode, a.Country, int(a.AddressType), a.CreatedAt, a.UpdatedAt}
}

func employmentArgs(e *customer.Employment) []any {
	return []any{e.ID, e.CustomerID, e.EmployerName, e.JobTitle, int(e.EmploymentType), e.AnnualIncome, e.StartDate, e.EndDate, e.IsCurrent, e.Phone, e.Address, e.CreatedAt, e.UpdatedAt}
}

func creditArgs(c *customer.CreditHistory) []any {
	return []any{c.ID, c.CustomerID, c.CreditScore, c.ReportDate, c.CreditBureau, c.TotalDebt, c.AvailableCredit, c.NumberOfAccounts, c.LatePayments, c.Bankruptcies, c.Foreclosures, c.CreatedAt, c.UpdatedAt}
}

// writeError maps constraint violations onto the customer domain errors.
func (r *CustomerRepository) writeError(ctx context.Context, err error, message string) error {
	translatedErr := translateDBError(err, r.logger)
	switch {
	case errors.Is(translatedErr, apperrors.ErrAlreadyExists):
		r.logger.WarnContext(ctx, message+": unique constraint violation", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, customer.ErrDuplicateCustomer, translatedErr)
	case errors.Is(translatedErr, apperrors.ErrNotFound):
		r.logger.WarnContext(ctx, message+": referenced customer does not exist", slog.Any("error", err))
		return customer.ErrNotFound
	}
	r.logger.ErrorContext(ctx, message, slog.Any("error", err))
	return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, message, err)
}

func (r *CustomerRepository) readError(ctx context.Context, err error, message string) error {
	r.logger.ErrorContext(ctx, message, slog.Any("error", err))
	return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, message, err)
}

func (r *CustomerRepository) FindProfiles(ctx context.Context, activeOnly bool) (profiles []customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("postgres.find_profiles", time.Now(), &err)
	r.logger.DebugContext(ctx, "Attempting to find customer profiles", slog.Bool("activeOnly", activeOnly))

	tx, err := beginTx(ctx, r.db, r.logger)
	if err != nil {
		return nil, err
	}
	defer rollbackTx(ctx, tx, r.logger)

	query := selectCustomersSQL
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, r.readError(ctx, err, "failed to query customers")
	}
	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.Customer, error) {
		return scanCustomer(row)
	})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to scan customer rows")
	}

	profiles, err = r.expandProfiles(ctx, tx, customers)
	if err != nil {
		return nil, err
	}
	if err := commitTx(ctx, tx, r.logger); err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "Finished finding customer profiles", slog.Int("count", len(profiles)))
	return profiles, nil
}

func (r *CustomerRepository) FindProfileByID(ctx context.Context, id uuid.UUID, activeOnly bool) (p *customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("postgres.find_profile_by_id", time.Now(), &err)
	return r.findProfile(ctx, "id = $1", id, activeOnly)
}

func (r *CustomerRepository) FindProfileByEmail(ctx context.Context, email string, activeOnly bool) (p *customer.Profile, err error) {
	defer monitoring.ObserveDBQuery("postgres.find_profile_by_email", time.Now(), &err)
	return r.findProfile(ctx, "email = $1", email, activeOnly)
}

func (r *CustomerRepository) findProfile(ctx context.Context, where string, arg any, activeOnly bool) (*customer.Profile, error) {
	tx, err := beginTx(ctx, r.db, r.logger)
	if err != nil {
		return nil, err
	}
	defer rollbackTx(ctx, tx, r.logger)

	query := selectCustomersSQL + " WHERE " + where
	if activeOnly {
		query += " AND is_active = TRUE"
	}

	c, err := scanCustomer(tx.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		return nil, r.readError(ctx, err, "failed to get customer")
	}

	profiles, err := r.expandProfiles(ctx, tx, []customer.Customer{c})
	if err != nil {
		return nil, err
	}
	if err := commitTx(ctx, tx, r.logger); err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// expandProfiles loads the children of every customer with one query per table.
func (r *CustomerRepository) expandProfiles(ctx context.Context, q querier, customers []customer.Customer) ([]customer.Profile, error) {
	profiles := make([]customer.Profile, len(customers))
	if len(customers) == 0 {
		return profiles, nil
	}

	ids := make([]uuid.UUID, len(customers))
	position := make(map[uuid.UUID]int, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		position[c.ID] = i
		profiles[i] = customer.Profile{Customer: c, Employments: []customer.Employment{}}
	}

	rows, err := q.Query(ctx, selectAddressesSQL, ids)
	if err != nil {
		return nil, r.readError(ctx, err, "failed to query addresses")
	}
	addresses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.Address, error) {
		return scanAddress(row)
	})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to scan address rows")
	}
	for i := range addresses {
		if idx, ok := position[addresses[i].CustomerID]; ok {
			profiles[idx].Address = &addresses[i]
		}
	}

	rows, err = q.Query(ctx, selectEmploymentsSQL, ids)
	if err != nil {
		return nil, r.readError(ctx, err, "failed to query employments")
	}
	employments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.Employment, error) {
		return scanEmployment(row)
	})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to scan employment rows")
	}
	for _, e := range employments {
		if idx, ok := position[e.CustomerID]; ok {
			profiles[idx].Employments = append(profiles[idx].Employments, e)
		}
	}

	rows, err = q.Query(ctx, selectCreditsSQL, ids)
	if err != nil {
		return nil, r.readError(ctx, err, "failed to query credit histories")
	}
	credits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.CreditHistory, error) {
		return scanCredit(row)
	})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to scan credit history rows")
	}
	for i := range credits {
		if idx, ok := position[credits[i].CustomerID]; ok {
			profiles[idx].CreditHistory = &credits[i]
		}
	}

	return profiles, nil
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *customer.Customer, addr *customer.Address) (err error) {
	defer monitoring.ObserveDBQuery("postgres.create_customer", time.Now(), &err)
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("customerID", c.ID.String()))

	tx, err := beginTx(ctx, r.db, r.logger)
	if err != nil {
		return err
	}
	defer rollbackTx(ctx, tx, r.logger)

	if _, err := tx.Exec(ctx, insertCustomerSQL, customerArgs(c)...); err != nil {
		return r.writeError(ctx, err, "failed to insert customer")
	}
	if addr != nil {
		if _, err := tx.Exec(ctx, insertAddressSQL, addressArgs(addr)...); err != nil {
			return r.writeError(ctx, err, "failed to insert address")
		}
	}

	return commitTx(ctx, tx, r.logger)
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c *customer.Customer, addr *customer.Address) (err error) {
	defer monitoring.ObserveDBQuery("postgres.update_customer", time.Now(), &err)
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.String("customerID", c.ID.String()))

	tx, err := beginTx(ctx, r.db, r.logger)
	if err != nil {
		return err
	}
	defer rollbackTx(ctx, tx, r.logger)

	cmdTag, err := tx.Exec(ctx, updateCustomerSQL, c.FirstName, c.LastName, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		return r.writeError(ctx, err, "failed to update customer")
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	if addr != nil {
		_, err := tx.Exec(ctx, updateAddressSQL,
			addr.Street,
			addr.Unit,
			addr.City,
			addr.State,
			addr.ZipCode,
			addr.Country,
			int(addr.AddressType),
			addr.UpdatedAt,
			addr.ID,
		)
		if err != nil {
			return r.writeError(ctx, err, "failed to update address")
		}
	}

	return commitTx(ctx, tx, r.logger)
}

func (r *CustomerRepository) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool, at time.Time) (err error) {
	defer monitoring.ObserveDBQuery("postgres.set_active_status", time.Now(), &err)

	query := `UPDATE customers SET is_active = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, active, at, id)
	if err != nil {
		return r.writeError(ctx, err, "failed to update active status")
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update active status affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer active status updated", slog.String("customerID", id.String()), slog.Bool("active", active))
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer monitoring.ObserveDBQuery("postgres.delete_customer", time.Now(), &err)

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return r.writeError(ctx, err, "failed to delete customer")
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Hard deleted customer", slog.String("customerID", id.String()))
	return nil
}

// AddEmployment reports customer.ErrNotFound when the customer row is missing.
func (r *CustomerRepository) AddEmployment(ctx context.Context, e *customer.Employment) (err error) {
	defer monitoring.ObserveDBQuery("postgres.add_employment", time.Now(), &err)

	if _, err := r.db.Exec(ctx, insertEmploymentSQL, employmentArgs(e)...); err != nil {
		return r.writeError(ctx, err, "failed to insert employment")
	}
	return nil
}

func (r *CustomerRepository) FindEmployments(ctx context.Context, customerID uuid.UUID) (employments []customer.Employment, err error) {
	defer monitoring.ObserveDBQuery("postgres.find_employments", time.Now(), &err)

	rows, err := r.db.Query(ctx, selectEmploymentsSQL, []uuid.UUID{customerID})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to query employments")
	}
	employments, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (customer.Employment, error) {
		return scanEmployment(row)
	})
	if err != nil {
		return nil, r.readError(ctx, err, "failed to scan employment rows")
	}
	if employments == nil {
		employments = []customer.Employment{}
	}
	return employments, nil
}

func (r *CustomerRepository) FindCreditHistory(ctx context.Context, customerID uuid.UUID) (credit *customer.CreditHistory, err error) {
	defer monitoring.ObserveDBQuery("postgres.find_credit_history", time.Now(), &err)

	c, err := scanCredit(r.db.QueryRow(ctx, selectCreditsSQL, []uuid.UUID{customerID}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCreditHistoryNotFound
		}
		return nil, r.readError(ctx, err, "failed to get credit history")
	}
	return &c, nil
}

// SaveCreditHistory writes the stored ID and CreatedAt back into credit.
func (r *CustomerRepository) SaveCreditHistory(ctx context.Context, credit *customer.CreditHistory) (err error) {
	defer monitoring.ObserveDBQuery("postgres.save_credit_history", time.Now(), &err)

	err = r.db.QueryRow(ctx, upsertCreditSQL, creditArgs(credit)...).Scan(&credit.ID, &credit.CreatedAt)
	if err != nil {
		return r.writeError(ctx, err, "failed to upsert credit history")
	}
	return nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Seed inserts the profiles, leaving any row that already exists untouched.
func (r *CustomerRepository) Seed(ctx context.Context, profiles []customer.Profile) error {
	tx, err := beginTx(ctx, r.db, r.logger)
	if err != nil {
		return err
	}
	defer rollbackTx(ctx, tx, r.logger)

	for i := range profiles {
		p := &profiles[i]
		if _, err := tx.Exec(ctx, insertCustomerSQL+onConflictDoNothing, customerArgs(&p.Customer)...); err != nil {
			return r.writeError(ctx, err, "failed to seed customer")
		}
		if p.Address != nil {
			if _, err := tx.Exec(ctx, insertAddressSQL+onConflictDoNothing, addressArgs(p.Address)...); err != nil {
				return r.writeError(ctx, err, "failed to seed address")
			}
		}
		for j := range p.Employments {
			if _, err := tx.Exec(ctx, insertEmploymentSQL+onConflictDoNothing, employmentArgs(&p.Employments[j])...); err != nil {
				return r.writeError(ctx, err, "failed to seed employment")
			}
		}
		if p.CreditHistory != nil {
			if _, err := tx.Exec(ctx, insertCreditSQL+onConflictDoNothing, creditArgs(p.CreditHistory)...); err != nil {
				return r.writeError(ctx, err, "failed to seed credit history")
			}
		}
	}

	if err := commitTx(ctx, tx, r.logger); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Seeded database", slog.Int("customers", len(profiles)))
	return nil
}
