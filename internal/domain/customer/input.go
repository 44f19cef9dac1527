package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inputs arrive already validated by the transport layer.

type CreateCustomerInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	SSN         string
	DateOfBirth time.Time
	Address     *AddressInput
}

type AddressInput struct {
	Street      string
	Unit        *string
	City        string
	State       string
	ZipCode     string
	Country     string
	AddressType AddressType
}

// UpdateCustomerInput holds a partial update. Nil or blank fields are left untouched.
type UpdateCustomerInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *UpdateAddressInput
}

type UpdateAddressInput struct {
	Street  *string
	Unit    *string
	City    *string
	State   *string
	ZipCode *string
}

type EmploymentInput struct {
	EmployerName   string
	JobTitle       *string
	EmploymentType EmploymentType
	AnnualIncome   decimal.Decimal
	StartDate      time.Time
	EndDate        *time.Time
	IsCurrent      bool
	Phone          *string
	Address        *string
}

// CreditInput always carries a score; the other figures are only applied when set.
type CreditInput struct {
	CreditScore      int
	TotalDebt        *decimal.Decimal
	AvailableCredit  *decimal.Decimal
	NumberOfAccounts *int
	LatePayments     *int
}
