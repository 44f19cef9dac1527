package customer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultCountry = "USA"

const DefaultCreditBureau = "Experian"

type Customer struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	SSN         string
	DateOfBirth time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Age is the year difference, reduced by one while today's day-of-year is
// still before the birth day-of-year.
func (c *Customer) Age(now time.Time) int {
	age := now.Year() - c.DateOfBirth.Year()
	if now.YearDay() < c.DateOfBirth.YearDay() {
		age--
	}
	return age
}

func (c *Customer) Deactivate(at time.Time) {
	c.Active = false
	c.UpdatedAt = &at
}

type AddressType int

const (
	AddressTypePrimary AddressType = iota + 1
	AddressTypeMailing
	AddressTypePrevious
)

func (t AddressType) String() string {
	switch t {
	case AddressTypePrimary:
		return "Primary"
	case AddressTypeMailing:
		return "Mailing"
	case AddressTypePrevious:
		return "Previous"
	default:
		return strconv.Itoa(int(t))
	}
}

// ParseAddressType accepts the symbolic name, case-insensitively.
func ParseAddressType(s string) (AddressType, error) {
	for _, t := range []AddressType{AddressTypePrimary, AddressTypeMailing, AddressTypePrevious} {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown address type %q", s)
}

type Address struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Street      string
	Unit        *string
	City        string
	State       string
	ZipCode     string
	Country     string
	AddressType AddressType
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (a *Address) FullAddress() string {
	if a.Unit == nil || *a.Unit == "" {
		return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
	}
	return fmt.Sprintf("%s %s, %s, %s %s", a.Street, *a.Unit, a.City, a.State, a.ZipCode)
}

type EmploymentType int

const (
	EmploymentTypeFullTime EmploymentType = iota + 1
	EmploymentTypePartTime
	EmploymentTypeSelfEmployed
	EmploymentTypeRetired
	EmploymentTypeUnemployed
	EmploymentTypeContract
)

var employmentTypeNames = map[EmploymentType]string{
	EmploymentTypeFullTime:     "FullTime",
	EmploymentTypePartTime:     "PartTime",
	EmploymentTypeSelfEmployed: "SelfEmployed",
	EmploymentTypeRetired:      "Retired",
	EmploymentTypeUnemployed:   "Unemployed",
	EmploymentTypeContract:     "Contract",
}

func (t EmploymentType) String() string {
	if name, ok := employmentTypeNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

func (t EmploymentType) Valid() bool {
	_, ok := employmentTypeNames[t]
	return ok
}

func ParseEmploymentType(s string) (EmploymentType, error) {
	s = strings.TrimSpace(s)
	for t, name := range employmentTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && EmploymentType(n).Valid() {
		return EmploymentType(n), nil
	}
	return 0, fmt.Errorf("unknown employment type %q", s)
}

func (t EmploymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the symbolic name or the numeric value.
func (t *EmploymentType) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !EmploymentType(n).Valid() {
			return fmt.Errorf("unknown employment type %d", n)
		}
		*t = EmploymentType(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("employment type must be a name or a number: %w", err)
	}
	parsed, err := ParseEmploymentType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Employment struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	EmployerName   string
	JobTitle       *string
	EmploymentType EmploymentType
	AnnualIncome   decimal.Decimal
	StartDate      time.Time
	EndDate        *time.Time
	IsCurrent      bool
	Phone          *string
	Address        *string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

func (e *Employment) YearsEmployed(now time.Time) int {
	if e.IsCurrent {
		return now.Year() - e.StartDate.Year()
	}
	if e.EndDate != nil {
		return e.EndDate.Year() - e.StartDate.Year()
	}
	return now.Year() - e.StartDate.Year()
}

type CreditHistory struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	CreditScore      int
	ReportDate       time.Time
	CreditBureau     string
	TotalDebt        decimal.Decimal
	AvailableCredit  decimal.Decimal
	NumberOfAccounts int
	LatePayments     int
	Bankruptcies     int
	Foreclosures     int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func (c *CreditHistory) CreditRating() string {
	switch {
	case c.CreditScore >= 800:
		return "Excellent"
	case c.CreditScore >= 740:
		return "Very Good"
	case c.CreditScore >= 670:
		return "Good"
	case c.CreditScore >= 580:
		return "Fair"
	default:
		return "Poor"
	}
}

var hundred = decimal.NewFromInt(100)

// DebtToIncomeRatio is zero whenever no credit is available. Midpoints round to even.
func (c *CreditHistory) DebtToIncomeRatio() decimal.Decimal {
	if !c.AvailableCredit.IsPositive() {
		return decimal.Zero
	}
	return c.TotalDebt.Div(c.AvailableCredit).Mul(hundred).RoundBank(2)
}

// Profile is a customer expanded with everything it owns.
type Profile struct {
	Customer      Customer
	Address       *Address
	Employments   []Employment
	CreditHistory *CreditHistory
}
