package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerView struct {
	ID            uuid.UUID        `json:"id"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	FullName      string           `json:"fullName"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	DateOfBirth   time.Time        `json:"dateOfBirth"`
	Age           int              `json:"age"`
	Address       *AddressView     `json:"address"`
	Employments   []EmploymentView `json:"employments"`
	CreditHistory *CreditView      `json:"creditHistory"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     *time.Time       `json:"updatedAt"`
}

type AddressView struct {
	ID          uuid.UUID `json:"id"`
	Street      string    `json:"street"`
	Unit        *string   `json:"unit"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zipCode"`
	Country     string    `json:"country"`
	AddressType string    `json:"addressType"`
	FullAddress string    `json:"fullAddress"`
}

type EmploymentView struct {
	ID             uuid.UUID       `json:"id"`
	EmployerName   string          `json:"employerName"`
	JobTitle       *string         `json:"jobTitle"`
	EmploymentType string          `json:"employmentType"`
	AnnualIncome   decimal.Decimal `json:"annualIncome"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        *time.Time      `json:"endDate"`
	IsCurrent      bool            `json:"isCurrent"`
	YearsEmployed  int             `json:"yearsEmployed"`
}

type CreditView struct {
	ID                uuid.UUID       `json:"id"`
	CreditScore       int             `json:"creditScore"`
	CreditRating      string          `json:"creditRating"`
	ReportDate        time.Time       `json:"reportDate"`
	CreditBureau      string          `json:"creditBureau"`
	TotalDebt         decimal.Decimal `json:"totalDebt"`
	AvailableCredit   decimal.Decimal `json:"availableCredit"`
	DebtToIncomeRatio decimal.Decimal `json:"debtToIncomeRatio"`
	NumberOfAccounts  int             `json:"numberOfAccounts"`
	LatePayments      int             `json:"latePayments"`
}

func NewCustomerView(p *Profile, now time.Time) *CustomerView {
	if p == nil {
		return nil
	}
	c := p.Customer
	view := &CustomerView{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		FullName:      c.FullName(),
		Email:         c.Email,
		Phone:         c.Phone,
		DateOfBirth:   c.DateOfBirth,
		Age:           c.Age(now),
		Address:       NewAddressView(p.Address),
		Employments:   make([]EmploymentView, 0, len(p.Employments)),
		CreditHistory: NewCreditView(p.CreditHistory),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     cloneTime(c.UpdatedAt),
	}
	for i := range p.Employments {
		view.Employments = append(view.Employments, *NewEmploymentView(&p.Employments[i], now))
	}
	return view
}

func NewCustomerViews(profiles []Profile, now time.Time) []CustomerView {
	views := make([]CustomerView, 0, len(profiles))
	for i := range profiles {
		views = append(views, *NewCustomerView(&profiles[i], now))
	}
	return views
}

func NewAddressView(a *Address) *AddressView {
	if a == nil {
		return nil
	}
	return &AddressView{
		ID:          a.ID,
		Street:      a.Street,
		Unit:        cloneString(a.Unit),
		City:        a.City,
		State:       a.State,
		ZipCode:     a.ZipCode,
		Country:     a.Country,
		AddressType: a.AddressType.String(),
		FullAddress: a.FullAddress(),
	}
}

func NewEmploymentView(e *Employment, now time.Time) *EmploymentView {
	if e == nil {
		return nil
	}
	return &EmploymentView{
		ID:             e.ID,
		EmployerName:   e.EmployerName,
		JobTitle:       cloneString(e.JobTitle),
		EmploymentType: e.EmploymentType.String(),
		AnnualIncome:   e.AnnualIncome,
		StartDate:      e.StartDate,
		EndDate:        cloneTime(e.EndDate),
		IsCurrent:      e.IsCurrent,
		YearsEmployed:  e.YearsEmployed(now),
	}
}

func NewEmploymentViews(employments []Employment, now time.Time) []EmploymentView {
	views := make([]EmploymentView, 0, len(employments))
	for i := range employments {
		views = append(views, *NewEmploymentView(&employments[i], now))
	}
	return views
}

func NewCreditView(c *CreditHistory) *CreditView {
	if c == nil {
		return nil
	}
	return &CreditView{
		ID:                c.ID,
		CreditScore:       c.CreditScore,
		CreditRating:      c.CreditRating(),
		ReportDate:        c.ReportDate,
		CreditBureau:      c.CreditBureau,
		TotalDebt:         c.TotalDebt,
		AvailableCredit:   c.AvailableCredit,
		DebtToIncomeRatio: c.DebtToIncomeRatio(),
		NumberOfAccounts:  c.NumberOfAccounts,
		LatePayments:      c.LatePayments,
	}
}

// NewCustomerFromInput builds a fresh active customer and, when the input
// carries one, its linked address.
func NewCustomerFromInput(in CreateCustomerInput, now time.Time) (*Customer, *Address) {
	c := &Customer{
		ID:          uuid.New(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		SSN:         in.SSN,
		DateOfBirth: in.DateOfBirth,
		Active:      true,
		CreatedAt:   now,
	}
	if in.Address == nil {
		return c, nil
	}

	country := in.Address.Country
	if strings.TrimSpace(country) == "" {
		country = DefaultCountry
	}
	addressType := in.Address.AddressType
	if addressType == 0 {
		addressType = AddressTypePrimary
	}
	return c, &Address{
		ID:          uuid.New(),
		CustomerID:  c.ID,
		Street:      in.Address.Street,
		Unit:        cloneString(in.Address.Unit),
		City:        in.Address.City,
		State:       in.Address.State,
		ZipCode:     in.Address.ZipCode,
		Country:     country,
		AddressType: addressType,
		CreatedAt:   now,
	}
}

func NewEmploymentFromInput(customerID uuid.UUID, in EmploymentInput, now time.Time) *Employment {
	return &Employment{
		ID:             uuid.New(),
		CustomerID:     customerID,
		EmployerName:   in.EmployerName,
		JobTitle:       cloneString(in.JobTitle),
		EmploymentType: in.EmploymentType,
		AnnualIncome:   in.AnnualIncome,
		StartDate:      in.StartDate,
		EndDate:        cloneTime(in.EndDate),
		IsCurrent:      in.IsCurrent,
		Phone:          cloneString(in.Phone),
		Address:        cloneString(in.Address),
		CreatedAt:      now,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
