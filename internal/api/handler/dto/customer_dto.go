package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Date accepts a plain calendar date as well as a full timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func (d *Date) value() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

type CreateCustomerRequest struct {
	FirstName   string                `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string                `json:"lastName" validate:"required,min=2,max=50"`
	Email       string                `json:"email" validate:"required,email"`
	Phone       string                `json:"phone" validate:"required,phone"`
	SSN         string                `json:"ssn" validate:"required,min=9,max=11"`
	DateOfBirth *Date                 `json:"dateOfBirth" validate:"required"`
	Address     *CreateAddressRequest `json:"address"`
}

type CreateAddressRequest struct {
	Street      string  `json:"street" validate:"required,max=200"`
	Unit        *string `json:"unit" validate:"omitempty,max=100"`
	City        string  `json:"city" validate:"required,max=100"`
	State       string  `json:"state" validate:"required,max=50"`
	ZipCode     string  `json:"zipCode" validate:"required,max=10"`
	Country     string  `json:"country" validate:"omitempty,max=50"`
	AddressType string  `json:"addressType" validate:"omitempty,addresstype"`
}

func (r *CreateCustomerRequest) Validate() error {
	return Validate(r)
}

// ToInput assumes Validate has passed.
func (r *CreateCustomerRequest) ToInput() customer.CreateCustomerInput {
	in := customer.CreateCustomerInput{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		SSN:       strings.TrimSpace(r.SSN),
	}
	if r.DateOfBirth != nil {
		in.DateOfBirth = r.DateOfBirth.Time
	}
	if r.Address != nil {
		a := r.Address
		addressType, _ := customer.ParseAddressType(a.AddressType)
		in.Address = &customer.AddressInput{
			Street:      a.Street,
			Unit:        a.Unit,
			City:        a.City,
			State:       a.State,
			ZipCode:     a.ZipCode,
			Country:     a.Country,
			AddressType: addressType,
		}
	}
	return in
}

// UpdateCustomerRequest is a partial update; omitted or blank fields keep their value.
type UpdateCustomerRequest struct {
	FirstName *string               `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  *string               `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email     *string               `json:"email" validate:"omitempty,email"`
	Phone     *string               `json:"phone" validate:"omitempty,phone"`
	Address   *UpdateAddressRequest `json:"address"`
}

type UpdateAddressRequest struct {
	Street  *string `json:"street"`
	Unit    *string `json:"unit"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
}

func (r *UpdateCustomerRequest) Validate() error {
	return Validate(r)
}

func (r *UpdateCustomerRequest) ToInput() customer.UpdateCustomerInput {
	in := customer.UpdateCustomerInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
	if r.Address != nil {
		in.Address = &customer.UpdateAddressInput{
			Street:  r.Address.Street,
			Unit:    r.Address.Unit,
			City:    r.Address.City,
			State:   r.Address.State,
			ZipCode: r.Address.ZipCode,
		}
	}
	return in
}

type CreateEmploymentRequest struct {
	EmployerName   string                  `json:"employerName" validate:"required,max=100"`
	JobTitle       *string                 `json:"jobTitle" validate:"omitempty,max=100"`
	EmploymentType customer.EmploymentType `json:"employmentType" validate:"required"`
	AnnualIncome   decimal.Decimal         `json:"annualIncome" validate:"gte=0,lte=100000000"`
	StartDate      *Date                   `json:"startDate" validate:"required"`
	EndDate        *Date                   `json:"endDate"`
	IsCurrent      *bool                   `json:"isCurrent"`
	Phone          *string                 `json:"phone" validate:"omitempty,max=20"`
	Address        *string                 `json:"address" validate:"omitempty,max=300"`
}

func (r *CreateEmploymentRequest) Validate() error {
	return Validate(r)
}

func (r *CreateEmploymentRequest) ToInput() customer.EmploymentInput {
	in := customer.EmploymentInput{
		EmployerName:   strings.TrimSpace(r.EmployerName),
		JobTitle:       r.JobTitle,
		EmploymentType: r.EmploymentType,
		AnnualIncome:   r.AnnualIncome,
		EndDate:        r.EndDate.value(),
		IsCurrent:      true,
		Phone:          r.Phone,
		Address:        r.Address,
	}
	if r.StartDate != nil {
		in.StartDate = r.StartDate.Time
	}
	if r.IsCurrent != nil {
		in.IsCurrent = *r.IsCurrent
	}
	return in
}

type UpdateCreditRequest struct {
	CreditScore      *int             `json:"creditScore" validate:"required,min=300,max=850"`
	TotalDebt        *decimal.Decimal `json:"totalDebt" validate:"omitempty,gte=0"`
	AvailableCredit  *decimal.Decimal `json:"availableCredit" validate:"omitempty,gte=0"`
	NumberOfAccounts *int             `json:"numberOfAccounts" validate:"omitempty,gte=0"`
	LatePayments     *int             `json:"latePayments" validate:"omitempty,gte=0"`
}

func (r *UpdateCreditRequest) Validate() error {
	return Validate(r)
}

func (r *UpdateCreditRequest) ToInput() customer.CreditInput {
	in := customer.CreditInput{
		TotalDebt:        r.TotalDebt,
		AvailableCredit:  r.AvailableCredit,
		NumberOfAccounts: r.NumberOfAccounts,
		LatePayments:     r.LatePayments,
	}
	if r.CreditScore != nil {
		in.CreditScore = *r.CreditScore
	}
	return in
}
