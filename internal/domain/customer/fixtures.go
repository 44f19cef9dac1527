package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	SeedCustomerJohnID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	SeedCustomerJaneID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// SeedProfiles returns the two demo customers every store starts with.
// Timestamps are relative to now; identifiers are fixed.
func SeedProfiles(now time.Time) []Profile {
	now = now.UTC()
	return []Profile{
		{
			Customer: Customer{
				ID:          SeedCustomerJohnID,
				FirstName:   "John",
				LastName:    "Doe",
				Email:       "john.doe@email.com",
				Phone:       "+1-555-0101",
				SSN:         "123-45-6789",
				DateOfBirth: date(1985, time.May, 15),
				Active:      true,
				CreatedAt:   now,
			},
			Address: &Address{
				ID:          uuid.MustParse("aaaa1111-1111-1111-1111-111111111111"),
				CustomerID:  SeedCustomerJohnID,
				Street:      "123 Main Street",
				City:        "New York",
				State:       "NY",
				ZipCode:     "10001",
				Country:     DefaultCountry,
				AddressType: AddressTypePrimary,
				CreatedAt:   now,
			},
			Employments: []Employment{
				{
					ID:             uuid.MustParse("bbbb1111-1111-1111-1111-111111111111"),
					CustomerID:     SeedCustomerJohnID,
					EmployerName:   "Tech Corp Inc",
					JobTitle:       ptr("Software Engineer"),
					EmploymentType: EmploymentTypeFullTime,
					AnnualIncome:   decimal.NewFromInt(120000),
					StartDate:      date(2018, time.March, 1),
					IsCurrent:      true,
					CreatedAt:      now,
				},
			},
			CreditHistory: &CreditHistory{
				ID:               uuid.MustParse("cccc1111-1111-1111-1111-111111111111"),
				CustomerID:       SeedCustomerJohnID,
				CreditScore:      750,
				ReportDate:       now.AddDate(0, 0, -30),
				CreditBureau:     "Experian",
				TotalDebt:        decimal.NewFromInt(25000),
				AvailableCredit:  decimal.NewFromInt(50000),
				NumberOfAccounts: 5,
				CreatedAt:        now,
			},
		},
		{
			Customer: Customer{
				ID:          SeedCustomerJaneID,
				FirstName:   "Jane",
				LastName:    "Smith",
				Email:       "jane.smith@email.com",
				Phone:       "+1-555-0102",
				SSN:         "987-65-4321",
				DateOfBirth: date(1990, time.August, 22),
				Active:      true,
				CreatedAt:   now,
			},
			Address: &Address{
				ID:          uuid.MustParse("aaaa2222-2222-2222-2222-222222222222"),
				CustomerID:  SeedCustomerJaneID,
				Street:      "456 Oak Avenue",
				Unit:        ptr("Apt 2B"),
				City:        "Los Angeles",
				State:       "CA",
				ZipCode:     "90001",
				Country:     DefaultCountry,
				AddressType: AddressTypePrimary,
				CreatedAt:   now,
			},
			Employments: []Employment{
				{
					ID:             uuid.MustParse("bbbb2222-2222-2222-2222-222222222222"),
					CustomerID:     SeedCustomerJaneID,
					EmployerName:   "Finance Plus LLC",
					JobTitle:       ptr("Financial Analyst"),
					EmploymentType: EmploymentTypeFullTime,
					AnnualIncome:   decimal.NewFromInt(95000),
					StartDate:      date(2019, time.June, 15),
					IsCurrent:      true,
					CreatedAt:      now,
				},
			},
			CreditHistory: &CreditHistory{
				ID:               uuid.MustParse("cccc2222-2222-2222-2222-222222222222"),
				CustomerID:       SeedCustomerJaneID,
				CreditScore:      680,
				ReportDate:       now.AddDate(0, 0, -15),
				CreditBureau:     "TransUnion",
				TotalDebt:        decimal.NewFromInt(35000),
				AvailableCredit:  decimal.NewFromInt(40000),
				NumberOfAccounts: 7,
				LatePayments:     1,
				CreatedAt:        now,
			},
		},
	}
}
