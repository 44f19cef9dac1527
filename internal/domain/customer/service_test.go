package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
	"github.com/paddyrails/mortgage-customer-service/internal/event"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC)

func setupTest() (*customer.MockRepository, *customer.MockEventPublisher, customer.CustomerService) {
	mockRepo := new(customer.MockRepository)
	mockPub := new(customer.MockEventPublisher)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockRepo, mockPub, logger, customer.WithClock(func() time.Time { return fixedNow }))
	return mockRepo, mockPub, service
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestNewCustomerService(t *testing.T) {
	t.Run("Panics without repository", func(t *testing.T) {
		assert.Panics(t, func() { customer.NewCustomerService(nil, nil, nil) })
	})

	t.Run("Falls back to a no-op publisher", func(t *testing.T) {
		mockRepo := new(customer.MockRepository)
		service := customer.NewCustomerService(mockRepo, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

		mockRepo.On("SetActiveStatus", mock.Anything, customer.SeedCustomerJohnID, false, mock.AnythingOfType("time.Time")).Return(nil).Once()

		found, err := service.Delete(context.Background(), customer.SeedCustomerJohnID)
		assert.NoError(t, err)
		assert.True(t, found)
	})
}

func TestCustomerService_ListActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindProfiles", ctx, true).Return(customer.SeedProfiles(fixedNow), nil).Once()

		views, err := service.ListActive(ctx)

		assert.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "John Doe", views[0].FullName)
		assert.Equal(t, 38, views[0].Age)
		assert.Equal(t, "Jane Smith", views[1].FullName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty store yields an empty list", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindProfiles", ctx, true).Return(nil, nil).Once()

		views, err := service.ListActive(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("database connection failed")
		mockRepo.On("FindProfiles", ctx, true).Return(nil, dbError).Once()

		views, err := service.ListActive(ctx)

		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, views)
		assert.Contains(t, err.Error(), "failed to list active customers")
	})
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := customer.SeedCustomerJohnID

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		profile := customer.SeedProfiles(fixedNow)[0]
		mockRepo.On("FindProfileByID", ctx, id, true).Return(&profile, nil).Once()

		view, err := service.GetByID(ctx, id)

		assert.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, id, view.ID)
		assert.Equal(t, "123 Main Street, New York, NY 10001", view.Address.FullAddress)
		assert.Equal(t, "Very Good", view.CreditHistory.CreditRating)
		assert.Equal(t, "50", view.CreditHistory.DebtToIncomeRatio.String())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindProfileByID", ctx, id, true).Return(nil, customer.ErrNotFound).Once()

		view, err := service.GetByID(ctx, id)

		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, view)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("internal server error")
		mockRepo.On("FindProfileByID", ctx, id, true).Return(nil, dbError).Once()

		view, err := service.GetByID(ctx, id)

		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, view)
		assert.Contains(t, err.Error(), "failed to get customer "+id.String())
	})
}

func TestCustomerService_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		profile := customer.SeedProfiles(fixedNow)[1]
		mockRepo.On("FindProfileByEmail", ctx, "jane.smith@email.com", true).Return(&profile, nil).Once()

		view, err := service.GetByEmail(ctx, "jane.smith@email.com")

		assert.NoError(t, err)
		assert.Equal(t, customer.SeedCustomerJaneID, view.ID)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindProfileByEmail", ctx, "nobody@email.com", true).Return(nil, customer.ErrNotFound).Once()

		view, err := service.GetByEmail(ctx, "nobody@email.com")

		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.Nil(t, view)
	})
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	annInput := customer.CreateCustomerInput{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@x.com",
		Phone:       "+1-555-0000",
		SSN:         "111-22-3333",
		DateOfBirth: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success without address", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("CreateCustomer", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Email == "ann@x.com" && c.Active && c.ID != uuid.Nil && c.CreatedAt.Equal(fixedNow)
		}), (*customer.Address)(nil)).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.MatchedBy(func(e event.CustomerCreatedEvent) bool {
			return e.Payload.Email == "ann@x.com" && e.Payload.Active
		})).Return(nil).Once()

		view, err := service.Create(ctx, annInput)

		assert.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, "Ann Lee", view.FullName)
		assert.Equal(t, 33, view.Age)
		assert.Nil(t, view.Address)
		assert.NotNil(t, view.Employments)
		assert.Empty(t, view.Employments)
		assert.Nil(t, view.CreditHistory)
		assert.Nil(t, view.UpdatedAt)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Success with address linked to the new customer", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		input := annInput
		input.Address = &customer.AddressInput{Street: "1 Elm St", Unit: strPtr("5"), City: "Austin", State: "TX", ZipCode: "73301"}

		mockRepo.On("CreateCustomer", ctx, mock.AnythingOfType("*customer.Customer"), mock.MatchedBy(func(a *customer.Address) bool {
			return a != nil && a.Country == "USA" && a.Street == "1 Elm St"
		})).Run(func(args mock.Arguments) {
			c := args.Get(1).(*customer.Customer)
			a := args.Get(2).(*customer.Address)
			assert.Equal(t, c.ID, a.CustomerID)
		}).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.Anything).Return(nil).Once()

		view, err := service.Create(ctx, input)

		assert.NoError(t, err)
		require.NotNil(t, view.Address)
		assert.Equal(t, "1 Elm St 5, Austin, TX 73301", view.Address.FullAddress)
		assert.Equal(t, "USA", view.Address.Country)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Duplicate email propagates as conflict", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("CreateCustomer", ctx, mock.Anything, mock.Anything).Return(customer.ErrDuplicateCustomer).Once()

		view, err := service.Create(ctx, annInput)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.Nil(t, view)
		mockPub.AssertNotCalled(t, "PublishCustomerCreated", mock.Anything, mock.Anything)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("database connection failed")
		mockRepo.On("CreateCustomer", ctx, mock.Anything, mock.Anything).Return(dbError).Once()

		view, err := service.Create(ctx, annInput)

		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, view)
		assert.Contains(t, err.Error(), "failed to save new customer")
	})

	t.Run("Publish failure does not fail the create", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("CreateCustomer", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		view, err := service.Create(ctx, annInput)

		assert.NoError(t, err)
		assert.NotNil(t, view)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	id := customer.SeedCustomerJaneID

	t.Run("Only present, non-blank fields overwrite", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		profile := customer.SeedProfiles(fixedNow.AddDate(0, -1, 0))[1]
		mockRepo.On("FindProfileByID", ctx, id, true).Return(&profile, nil).Once()
		mockRepo.On("UpdateCustomer", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.FirstName == "Janet" && c.LastName == "Smith" && c.Email == "jane.smith@email.com" &&
				c.UpdatedAt != nil && c.UpdatedAt.Equal(fixedNow)
		}), (*customer.Address)(nil)).Return(nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		view, err := service.Update(ctx, id, customer.UpdateCustomerInput{
			FirstName: strPtr("Janet"),
			LastName:  strPtr("   "),
			Email:     strPtr(""),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Janet Smith", view.FullName)
		require.NotNil(t, view.UpdatedAt)
		assert.Equal(t, fixedNow, *view.UpdatedAt)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Existing address is edited and stamped", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		profile := customer.SeedProfiles(fixedNow)[1]
		mockRepo.On("FindProfileByID", ctx, id, true).Return(&profile, nil).Once()
		mockRepo.On("UpdateCustomer", ctx, mock.Anything, mock.MatchedBy(func(a *customer.Address) bool {
			return a != nil && a.Street == "789 Pine Road" && a.City == "Los Angeles" &&
				a.Unit != nil && *a.Unit == "" && a.UpdatedAt != nil
		})).Return(nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		view, err := service.Update(ctx, id, customer.UpdateCustomerInput{
			Address: &customer.UpdateAddressInput{Street: strPtr("789 Pine Road"), City: strPtr(" "), Unit: strPtr("")},
		})

		assert.NoError(t, err)
		assert.Equal(t, "789 Pine Road, Los Angeles, CA 90001", view.Address.FullAddress)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Address cannot be attached through update", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		profile := &customer.Profile{Customer: customer.Customer{ID: id, FirstName: "Ann", LastName: "Lee", Active: true}}
		mockRepo.On("FindProfileByID", ctx, id, true).Return(profile, nil).Once()
		mockRepo.On("UpdateCustomer", ctx, mock.Anything, (*customer.Address)(nil)).Return(nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		view, err := service.Update(ctx, id, customer.UpdateCustomerInput{
			Address: &customer.UpdateAddressInput{Street: strPtr("1 Elm St"), City: strPtr("Austin")},
		})

		assert.NoError(t, err)
		assert.Nil(t, view.Address)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindProfileByID", ctx, id, true).Return(nil, customer.ErrNotFound).Once()

		view, err := service.Update(ctx, id, customer.UpdateCustomerInput{FirstName: strPtr("Janet")})

		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.Nil(t, view)
		mockRepo.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error - Email collision", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		profile := customer.SeedProfiles(fixedNow)[1]
		mockRepo.On("FindProfileByID", ctx, id, true).Return(&profile, nil).Once()
		mockRepo.On("UpdateCustomer", ctx, mock.Anything, mock.Anything).Return(customer.ErrDuplicateCustomer).Once()

		view, err := service.Update(ctx, id, customer.UpdateCustomerInput{Email: strPtr("john.doe@email.com")})

		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.Nil(t, view)
	})

	t.Run("Error - Customer vanished before save", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		profile := customer.SeedProfiles(fixedNow)[1]
		mockRepo.On("FindProfileByID", ctx, id, true).Return(&profile, nil).Once()
		mockRepo.On("UpdateCustomer", ctx, mock.Anything, mock.Anything).Return(customer.ErrNotFound).Once()

		_, err := service.Update(ctx, id, customer.UpdateCustomerInput{})

		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	id := customer.SeedCustomerJohnID

	t.Run("Soft deletes and reports found", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("SetActiveStatus", ctx, id, false, fixedNow).Return(nil).Once()
		mockPub.On("PublishCustomerDeleted", ctx, event.CustomerDeletedEvent{Timestamp: fixedNow, CustomerID: id}).Return(nil).Once()

		found, err := service.Delete(ctx, id)

		assert.NoError(t, err)
		assert.True(t, found)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Repeated delete is idempotent", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("SetActiveStatus", ctx, id, false, fixedNow).Return(nil).Twice()
		mockPub.On("PublishCustomerDeleted", ctx, mock.Anything).Return(nil).Twice()

		first, err1 := service.Delete(ctx, id)
		second, err2 := service.Delete(ctx, id)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.True(t, first)
		assert.True(t, second)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown id reports not found", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		unknown := uuid.New()
		mockRepo.On("SetActiveStatus", ctx, unknown, false, fixedNow).Return(customer.ErrNotFound).Once()

		found, err := service.Delete(ctx, unknown)

		assert.NoError(t, err)
		assert.False(t, found)
		mockPub.AssertNotCalled(t, "PublishCustomerDeleted", mock.Anything, mock.Anything)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("connection reset")
		mockRepo.On("SetActiveStatus", ctx, id, false, fixedNow).Return(dbError).Once()

		found, err := service.Delete(ctx, id)

		assert.ErrorIs(t, err, dbError)
		assert.False(t, found)
	})
}

func TestCustomerService_AddEmployment(t *testing.T) {
	ctx := context.Background()
	input := customer.EmploymentInput{
		EmployerName:   "Acme",
		JobTitle:       strPtr("Analyst"),
		EmploymentType: customer.EmploymentTypeContract,
		AnnualIncome:   decimal.NewFromInt(80000),
		StartDate:      time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsCurrent:      true,
	}

	t.Run("Attaches to any customer id without checking it", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		unknown := uuid.New()
		mockRepo.On("AddEmployment", ctx, mock.MatchedBy(func(e *customer.Employment) bool {
			return e.CustomerID == unknown && e.ID != uuid.Nil && e.EmployerName == "Acme" && e.CreatedAt.Equal(fixedNow)
		})).Return(nil).Once()
		mockPub.On("PublishEmploymentAdded", ctx, mock.MatchedBy(func(e event.EmploymentAddedEvent) bool {
			return e.CustomerID == unknown && e.EmploymentType == "Contract"
		})).Return(nil).Once()

		view, err := service.AddEmployment(ctx, unknown, input)

		assert.NoError(t, err)
		assert.Equal(t, "Contract", view.EmploymentType)
		assert.Equal(t, 3, view.YearsEmployed)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "FindProfileByID", mock.Anything, mock.Anything, mock.Anything)
		mockPub.AssertExpectations(t)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("disk full")
		mockRepo.On("AddEmployment", ctx, mock.Anything).Return(dbError).Once()

		view, err := service.AddEmployment(ctx, customer.SeedCustomerJohnID, input)

		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, view)
	})
}

func TestCustomerService_ListEmployments(t *testing.T) {
	ctx := context.Background()
	id := customer.SeedCustomerJohnID

	t.Run("Current employment is listed first", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		end := time.Date(2018, time.June, 30, 0, 0, 0, 0, time.UTC)
		mockRepo.On("FindEmployments", ctx, id).Return([]customer.Employment{
			{EmployerName: "Old Co", StartDate: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end},
			{EmployerName: "New Co", StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), IsCurrent: true},
		}, nil).Once()

		views, err := service.ListEmployments(ctx, id)

		assert.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "New Co", views[0].EmployerName)
		assert.Equal(t, "Old Co", views[1].EmployerName)
		assert.Equal(t, 3, views[1].YearsEmployed)
	})

	t.Run("No employments yields an empty list", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindEmployments", ctx, id).Return(nil, nil).Once()

		views, err := service.ListEmployments(ctx, id)

		assert.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("timeout")
		mockRepo.On("FindEmployments", ctx, id).Return(nil, dbError).Once()

		_, err := service.ListEmployments(ctx, id)

		assert.ErrorIs(t, err, dbError)
	})
}

func TestCustomerService_GetCreditHistory(t *testing.T) {
	ctx := context.Background()
	id := customer.SeedCustomerJaneID

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindCreditHistory", ctx, id).Return(customer.SeedProfiles(fixedNow)[1].CreditHistory, nil).Once()

		view, err := service.GetCreditHistory(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, 680, view.CreditScore)
		assert.Equal(t, "Good", view.CreditRating)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindCreditHistory", ctx, id).Return(nil, customer.ErrCreditHistoryNotFound).Once()

		view, err := service.GetCreditHistory(ctx, id)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, view)
	})
}

func TestCustomerService_UpsertCreditHistory(t *testing.T) {
	ctx := context.Background()
	id := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	t.Run("Creates then updates only the supplied figures", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		var stored *customer.CreditHistory

		mockRepo.On("FindCreditHistory", ctx, id).Return(
			func(context.Context, uuid.UUID) *customer.CreditHistory { return stored },
			func(context.Context, uuid.UUID) error {
				if stored == nil {
					return customer.ErrCreditHistoryNotFound
				}
				return nil
			},
		).Twice()
		mockRepo.On("SaveCreditHistory", ctx, mock.AnythingOfType("*customer.CreditHistory")).Run(func(args mock.Arguments) {
			c := *args.Get(1).(*customer.CreditHistory)
			stored = &c
		}).Return(nil).Twice()
		mockPub.On("PublishCreditUpdated", ctx, mock.MatchedBy(func(e event.CreditUpdatedEvent) bool { return e.Created })).Return(nil).Once()
		mockPub.On("PublishCreditUpdated", ctx, mock.MatchedBy(func(e event.CreditUpdatedEvent) bool { return !e.Created })).Return(nil).Once()

		first, err := service.UpsertCreditHistory(ctx, id, customer.CreditInput{
			CreditScore:      700,
			TotalDebt:        decPtr(10000),
			NumberOfAccounts: intPtr(3),
		})
		require.NoError(t, err)
		assert.Equal(t, 700, first.CreditScore)
		assert.Equal(t, "10000", first.TotalDebt.String())
		assert.True(t, first.AvailableCredit.IsZero())
		assert.Equal(t, 3, first.NumberOfAccounts)
		assert.Equal(t, 0, first.LatePayments)
		assert.Equal(t, "Experian", first.CreditBureau)
		assert.Equal(t, fixedNow, first.ReportDate)
		assert.True(t, first.DebtToIncomeRatio.IsZero())
		require.NotNil(t, stored)
		assert.Nil(t, stored.UpdatedAt)

		second, err := service.UpsertCreditHistory(ctx, id, customer.CreditInput{CreditScore: 810})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 810, second.CreditScore)
		assert.Equal(t, "Excellent", second.CreditRating)
		assert.Equal(t, "10000", second.TotalDebt.String())
		assert.Equal(t, 3, second.NumberOfAccounts)
		require.NotNil(t, stored.UpdatedAt)
		assert.Equal(t, fixedNow, *stored.UpdatedAt)

		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Update overwrites score and report date", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		existing := customer.SeedProfiles(fixedNow)[0].CreditHistory
		mockRepo.On("FindCreditHistory", ctx, customer.SeedCustomerJohnID).Return(existing, nil).Once()
		mockRepo.On("SaveCreditHistory", ctx, existing).Return(nil).Once()
		mockPub.On("PublishCreditUpdated", ctx, mock.Anything).Return(nil).Once()

		view, err := service.UpsertCreditHistory(ctx, customer.SeedCustomerJohnID, customer.CreditInput{
			CreditScore:  620,
			LatePayments: intPtr(2),
		})

		require.NoError(t, err)
		assert.Equal(t, 620, view.CreditScore)
		assert.Equal(t, fixedNow, view.ReportDate)
		assert.Equal(t, 2, view.LatePayments)
		assert.Equal(t, "50000", view.AvailableCredit.String())
		assert.Equal(t, "Fair", view.CreditRating)
	})

	t.Run("Error - Lookup failure is not treated as absence", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("connection reset")
		mockRepo.On("FindCreditHistory", ctx, id).Return(nil, dbError).Once()

		view, err := service.UpsertCreditHistory(ctx, id, customer.CreditInput{CreditScore: 700})

		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, view)
		mockRepo.AssertNotCalled(t, "SaveCreditHistory", mock.Anything, mock.Anything)
	})

	t.Run("Error - Save failure", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		dbError := errors.New("connection reset")
		mockRepo.On("FindCreditHistory", ctx, id).Return(nil, customer.ErrCreditHistoryNotFound).Once()
		mockRepo.On("SaveCreditHistory", ctx, mock.Anything).Return(dbError).Once()

		_, err := service.UpsertCreditHistory(ctx, id, customer.CreditInput{CreditScore: 700})

		assert.ErrorIs(t, err, dbError)
	})
}
