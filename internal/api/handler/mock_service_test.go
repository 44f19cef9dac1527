package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
)

type MockCustomerService struct {
	mock.Mock
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

func (_m *MockCustomerService) ListActive(ctx context.Context) ([]customer.CustomerView, error) {
	ret := _m.Called(ctx)

	var r0 []customer.CustomerView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]customer.CustomerView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetByID(ctx context.Context, id uuid.UUID) (*customer.CustomerView, error) {
	ret := _m.Called(ctx, id)

	var r0 *customer.CustomerView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CustomerView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetByEmail(ctx context.Context, email string) (*customer.CustomerView, error) {
	ret := _m.Called(ctx, email)

	var r0 *customer.CustomerView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CustomerView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) Create(ctx context.Context, input customer.CreateCustomerInput) (*customer.CustomerView, error) {
	ret := _m.Called(ctx, input)

	var r0 *customer.CustomerView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CustomerView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) Update(ctx context.Context, id uuid.UUID, input customer.UpdateCustomerInput) (*customer.CustomerView, error) {
	ret := _m.Called(ctx, id, input)

	var r0 *customer.CustomerView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CustomerView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerService) AddEmployment(ctx context.Context, customerID uuid.UUID, input customer.EmploymentInput) (*customer.EmploymentView, error) {
	ret := _m.Called(ctx, customerID, input)

	var r0 *customer.EmploymentView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.EmploymentView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) ListEmployments(ctx context.Context, customerID uuid.UUID) ([]customer.EmploymentView, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []customer.EmploymentView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]customer.EmploymentView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCreditHistory(ctx context.Context, customerID uuid.UUID) (*customer.CreditView, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.CreditView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CreditView)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpsertCreditHistory(ctx context.Context, customerID uuid.UUID, input customer.CreditInput) (*customer.CreditView, error) {
	ret := _m.Called(ctx, customerID, input)

	var r0 *customer.CreditView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.CreditView)
	}
	return r0, ret.Error(1)
}
