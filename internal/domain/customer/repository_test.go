package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paddyrails/mortgage-customer-service/internal/event"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) FindProfiles(ctx context.Context, activeOnly bool) ([]Profile, error) {
	ret := _m.Called(ctx, activeOnly)

	var r0 []Profile
	if rf, ok := ret.Get(0).(func(context.Context, bool) []Profile); ok {
		r0 = rf(ctx, activeOnly)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]Profile)
		}
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindProfileByID(ctx context.Context, id uuid.UUID, activeOnly bool) (*Profile, error) {
	ret := _m.Called(ctx, id, activeOnly)

	var r0 *Profile
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, bool) *Profile); ok {
		r0 = rf(ctx, id, activeOnly)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Profile)
		}
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindProfileByEmail(ctx context.Context, email string, activeOnly bool) (*Profile, error) {
	ret := _m.Called(ctx, email, activeOnly)

	var r0 *Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Profile)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) CreateCustomer(ctx context.Context, customer *Customer, address *Address) error {
	ret := _m.Called(ctx, customer, address)
	return ret.Error(0)
}

func (_m *MockRepository) UpdateCustomer(ctx context.Context, customer *Customer, address *Address) error {
	ret := _m.Called(ctx, customer, address)
	return ret.Error(0)
}

func (_m *MockRepository) SetActiveStatus(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
	ret := _m.Called(ctx, id, active, at)
	return ret.Error(0)
}

func (_m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockRepository) AddEmployment(ctx context.Context, employment *Employment) error {
	ret := _m.Called(ctx, employment)
	return ret.Error(0)
}

func (_m *MockRepository) FindEmployments(ctx context.Context, customerID uuid.UUID) ([]Employment, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []Employment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Employment)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindCreditHistory(ctx context.Context, customerID uuid.UUID) (*CreditHistory, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *CreditHistory
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *CreditHistory); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*CreditHistory)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) SaveCreditHistory(ctx context.Context, credit *CreditHistory) error {
	ret := _m.Called(ctx, credit)
	return ret.Error(0)
}

func (_m *MockRepository) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

var _ Repository = (*MockRepository)(nil)

type MockEventPublisher struct {
	mock.Mock
}

func (_m *MockEventPublisher) PublishCustomerCreated(ctx context.Context, evt event.CustomerCreatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockEventPublisher) PublishCustomerUpdated(ctx context.Context, evt event.CustomerUpdatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockEventPublisher) PublishCustomerDeleted(ctx context.Context, evt event.CustomerDeletedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockEventPublisher) PublishEmploymentAdded(ctx context.Context, evt event.EmploymentAddedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockEventPublisher) PublishCreditUpdated(ctx context.Context, evt event.CreditUpdatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

var _ event.EventPublisher = (*MockEventPublisher)(nil)
