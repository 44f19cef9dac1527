package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	routingKeyCustomerCreated = "customer.created"
	routingKeyCustomerUpdated = "customer.updated"
	routingKeyCustomerDeleted = "customer.deleted"
	routingKeyEmploymentAdded = "customer.employment.added"
	routingKeyCreditUpdated   = "customer.credit.updated"
)

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error
	PublishEmploymentAdded(ctx context.Context, event EmploymentAddedEvent) error
	PublishCreditUpdated(ctx context.Context, event CreditUpdatedEvent) error
}

type CustomerEventPayload struct {
	CustomerID uuid.UUID  `json:"customerId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID uuid.UUID `json:"customerId"`
}

type EmploymentAddedEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	CustomerID     uuid.UUID `json:"customerId"`
	EmploymentID   uuid.UUID `json:"employmentId"`
	EmployerName   string    `json:"employerName"`
	EmploymentType string    `json:"employmentType"`
	IsCurrent      bool      `json:"isCurrent"`
}

type CreditUpdatedEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	CustomerID      uuid.UUID `json:"customerId"`
	CreditHistoryID uuid.UUID `json:"creditHistoryId"`
	CreditScore     int       `json:"creditScore"`
	CreditRating    string    `json:"creditRating"`
	Created         bool      `json:"created"`
}

func (p *RabbitMQEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	return p.publish(ctx, routingKeyCustomerCreated, event)
}

func (p *RabbitMQEventPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error {
	return p.publish(ctx, routingKeyCustomerUpdated, event)
}

func (p *RabbitMQEventPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	return p.publish(ctx, routingKeyCustomerDeleted, event)
}

func (p *RabbitMQEventPublisher) PublishEmploymentAdded(ctx context.Context, event EmploymentAddedEvent) error {
	return p.publish(ctx, routingKeyEmploymentAdded, event)
}

func (p *RabbitMQEventPublisher) PublishCreditUpdated(ctx context.Context, event CreditUpdatedEvent) error {
	return p.publish(ctx, routingKeyCreditUpdated, event)
}

var _ EventPublisher = (*RabbitMQEventPublisher)(nil)

// NopPublisher drops every event. It stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error { return nil }

func (NopPublisher) PublishCustomerUpdated(context.Context, CustomerUpdatedEvent) error { return nil }

func (NopPublisher) PublishCustomerDeleted(context.Context, CustomerDeletedEvent) error { return nil }

func (NopPublisher) PublishEmploymentAdded(context.Context, EmploymentAddedEvent) error { return nil }

func (NopPublisher) PublishCreditUpdated(context.Context, CreditUpdatedEvent) error { return nil }

var _ EventPublisher = NopPublisher{}
