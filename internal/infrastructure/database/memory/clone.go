package memory

import (
	"time"

	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
)

func cloneCustomer(c *customer.Customer) *customer.Customer {
	out := *c
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	return &out
}

func cloneAddress(a *customer.Address) *customer.Address {
	out := *a
	out.Unit = cloneString(a.Unit)
	out.UpdatedAt = cloneTime(a.UpdatedAt)
	return &out
}

func cloneEmployment(e *customer.Employment) *customer.Employment {
	out := *e
	out.JobTitle = cloneString(e.JobTitle)
	out.EndDate = cloneTime(e.EndDate)
	out.Phone = cloneString(e.Phone)
	out.Address = cloneString(e.Address)
	out.UpdatedAt = cloneTime(e.UpdatedAt)
	return &out
}

func cloneCredit(c *customer.CreditHistory) *customer.CreditHistory {
	out := *c
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	return &out
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
