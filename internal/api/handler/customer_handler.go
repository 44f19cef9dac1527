package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler/dto"
	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
	"github.com/paddyrails/mortgage-customer-service/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func customerNotFound(id fmt.Stringer) string {
	return fmt.Sprintf("Customer %s not found", id)
}

// ListCustomers handles GET /api/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list active customers", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(customers)))
	respondSuccess(w, http.StatusOK, customers, "")
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	h.logger.DebugContext(r.Context(), "Calling customer service GetByID")
	view, err := h.service.GetByID(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.Any("error", err))
		respondError(w, err, customerNotFound(customerID))
		return
	}

	respondSuccess(w, http.StatusOK, view, "")
}

// GetCustomerByEmail handles GET /api/customers/email/{email}
func (h *CustomerHandler) GetCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || strings.TrimSpace(email) == "" {
		h.logger.WarnContext(r.Context(), "Invalid email in URL path", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: invalid email in URL path", apperrors.ErrInvalidArgument), "")
		return
	}

	h.logger.DebugContext(r.Context(), "Calling customer service GetByEmail")
	view, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer by email", slog.Any("error", err))
		respondError(w, err, fmt.Sprintf("Customer with email %s not found", email))
		return
	}

	respondSuccess(w, http.StatusOK, view, "")
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err, "")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	view, err := h.service.Create(r.Context(), req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", view.ID.String()))
	w.Header().Set("Location", "/api/customers/"+view.ID.String())
	respondSuccess(w, http.StatusCreated, view, "Customer created successfully")
}

// UpdateCustomer handles PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err, "")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	view, err := h.service.Update(r.Context(), customerID, req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update customer", slog.Any("error", err))
		respondError(w, err, customerNotFound(customerID))
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.String("customerID", customerID.String()))
	respondSuccess(w, http.StatusOK, view, "Customer updated successfully")
}

// DeleteCustomer handles DELETE /api/customers/{id}. The customer is only deactivated.
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	found, err := h.service.Delete(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to delete customer", slog.Any("error", err))
		respondError(w, err, "")
		return
	}
	if !found {
		h.logger.WarnContext(r.Context(), "Customer to delete not found", slog.String("customerID", customerID.String()))
		respondFail(w, http.StatusNotFound, customerNotFound(customerID))
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.String("customerID", customerID.String()))
	respondSuccess(w, http.StatusOK, dto.DeletedResponse{ID: customerID.String()}, "Customer deleted successfully")
}

// GetCreditHistory handles GET /api/customers/{id}/credit
func (h *CustomerHandler) GetCreditHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	credit, err := h.service.GetCreditHistory(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get credit history", slog.Any("error", err))
		respondError(w, err, fmt.Sprintf("Credit history for customer %s not found", customerID))
		return
	}

	respondSuccess(w, http.StatusOK, credit, "")
}

// UpdateCreditHistory handles PUT /api/customers/{id}/credit
func (h *CustomerHandler) UpdateCreditHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	var req dto.UpdateCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err, "")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	credit, err := h.service.UpsertCreditHistory(r.Context(), customerID, req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update credit history", slog.Any("error", err))
		respondError(w, err, customerNotFound(customerID))
		return
	}

	h.logger.InfoContext(r.Context(), "Credit history updated", slog.String("customerID", customerID.String()))
	respondSuccess(w, http.StatusOK, credit, "Credit history updated")
}

// ListEmployments handles GET /api/customers/{id}/employments
func (h *CustomerHandler) ListEmployments(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	employments, err := h.service.ListEmployments(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list employments", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	respondSuccess(w, http.StatusOK, employments, "")
}

// AddEmployment handles POST /api/customers/{id}/employments
func (h *CustomerHandler) AddEmployment(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	var req dto.CreateEmploymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err, "")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err, "")
		return
	}

	employment, err := h.service.AddEmployment(r.Context(), customerID, req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to add employment", slog.Any("error", err))
		respondError(w, err, customerNotFound(customerID))
		return
	}

	h.logger.InfoContext(r.Context(), "Employment added", slog.String("customerID", customerID.String()), slog.String("employmentID", employment.ID.String()))
	w.Header().Set("Location", "/api/customers/"+customerID.String()+"/employments")
	respondSuccess(w, http.StatusCreated, employment, "Employment added")
}
