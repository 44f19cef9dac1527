package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money and ratios go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultSuccessMessage = "Success"

// APIResponse is the envelope around every customer API payload.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSuccessResponse(data any, message string) APIResponse {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func NewFailResponse(message string, errs ...string) APIResponse {
	resp := APIResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp
}

type DeletedResponse struct {
	ID string `json:"id"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	Status    string     `json:"status"`
	Service   string     `json:"service,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Version   string     `json:"version,omitempty"`
}
