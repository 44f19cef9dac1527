package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler/dto"
)

func writeFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.NewFailResponse(message))
}
