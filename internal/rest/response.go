package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"qrpass/internal/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	code := "INTERNAL_ERROR"
	message := err.Error()
	status := http.StatusInternalServerError

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message

		switch domainErr.Code {
		case domain.ErrCodeMalformedPayload,
			domain.ErrCodeExpired,
			domain.ErrCodeSignatureInvalid,
			domain.ErrCodeInvalidArgument:
			status = http.StatusBadRequest
		case domain.ErrCodeReplayDetected, domain.ErrCodeSubjectMismatch:
			status = http.StatusConflict
		case domain.ErrCodeUpstreamFailure:
			status = http.StatusBadGateway
		default:
			status = http.StatusInternalServerError
		}
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}
