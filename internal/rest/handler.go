package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator"

	"qrpass/internal/domain"
	"qrpass/internal/qr"
)

type GenerateService interface {
	Generate(typ domain.PayloadType, subjectID string, opts qr.EncodeOptions) (*domain.Payload, []byte, error)
}

type ProcessService interface {
	Process(ctx context.Context, raw []byte, employeeID string) (*domain.Outcome, error)
}

type QRHandler struct {
	generator GenerateService
	processor ProcessService
	validate  *validator.Validate
}

func NewQRHandler(generator GenerateService, processor ProcessService) *QRHandler {
	return &QRHandler{
		generator: generator,
		processor: processor,
		validate:  validator.New(),
	}
}

func (h *QRHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /qr/generate", h.HandleGenerate)
	mux.HandleFunc("POST /qr/process", h.HandleProcess)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

type GenerateRequest struct {
	Type    string          `json:"type" validate:"required"`
	Data    string          `json:"data" validate:"required"`
	Options GenerateOptions `json:"options"`
}

type GenerateOptions struct {
	ExpiresInMs *int64 `json:"expires_in_ms"`
	AccessLevel string `json:"access_level"`
}

type GenerateResponse struct {
	QRCode      string     `json:"qr_code"`
	Payload     string     `json:"payload"`
	GeneratedAt time.Time  `json:"generated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (h *QRHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewInvalidArgumentError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, domain.NewInvalidArgumentError(err.Error()))
		return
	}

	opts := qr.EncodeOptions{AccessLevel: req.Options.AccessLevel}
	if req.Options.ExpiresInMs != nil {
		d := time.Duration(*req.Options.ExpiresInMs) * time.Millisecond
		opts.ExpiresIn = &d
	}

	payload, png, err := h.generator.Generate(domain.PayloadType(req.Type), req.Data, opts)
	if err != nil {
		respondWithError(w, err)
		return
	}

	envelope, err := payload.Encode()
	if err != nil {
		respondWithError(w, err)
		return
	}

	resp := GenerateResponse{
		QRCode:      base64.StdEncoding.EncodeToString(png),
		Payload:     envelope,
		GeneratedAt: payload.IssuedTime(),
	}
	if expires := payload.ExpiresTime(); !expires.IsZero() {
		resp.ExpiresAt = &expires
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

type ProcessRequest struct {
	QRData     string `json:"qr_data" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
}

type ProcessResponse struct {
	RecordID    string    `json:"record_id"`
	Kind        string    `json:"kind"`
	EmployeeID  string    `json:"employee_id"`
	SubjectID   string    `json:"subject_id"`
	AccessLevel string    `json:"access_level,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func (h *QRHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewInvalidArgumentError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, domain.NewInvalidArgumentError(err.Error()))
		return
	}

	outcome, err := h.processor.Process(r.Context(), []byte(req.QRData), req.EmployeeID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProcessResponse{
		RecordID:    outcome.RecordID.String(),
		Kind:        string(outcome.Kind),
		EmployeeID:  outcome.EmployeeID,
		SubjectID:   outcome.SubjectID,
		AccessLevel: outcome.AccessLevel,
		RecordedAt:  outcome.RecordedAt,
	})
}

func (h *QRHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
