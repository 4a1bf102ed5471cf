package qr

import (
	"context"

	"qrpass/internal/domain"
)

// Service is the façade the HTTP layer talks to. It pairs every dispatch
// with a preceding validation so an unvalidated payload can never reach
// the dispatcher.
type Service struct {
	encoder    *Encoder
	validator  *Validator
	dispatcher *Dispatcher
}

func NewService(encoder *Encoder, validator *Validator, dispatcher *Dispatcher) *Service {
	return &Service{
		encoder:    encoder,
		validator:  validator,
		dispatcher: dispatcher,
	}
}

// Generate builds a payload and its rendered QR image.
func (s *Service) Generate(typ domain.PayloadType, subjectID string, opts EncodeOptions) (*domain.Payload, []byte, error) {
	return s.encoder.EncodeImage(typ, subjectID, opts)
}

// Process validates raw scanned data and dispatches its effect on behalf
// of the acting employee.
func (s *Service) Process(ctx context.Context, raw []byte, employeeID string) (*domain.Outcome, error) {
	p, err := s.validator.Validate(ctx, raw)
	if err != nil {
		return nil, err
	}
	return s.dispatcher.Dispatch(ctx, p, employeeID)
}
