package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/extract"
)

// ExtractService wraps the AI collaborator. Failures are absorbed here and
// reported as status, never as fatal errors: the form stays editable by hand.
type ExtractService struct {
	extractor *extract.Extractor
	log       zerolog.Logger
}

// NewExtractService accepts a nil extractor when no API key is configured.
func NewExtractService(extractor *extract.Extractor, log zerolog.Logger) *ExtractService {
	return &ExtractService{extractor: extractor, log: log}
}

func (s *ExtractService) FromImage(ctx context.Context, image []byte, mimeType string) (extract.Result, error) {
	if s.extractor == nil {
		return extract.Result{}, fmt.Errorf("%w: extraction is not configured", ErrExtractFailed)
	}
	if len(image) == 0 {
		return extract.Result{}, fmt.Errorf("%w: image payload is empty", ErrInvalidInput)
	}

	result, err := s.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		s.log.Warn().Err(err).Msg("invoice extraction failed")
		if errors.Is(err, extract.ErrCredential) {
			return extract.Result{}, fmt.Errorf("%w: %s", ErrExtractAuth, err)
		}
		return extract.Result{}, fmt.Errorf("%w: %s", ErrExtractFailed, err)
	}
	return result, nil
}
