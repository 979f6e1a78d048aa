package generation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/mocard/benefits-api/internal/model"
)

var prefixPattern = regexp.MustCompile(`^[A-Z]{2,5}$`)

// Validate checks a generation request against every rule and returns all
// violations at once; it never short-circuits and has no side effects.
func (s *Service) Validate(req *model.GenerationRequest) *model.ValidationResult {
	var errs []string

	if req.ClinicID == "" {
		errs = append(errs, "clinic ID is required")
	} else if _, err := uuid.Parse(req.ClinicID); err != nil {
		errs = append(errs, "clinic ID must be a valid UUID")
	}

	if req.Count < 1 {
		errs = append(errs, "count must be at least 1")
	}
	if req.Count > MaxBatchSize {
		errs = append(errs, fmt.Sprintf("count cannot exceed %d cards per batch", MaxBatchSize))
	}

	if req.Prefix != "" && !prefixPattern.MatchString(req.Prefix) {
		errs = append(errs, "invalid prefix format, must be 2-5 uppercase letters")
	}

	if !s.cfg.SyntheticData && len(req.TemplateData) == 0 {
		errs = append(errs, "template data is required when synthetic data is disabled")
	}

	return &model.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
