package validators

import (
	"strings"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

type propertyValidator struct{}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{}
}

// ValidateSearch rejects a missing or blank postcode. Anything else is
// passed through; odd input simply finds nothing upstream.
func (v *propertyValidator) ValidateSearch(req *models.SearchRequest) error {
	if req == nil || strings.TrimSpace(req.Postcode) == "" {
		return apperrors.ErrMissingInput
	}
	return nil
}
