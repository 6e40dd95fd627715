package transformers

import (
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

type PostcodeTransformer interface {
	Normalize(raw string) models.NormalizedPostcode
}

type PropertyTransformer interface {
	TransformMatches(matches []models.Match, postcode models.NormalizedPostcode, batch string) []models.UnifiedProperty
}
