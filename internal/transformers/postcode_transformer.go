package transformers

import (
	"strings"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sectorDrop is how many trailing characters of the inward code are removed
// to form the sector. UK inward codes are three characters, so this keeps the
// leading digit; shorter tails are dropped entirely.
const sectorDrop = 2

type postcodeTransformer struct{}

func NewPostcodeTransformer() PostcodeTransformer {
	return &postcodeTransformer{}
}

func (t *postcodeTransformer) Normalize(raw string) models.NormalizedPostcode {
	// Casers carry state and must not be shared between goroutines.
	upper := cases.Upper(language.BritishEnglish).String(raw)
	full := strings.Join(strings.Fields(upper), " ")

	sector := full
	if i := strings.LastIndexByte(full, ' '); i >= 0 {
		tail := []rune(full[i+1:])
		dropped := string(tail[len(tail)-min(sectorDrop, len(tail)):])
		sector = strings.TrimRight(strings.TrimSuffix(full, dropped), " ")
	}

	return models.NormalizedPostcode{
		Full:    full,
		Sector:  sector,
		Compact: strings.ReplaceAll(full, " ", ""),
	}
}
