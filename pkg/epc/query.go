package epc

import (
	"net/url"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// SearchQuery is a keyed lookup on the domestic certificate register.
type SearchQuery struct {
	Postcode string
}

// NewSearchQuery keys the search on the compact postcode.
func NewSearchQuery(pc models.NormalizedPostcode) SearchQuery {
	return SearchQuery{Postcode: pc.Compact}
}

func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	v.Set("postcode", q.Postcode)
	return v
}
