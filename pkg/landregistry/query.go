package landregistry

import (
	"fmt"
	"strings"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// QueryMode selects how the postcode constrains the address.
type QueryMode int

const (
	ExactMode QueryMode = iota
	SectorMode
)

func (m QueryMode) String() string {
	if m == SectorMode {
		return "sector"
	}
	return "exact"
}

const (
	ExactLimit  = 50
	SectorLimit = 20
)

// ErrEmptyLiteral is returned when nothing of the postcode survives encoding.
var ErrEmptyLiteral = fmt.Errorf("%w: postcode literal is empty after encoding", apperrors.ErrInvalidQuery)

// Query is a ready-to-send SPARQL query.
type Query struct {
	Mode    QueryMode
	Text    string
	Literal string
	// Postcode is reported as the source postcode of rows that do not
	// carry their own.
	Postcode string
	Limit    int
}

const prefixes = `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX lrppi: <http://landregistry.data.gov.uk/def/ppi/>
PREFIX lrcommon: <http://landregistry.data.gov.uk/def/common/>
`

const transactionPattern = `  ?transx lrppi:pricePaid ?price ;
          lrppi:transactionDate ?date ;
          lrppi:propertyType ?typeRef ;
          lrppi:propertyAddress ?addr .
  ?typeRef rdfs:label ?type .
`

const optionalAddress = `  OPTIONAL { ?addr lrcommon:paon ?paon }
  OPTIONAL { ?addr lrcommon:saon ?saon }
  OPTIONAL { ?addr lrcommon:street ?street }
`

// EncodeLiteral reduces a postcode to the characters that may appear inside
// a SPARQL string literal or regex: ASCII letters, upper-cased, and digits.
// Everything else is dropped, so quotes, backslashes and regex
// metacharacters can never reach the query.
func EncodeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}
	return b.String()
}

// BuildExactQuery matches addresses whose postcode equals the compact form.
func BuildExactQuery(pc models.NormalizedPostcode) (Query, error) {
	literal := EncodeLiteral(pc.Compact)
	if literal == "" {
		return Query{}, ErrEmptyLiteral
	}

	var b strings.Builder
	b.WriteString(prefixes)
	b.WriteString("\nSELECT ?date ?price ?paon ?saon ?street ?type WHERE {\n")
	b.WriteString(transactionPattern)
	fmt.Fprintf(&b, "  ?addr lrcommon:postcode \"%s\"^^xsd:string .\n", literal)
	b.WriteString(optionalAddress)
	fmt.Fprintf(&b, "} ORDER BY DESC(?date) LIMIT %d\n", ExactLimit)

	return Query{Mode: ExactMode, Text: b.String(), Literal: literal, Postcode: pc.Full, Limit: ExactLimit}, nil
}

// BuildSectorQuery matches addresses whose postcode starts with the compact
// sector, case-insensitively, and projects the matched postcode.
func BuildSectorQuery(pc models.NormalizedPostcode) (Query, error) {
	literal := EncodeLiteral(pc.SectorCompact())
	if literal == "" {
		return Query{}, ErrEmptyLiteral
	}

	var b strings.Builder
	b.WriteString(prefixes)
	b.WriteString("\nSELECT ?date ?price ?paon ?saon ?street ?type ?postcode WHERE {\n")
	b.WriteString(transactionPattern)
	b.WriteString("  ?addr lrcommon:postcode ?postcode .\n")
	fmt.Fprintf(&b, "  FILTER(REGEX(?postcode, \"^%s\", \"i\"))\n", literal)
	b.WriteString(optionalAddress)
	fmt.Fprintf(&b, "} ORDER BY DESC(?date) LIMIT %d\n", SectorLimit)

	return Query{Mode: SectorMode, Text: b.String(), Literal: literal, Postcode: pc.Full, Limit: SectorLimit}, nil
}
