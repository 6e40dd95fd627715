package transformers

import (
	"fmt"
	"strings"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

const (
	// DefaultAreaSqm is reported when no certificate was matched. It is a
	// placeholder, indistinguishable from a real 90 sqm property.
	DefaultAreaSqm          = 90
	EnergyRatingUnavailable = "N/A"
	UnknownAddress          = "Unknown Address"
)

type propertyTransformer struct {
	defaultCity string
}

func NewPropertyTransformer(defaultCity string) PropertyTransformer {
	return &propertyTransformer{defaultCity: defaultCity}
}

// TransformMatches shapes reconciled matches into response records, in order.
// batch is folded into every id so ids are unique within one response.
func (t *propertyTransformer) TransformMatches(matches []models.Match, postcode models.NormalizedPostcode, batch string) []models.UnifiedProperty {
	properties := make([]models.UnifiedProperty, 0, len(matches))
	for i, m := range matches {
		var p models.UnifiedProperty
		if m.Sale != nil {
			p = t.fromSale(*m.Sale, m.Certificate, postcode)
		} else if m.Certificate != nil {
			p = t.fromCertificate(*m.Certificate, postcode)
		} else {
			continue
		}
		p.ID = fmt.Sprintf("prop_%d_%s", i, batch)
		properties = append(properties, p)
	}
	return properties
}

func (t *propertyTransformer) fromSale(sale models.SaleRecord, cert *models.CertificateRecord, postcode models.NormalizedPostcode) models.UnifiedProperty {
	date := sale.Date
	p := models.UnifiedProperty{
		Address:       joinNonEmpty(" ", sale.SubBuildingIdentifier, sale.BuildingNumber, sale.Street),
		City:          t.defaultCity,
		Postcode:      firstNonEmpty(sale.SourcePostcode, postcode.Full),
		PropertyType:  sale.PropertyTypeLabel,
		LastSoldPrice: sale.Price,
		LastSoldDate:  &date,
		AreaSqm:       DefaultAreaSqm,
		EnergyRating:  EnergyRatingUnavailable,
	}
	if p.Address == "" {
		p.Address = UnknownAddress
	}
	if sale.Date == "" {
		p.LastSoldDate = nil
	}
	if cert != nil {
		t.enrich(&p, *cert)
	}
	return p
}

func (t *propertyTransformer) fromCertificate(cert models.CertificateRecord, postcode models.NormalizedPostcode) models.UnifiedProperty {
	p := models.UnifiedProperty{
		Address:      firstNonEmpty(joinNonEmpty(", ", cert.AddressLine1, cert.AddressLine2), strings.TrimSpace(cert.Address), UnknownAddress),
		City:         t.defaultCity,
		Postcode:     firstNonEmpty(cert.Postcode, postcode.Full),
		PropertyType: cert.PropertyType,
		AreaSqm:      DefaultAreaSqm,
		EnergyRating: EnergyRatingUnavailable,
	}
	t.enrich(&p, cert)
	return p
}

func (t *propertyTransformer) enrich(p *models.UnifiedProperty, cert models.CertificateRecord) {
	if cert.TotalFloorAreaSqm > 0 {
		p.AreaSqm = cert.TotalFloorAreaSqm
	}
	if cert.CurrentEnergyRating != "" {
		p.EnergyRating = cert.CurrentEnergyRating
	}
	if cert.TownName != "" {
		p.City = cert.TownName
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
