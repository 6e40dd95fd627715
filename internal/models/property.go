package models

import "strings"

// NormalizedPostcode carries the three canonical forms of a user-supplied
// postcode. Compact is the only form sent upstream.
type NormalizedPostcode struct {
	Full    string `json:"full"`
	Sector  string `json:"sector"`
	Compact string `json:"compact"`
}

// SectorCompact returns the sector with spaces removed. It is always a
// prefix of Compact.
func (p NormalizedPostcode) SectorCompact() string {
	return strings.ReplaceAll(p.Sector, " ", "")
}

// SaleRecord is one price-paid transaction.
type SaleRecord struct {
	Date                  string `json:"date"`
	Price                 int    `json:"price"`
	BuildingNumber        string `json:"buildingNumber"`
	SubBuildingIdentifier string `json:"subBuildingIdentifier"`
	Street                string `json:"street"`
	PropertyTypeLabel     string `json:"propertyTypeLabel"`
	SourcePostcode        string `json:"sourcePostcode"`
}

// CertificateRecord is one energy performance certificate row.
type CertificateRecord struct {
	AddressLine1        string `json:"addressLine1"`
	AddressLine2        string `json:"addressLine2"`
	Address             string `json:"address"`
	Postcode            string `json:"postcode"`
	TotalFloorAreaSqm   int    `json:"totalFloorAreaSqm"`
	CurrentEnergyRating string `json:"currentEnergyRating,omitempty"`
	PropertyType        string `json:"propertyType"`
	TownName            string `json:"townName"`
}

// UnifiedProperty is the response shape of a postcode search.
type UnifiedProperty struct {
	ID            string  `json:"id"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	Postcode      string  `json:"postcode"`
	PropertyType  string  `json:"propertyType"`
	LastSoldPrice int     `json:"lastSoldPrice"`
	LastSoldDate  *string `json:"lastSoldDate"`
	AreaSqm       int     `json:"areaSqm"`
	EnergyRating  string  `json:"energyRating"`
}

type SearchRequest struct {
	Postcode string `form:"postcode" json:"postcode"`
}

type MatchOrigin string

const (
	OriginMatched         MatchOrigin = "matched"
	OriginUnmatched       MatchOrigin = "unmatched"
	OriginCertificateOnly MatchOrigin = "certificate_only"
)

// Match pairs a sale with at most one certificate, or holds a lone
// certificate when the search found no sales at all.
type Match struct {
	Sale        *SaleRecord
	Certificate *CertificateRecord
}

func (m Match) Origin() MatchOrigin {
	switch {
	case m.Sale == nil:
		return OriginCertificateOnly
	case m.Certificate != nil:
		return OriginMatched
	default:
		return OriginUnmatched
	}
}
