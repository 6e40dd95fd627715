package epc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// flexArea accepts a floor area given either as a JSON number or a decimal
// string, truncating to whole square metres. Unparseable values become 0.
type flexArea int

func (f *flexArea) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = toArea(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cannot unmarshal %s into floor area", string(data))
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = toArea(parsed)
	return nil
}

// toArea truncates v, treating anything outside [0, MaxInt32] as unknown.
func toArea(v float64) flexArea {
	if math.IsNaN(v) || v < 0 || v > math.MaxInt32 {
		return 0
	}
	return flexArea(v)
}

type row struct {
	Address1            string   `json:"address1"`
	Address2            string   `json:"address2"`
	Address             string   `json:"address"`
	Postcode            string   `json:"postcode"`
	TotalFloorArea      flexArea `json:"total-floor-area"`
	CurrentEnergyRating string   `json:"current-energy-rating"`
	PropertyType        string   `json:"property-type"`
	PostTown            string   `json:"posttown"`
}

type searchResponse struct {
	ColumnNames []string `json:"column-names"`
	Rows        []row    `json:"rows"`
}

func decodeRows(body []byte) ([]models.CertificateRecord, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode epc rows: %v", err)
	}

	records := make([]models.CertificateRecord, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		records = append(records, models.CertificateRecord{
			AddressLine1:        r.Address1,
			AddressLine2:        r.Address2,
			Address:             r.Address,
			Postcode:            r.Postcode,
			TotalFloorAreaSqm:   int(r.TotalFloorArea),
			CurrentEnergyRating: strings.TrimSpace(r.CurrentEnergyRating),
			PropertyType:        r.PropertyType,
			TownName:            r.PostTown,
		})
	}
	return records, nil
}
