package landregistry

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
)

// binding is one SPARQL result term.
type binding struct {
	Type     string `json:"type"`
	Datatype string `json:"datatype,omitempty"`
	Value    string `json:"value"`
}

// sparqlResponse follows the SPARQL 1.1 JSON results format.
type sparqlResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

// decodeBindings maps result rows to sale records in upstream order. Rows
// whose price is missing, negative or not a number are skipped and counted.
func decodeBindings(body []byte, fallbackPostcode string) ([]models.SaleRecord, int, error) {
	var resp sparqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("decode sparql results: %v", err)
	}
	if resp.Results == nil {
		return nil, 0, fmt.Errorf("sparql results missing")
	}

	records := make([]models.SaleRecord, 0, len(resp.Results.Bindings))
	skipped := 0
	for _, row := range resp.Results.Bindings {
		price, ok := parsePrice(row["price"].Value)
		if !ok {
			skipped++
			continue
		}
		records = append(records, models.SaleRecord{
			Date:                  row["date"].Value,
			Price:                 price,
			BuildingNumber:        row["paon"].Value,
			SubBuildingIdentifier: row["saon"].Value,
			Street:                row["street"].Value,
			PropertyTypeLabel:     row["type"].Value,
			SourcePostcode:        valueOr(row["postcode"].Value, fallbackPostcode),
		})
	}
	return records, skipped, nil
}

func parsePrice(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0
	}
	// Integers out of int range fail Atoi and are caught by the bound below.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
