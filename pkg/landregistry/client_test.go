package landregistry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
)

const sectorResults = `{
  "head": {"vars": ["date","price","paon","saon","street","type","postcode"]},
  "results": {"bindings": [
    {"date": {"type":"literal","datatype":"http://www.w3.org/2001/XMLSchema#date","value":"2024-02-01"},
     "price": {"type":"literal","value":"650000"},
     "paon": {"type":"literal","value":"12"},
     "street": {"type":"literal","value":"ACACIA AVENUE"},
     "type": {"type":"literal","value":"terraced"},
     "postcode": {"type":"literal","value":"SW1A 1AB"}},
    {"date": {"type":"literal","value":"2023-11-20"},
     "price": {"type":"literal","value":"not-a-price"},
     "type": {"type":"literal","value":"flat-maisonette"}},
    {"date": {"type":"literal","value":"2023-10-02"},
     "price": {"type":"literal","value":"410000.0"},
     "saon": {"type":"literal","value":"FLAT 3"},
     "paon": {"type":"literal","value":"7"},
     "type": {"type":"literal","value":"flat-maisonette"}}
  ]}
}`

func TestClientRunDecodesBindings(t *testing.T) {
	q, err := BuildSectorQuery(swPostcode)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %q, want GET", r.Method)
		}
		if got := r.URL.Query().Get("output"); got != "json" {
			t.Fatalf("output = %q, want json", got)
		}
		if got := r.URL.Query().Get("query"); got != q.Text {
			t.Fatalf("query param does not round-trip:\n%s", got)
		}
		if !strings.Contains(r.Header.Get("Accept"), "sparql-results+json") {
			t.Fatalf("accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(sectorResults))
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).Run(context.Background(), q)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2 (invalid price skipped)", len(records))
	}
	first := records[0]
	if first.Date != "2024-02-01" || first.Price != 650000 || first.BuildingNumber != "12" ||
		first.Street != "ACACIA AVENUE" || first.PropertyTypeLabel != "terraced" || first.SourcePostcode != "SW1A 1AB" {
		t.Fatalf("first = %+v", first)
	}
	second := records[1]
	if second.Price != 410000 || second.SubBuildingIdentifier != "FLAT 3" || second.Street != "" {
		t.Fatalf("second = %+v", second)
	}
	if second.SourcePostcode != "SW1A 1AA" {
		t.Fatalf("fallback source postcode = %q, want %q", second.SourcePostcode, "SW1A 1AA")
	}
}

func TestClientRunEmptyBindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
	defer srv.Close()

	q, _ := BuildExactQuery(swPostcode)
	records, err := NewClient(srv.URL).Run(context.Background(), q)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("len = %d, want 0", len(records))
	}
}

func TestClientRunClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "busy", http.StatusServiceUnavailable)
			},
			want: apperrors.ErrUpstreamUnavailable,
		},
		{
			name: "html payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
			want: apperrors.ErrMalformedUpstreamPayload,
		},
		{
			name: "missing results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"head":{"vars":[]}}`))
			},
			want: apperrors.ErrMalformedUpstreamPayload,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			q, _ := BuildExactQuery(swPostcode)
			_, err := NewClient(srv.URL).Run(context.Background(), q)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClientRunHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	q, _ := BuildExactQuery(swPostcode)
	_, err := NewClient(srv.URL).Run(ctx, q)
	if !errors.Is(err, apperrors.ErrUpstreamTimeout) {
		t.Fatalf("err = %v, want ErrUpstreamTimeout", err)
	}
}

func TestDecodeBindingsSkipsUnusablePrices(t *testing.T) {
	tests := []struct {
		price string
		want  int
		keep  bool
	}{
		{price: "250000", want: 250000, keep: true},
		{price: "250000.75", want: 250000, keep: true},
		{price: "0", want: 0, keep: true},
		{price: "", keep: false},
		{price: "-1", keep: false},
		{price: "abc", keep: false},
		{price: "NaN", keep: false},
		{price: "1e19", keep: false},
		{price: "99999999999999999999", keep: false},
		{price: "9223372036854775808", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			body := `{"results":{"bindings":[{"price":{"type":"literal","value":"` + tt.price + `"}}]}}`
			records, skipped, err := decodeBindings([]byte(body), "SW1A 1AA")
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !tt.keep {
				if len(records) != 0 || skipped != 1 {
					t.Fatalf("records = %+v, skipped = %d, want the row skipped", records, skipped)
				}
				return
			}
			if len(records) != 1 || skipped != 0 {
				t.Fatalf("records = %+v, skipped = %d, want one record", records, skipped)
			}
			if records[0].Price != tt.want {
				t.Fatalf("price = %d, want %d", records[0].Price, tt.want)
			}
		})
	}
}
