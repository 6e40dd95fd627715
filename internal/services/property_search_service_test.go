package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/SearchIntel/getmyhousevalue-backend/internal/errors"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/models"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/transformers"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/validators"
)

type fakeSales struct {
	exact       []models.SaleRecord
	exactErr    error
	sector      []models.SaleRecord
	sectorErr   error
	exactCalls  atomic.Int32
	sectorCalls atomic.Int32
	lastSector  atomic.Value

	// certStarted, when set, holds the exact lookup until the certificate
	// lookup has begun.
	certStarted <-chan struct{}
	overlapped  atomic.Bool
}

func (f *fakeSales) FindByPostcode(ctx context.Context, pc models.NormalizedPostcode) ([]models.SaleRecord, error) {
	f.exactCalls.Add(1)
	if f.certStarted != nil {
		select {
		case <-f.certStarted:
			f.overlapped.Store(true)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.exact, f.exactErr
}

func (f *fakeSales) FindBySector(ctx context.Context, pc models.NormalizedPostcode) ([]models.SaleRecord, error) {
	f.sectorCalls.Add(1)
	f.lastSector.Store(pc.Sector)
	return f.sector, f.sectorErr
}

type fakeCertificates struct {
	disabled bool
	records  []models.CertificateRecord
	err      error
	calls    atomic.Int32
	started  chan struct{}
	once     sync.Once
}

func (f *fakeCertificates) Enabled() bool { return !f.disabled }

func (f *fakeCertificates) FindByPostcode(ctx context.Context, pc models.NormalizedPostcode) ([]models.CertificateRecord, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	return f.records, f.err
}

func newTestService(sales *fakeSales, certs *fakeCertificates) *PropertySearchService {
	s := NewPropertySearchService(
		sales,
		certs,
		transformers.NewPostcodeTransformer(),
		transformers.NewPropertyTransformer("London"),
		validators.NewPropertyValidator(),
		Timeouts{SalesExact: time.Second, SalesSector: time.Second, Certificates: time.Second},
	)
	s.newBatch = func() string { return "test" }
	return s
}

func search(t *testing.T, s *PropertySearchService, postcode string) []models.UnifiedProperty {
	t.Helper()
	props, err := s.SearchByPostcode(context.Background(), &models.SearchRequest{Postcode: postcode})
	if err != nil {
		t.Fatalf("SearchByPostcode(%q) error = %v", postcode, err)
	}
	if props == nil {
		t.Fatalf("SearchByPostcode(%q) returned nil, want a non-nil list", postcode)
	}
	return props
}

func TestSearchEnrichesMatchedSales(t *testing.T) {
	sales := &fakeSales{exact: []models.SaleRecord{
		{Date: "2021-03-01", Price: 850000, BuildingNumber: "10", Street: "DOWNING STREET", PropertyTypeLabel: "terraced", SourcePostcode: "SW1A 1AA"},
		{Date: "2019-07-15", Price: 620000, BuildingNumber: "12", Street: "DOWNING STREET", PropertyTypeLabel: "terraced", SourcePostcode: "SW1A 1AA"},
		{Date: "2015-01-20", Price: 410000, BuildingNumber: "14", Street: "DOWNING STREET", PropertyTypeLabel: "flat-maisonette", SourcePostcode: "SW1A 1AA"},
	}}
	certs := &fakeCertificates{records: []models.CertificateRecord{
		{AddressLine1: "10 Downing Street", TotalFloorAreaSqm: 120, CurrentEnergyRating: "C", TownName: "LONDON"},
		{AddressLine1: "Flat 5", AddressLine2: "8 Downing Street", TotalFloorAreaSqm: 55, CurrentEnergyRating: "D"},
	}}

	props := search(t, newTestService(sales, certs), "sw1a 1aa")
	if len(props) != 3 {
		t.Fatalf("len(props) = %d, want 3", len(props))
	}

	first := props[0]
	if first.AreaSqm != 120 || first.EnergyRating != "C" || first.City != "LONDON" {
		t.Fatalf("first = %+v, want certificate enrichment", first)
	}
	if first.Address != "10 DOWNING STREET" || first.LastSoldPrice != 850000 {
		t.Fatalf("first = %+v", first)
	}
	if first.LastSoldDate == nil || *first.LastSoldDate != "2021-03-01" {
		t.Fatalf("first.LastSoldDate = %v", first.LastSoldDate)
	}
	for _, p := range props[1:] {
		if p.AreaSqm != transformers.DefaultAreaSqm || p.EnergyRating != transformers.EnergyRatingUnavailable || p.City != "London" {
			t.Fatalf("unmatched = %+v, want defaults", p)
		}
	}
	if sales.sectorCalls.Load() != 0 {
		t.Fatalf("sector lookups = %d, want 0 when exact found sales", sales.sectorCalls.Load())
	}
}

func TestSearchWidensToSector(t *testing.T) {
	sales := &fakeSales{sector: []models.SaleRecord{
		{Date: "2020-02-02", Price: 300000, BuildingNumber: "3", Street: "HIGH ROAD", SourcePostcode: "E1 6BB"},
	}}
	certs := &fakeCertificates{}
	props := search(t, newTestService(sales, certs), "E1 6AN")

	if sales.exactCalls.Load() != 1 || sales.sectorCalls.Load() != 1 {
		t.Fatalf("exact/sector calls = %d/%d, want 1/1", sales.exactCalls.Load(), sales.sectorCalls.Load())
	}
	if certs.calls.Load() != 1 {
		t.Fatalf("certificate lookups = %d, want 1 across exact and sector", certs.calls.Load())
	}
	if got := sales.lastSector.Load(); got != "E1 6" {
		t.Fatalf("sector = %v, want %q", got, "E1 6")
	}
	if len(props) != 1 || props[0].Postcode != "E1 6BB" {
		t.Fatalf("props = %+v, want the sector sale with its own postcode", props)
	}
}

func TestSearchFetchesSourcesConcurrently(t *testing.T) {
	started := make(chan struct{})
	sales := &fakeSales{
		certStarted: started,
		exact:       []models.SaleRecord{{BuildingNumber: "5", Price: 100}},
	}
	certs := &fakeCertificates{
		started: started,
		records: []models.CertificateRecord{{AddressLine1: "5 Park Row", CurrentEnergyRating: "A"}},
	}

	props := search(t, newTestService(sales, certs), "LS1 5AB")
	if !sales.overlapped.Load() {
		t.Fatal("sales lookup finished without the certificate lookup having started")
	}
	if len(props) != 1 || props[0].EnergyRating != "A" {
		t.Fatalf("props = %+v", props)
	}
	if certs.calls.Load() != 1 || sales.sectorCalls.Load() != 0 {
		t.Fatalf("certificate/sector calls = %d/%d, want 1/0", certs.calls.Load(), sales.sectorCalls.Load())
	}
}

func TestSearchWidensAfterExactFailure(t *testing.T) {
	sales := &fakeSales{
		exactErr: apperrors.ErrUpstreamTimeout,
		sector:   []models.SaleRecord{{BuildingNumber: "1", Price: 1}},
	}
	props := search(t, newTestService(sales, &fakeCertificates{}), "E1 6AN")
	if len(props) != 1 || sales.sectorCalls.Load() != 1 {
		t.Fatalf("props = %+v, sector calls = %d", props, sales.sectorCalls.Load())
	}
}

func TestSearchTotalFailureIsEmpty(t *testing.T) {
	sales := &fakeSales{exactErr: errors.New("down"), sectorErr: errors.New("still down")}
	certs := &fakeCertificates{err: apperrors.ErrMalformedUpstreamPayload}

	props := search(t, newTestService(sales, certs), "SW1A 1AA")
	if len(props) != 0 {
		t.Fatalf("props = %+v, want empty", props)
	}
}

func TestSearchCertificateOnly(t *testing.T) {
	certs := &fakeCertificates{records: []models.CertificateRecord{
		{AddressLine1: "1 Mill Lane", AddressLine2: "Flat B", Postcode: "AB1 2CD", TotalFloorAreaSqm: 70, CurrentEnergyRating: "B", PropertyType: "Flat"},
		{Address: "2 Mill Lane"},
	}}

	props := search(t, newTestService(&fakeSales{}, certs), "AB1 2CD")
	if len(props) != 2 {
		t.Fatalf("len(props) = %d, want 2", len(props))
	}
	for _, p := range props {
		if p.LastSoldPrice != 0 || p.LastSoldDate != nil {
			t.Fatalf("certificate-only %+v carries sale data", p)
		}
	}
	if props[0].Address != "1 Mill Lane, Flat B" || props[0].AreaSqm != 70 || props[0].EnergyRating != "B" {
		t.Fatalf("props[0] = %+v", props[0])
	}
	if props[1].Address != "2 Mill Lane" || props[1].Postcode != "AB1 2CD" {
		t.Fatalf("props[1] = %+v", props[1])
	}
}

func TestSearchNothingFound(t *testing.T) {
	props := search(t, newTestService(&fakeSales{}, &fakeCertificates{}), "ZZ9 9ZZ")
	if len(props) != 0 {
		t.Fatalf("props = %+v, want empty", props)
	}
}

func TestSearchSkipsDisabledCertificates(t *testing.T) {
	sales := &fakeSales{exact: []models.SaleRecord{{BuildingNumber: "4", Price: 10}}}
	certs := &fakeCertificates{disabled: true, records: []models.CertificateRecord{{AddressLine1: "4 Road"}}}

	props := search(t, newTestService(sales, certs), "SW1A 1AA")
	if certs.calls.Load() != 0 {
		t.Fatalf("certificate lookups = %d, want 0", certs.calls.Load())
	}
	if len(props) != 1 || props[0].EnergyRating != transformers.EnergyRatingUnavailable {
		t.Fatalf("props = %+v", props)
	}
}

func TestSearchIsStableApartFromIDs(t *testing.T) {
	sales := &fakeSales{exact: []models.SaleRecord{{BuildingNumber: "1", Price: 5, Date: "2001-01-01"}, {BuildingNumber: "2", Price: 6}}}
	certs := &fakeCertificates{records: []models.CertificateRecord{{AddressLine1: "2 Lane", TotalFloorAreaSqm: 40}}}
	s := newTestService(sales, certs)

	batches := []string{"aaaa", "bbbb"}
	var runs [][]models.UnifiedProperty
	for _, b := range batches {
		b := b
		s.newBatch = func() string { return b }
		runs = append(runs, search(t, s, "SW1A 1AA"))
	}

	if len(runs[0]) != len(runs[1]) {
		t.Fatalf("lengths differ: %d vs %d", len(runs[0]), len(runs[1]))
	}
	for i := range runs[0] {
		a, b := runs[0][i], runs[1][i]
		if a.ID == b.ID {
			t.Fatalf("ids should differ across responses: %q", a.ID)
		}
		a.ID, b.ID = "", ""
		if a.Address != b.Address || a.AreaSqm != b.AreaSqm || a.LastSoldPrice != b.LastSoldPrice || a.EnergyRating != b.EnergyRating {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, a, b)
		}
	}
}

func TestSearchUniqueIDs(t *testing.T) {
	sales := &fakeSales{exact: []models.SaleRecord{{BuildingNumber: "1"}, {BuildingNumber: "1"}, {BuildingNumber: "1"}}}
	props := search(t, newTestService(sales, &fakeCertificates{}), "SW1A 1AA")

	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestSearchMissingPostcode(t *testing.T) {
	sales := &fakeSales{}
	certs := &fakeCertificates{}
	s := newTestService(sales, certs)

	for _, req := range []*models.SearchRequest{nil, {Postcode: ""}, {Postcode: "  "}} {
		props, err := s.SearchByPostcode(context.Background(), req)
		if !apperrors.IsMissingInput(err) {
			t.Fatalf("SearchByPostcode(%+v) error = %v, want missing input", req, err)
		}
		if props != nil {
			t.Fatalf("props = %+v, want nil", props)
		}
	}
	if sales.exactCalls.Load() != 0 || certs.calls.Load() != 0 {
		t.Fatal("upstreams called for a missing postcode")
	}
}
