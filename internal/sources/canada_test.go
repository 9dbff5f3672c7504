package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
)

func newCanadaFixture(t *testing.T, mux *http.ServeMux) *CanadaSource {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewFetchClient(FetchConfig{}, zap.NewNop())
	return NewCanadaSource(CanadaConfig{
		RepresentBaseURL:  server.URL,
		EnrichmentBaseURL: server.URL + "/members/",
	}, client, zap.NewNop())
}

func TestCanadaLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/K1A0A6/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"representatives_centroid": [
				{"name": "Yasir Naqvi", "elected_office": "MP", "level": "federal",
				 "district_name": "Ottawa Centre", "party_name": "Liberal",
				 "email": "yasir.naqvi@parl.gc.ca", "url": "https://www.ourcommons.ca/members/en/yasir-naqvi",
				 "tel": "613-946-8682"},
				{"name": "Joel Harden", "elected_office": "MPP", "level": "provincial",
				 "district_name": "Ottawa Centre", "party_name": "NDP"}
			]
		}`))
	})

	records, err := newCanadaFixture(t, mux).Lookup(context.Background(), "K1A0A6")
	require.NoError(t, err)
	require.Len(t, records, 1, "provincial representatives must be filtered out")

	rec := records[0]
	assert.Equal(t, "Yasir Naqvi", rec.Name)
	assert.Equal(t, models.RoleCanadianMP, rec.Role)
	assert.Equal(t, "Liberal", *rec.Party)
	assert.Equal(t, "Ottawa Centre", *rec.JurisdictionLabel)
	assert.Equal(t, "yasir.naqvi@parl.gc.ca", *rec.Email)
	assert.Equal(t, "613-946-8682", *rec.Phone)
}

func TestCanadaLookupEnrichment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/M5H2N2/", func(w http.ResponseWriter, r *http.Request) {
		// The riding API row lacks contact details.
		w.Write([]byte(`{
			"representatives_concordance": [
				{"name": "Kevin Vuong", "elected_office": "Member of Parliament",
				 "district_name": "Spadina—Fort York", "party_name": "Independent"}
			]
		}`))
	})
	mux.HandleFunc("/members/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Spadina—Fort York", r.URL.Query().Get("riding"))
		w.Write([]byte(`{"objects": [
			{"name": "Kevin Vuong", "riding": "Spadina—Fort York", "party": "Independent",
			 "email": "kevin.vuong@parl.gc.ca", "phone": "416-203-1899"}
		]}`))
	})

	records, err := newCanadaFixture(t, mux).Lookup(context.Background(), "M5H2N2")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kevin.vuong@parl.gc.ca", *records[0].Email)
	assert.Equal(t, "416-203-1899", *records[0].Phone)
}

func TestCanadaLookupEnrichmentFailureIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/V6B1A1/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"representatives_centroid": [
				{"name": "Hedy Fry", "elected_office": "MP", "district_name": "Vancouver Centre",
				 "party_name": "Liberal"}
			]
		}`))
	})
	mux.HandleFunc("/members/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	records, err := newCanadaFixture(t, mux).Lookup(context.Background(), "V6B1A1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hedy Fry", records[0].Name)
	assert.Nil(t, records[0].Email)
}

func TestCanadaLookupUnknownPostalCodeIsNoData(t *testing.T) {
	// The mux answers 404 for the unregistered postcode path.
	records, err := newCanadaFixture(t, http.NewServeMux()).Lookup(context.Background(), "K9Z9Z9")
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCanadaLookupNoFederalRepsIsNoData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/postcodes/T5J0N3/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"representatives_centroid": [
				{"name": "City Councillor", "elected_office": "Councillor", "level": "municipal"}
			]
		}`))
	})

	records, err := newCanadaFixture(t, mux).Lookup(context.Background(), "T5J0N3")
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrNoData)
}
