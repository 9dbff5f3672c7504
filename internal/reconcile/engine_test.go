package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
	"github.com/rep-lookup/internal/reference"
	"github.com/rep-lookup/internal/sources"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(reference.NewIndex(zap.NewNop()), zap.NewNop())
}

func TestReconcileDirectoryLed(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("94102", Inputs{
		DirectoryCandidates: []sources.Candidate{
			{Name: "Nancy Pelosi", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "11")},
		},
		APIMembers: []sources.APIMember{
			{Name: "Nancy Pelosi", Email: "sf.nancy@mail.house.gov",
				Subdivision: models.NewSubdivision("CA", "11"), HasSubdivision: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1, "the same person from two sources must collapse to one record")

	rec := records[0]
	assert.Equal(t, "Nancy Pelosi", rec.Name)
	assert.Equal(t, models.RoleUSRepresentative, rec.Role)
	assert.Equal(t, "Democratic", *rec.Party, "party comes from the live page, not the snapshot")
	assert.Equal(t, "CA-11", *rec.JurisdictionLabel)
	assert.Equal(t, "sf.nancy@mail.house.gov", *rec.Email)
	assert.Equal(t, "202-225-4965", *rec.Phone)
	assert.Equal(t, "https://pelosi.house.gov", *rec.Website)
	assert.Equal(t, "1236 Longworth House Office Building, Washington, DC 20515", *rec.Address)
}

func TestReconcileDirectoryNameWinsOverSnapshot(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("91101", Inputs{
		DirectoryCandidates: []sources.Candidate{
			{Name: "Adam Schiff", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "30")},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The snapshot spells him "Adam B. Schiff"; the page spelling leads.
	assert.Equal(t, "Adam Schiff", records[0].Name)
	assert.Equal(t, "202-225-4176", *records[0].Phone)
}

func TestReconcileAPIOnlySeat(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("91403", Inputs{
		APIMembers: []sources.APIMember{
			{Name: "Brad Sherman", Party: "D",
				Subdivision: models.NewSubdivision("CA", "32"), HasSubdivision: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Brad Sherman", rec.Name)
	assert.Equal(t, "CA-32", *rec.JurisdictionLabel)
	assert.Equal(t, "202-225-5911", *rec.Phone, "snapshot fills contact gaps for API-only seats")
	assert.Equal(t, "https://sherman.house.gov", *rec.Website)
}

func TestReconcileStaleAPINameReplacedBySnapshot(t *testing.T) {
	engine := newTestEngine(t)

	// The API still lists the seat's previous holder; the snapshot row
	// supplies the displayed identity, the API only its email.
	records, err := engine.Reconcile("94102", Inputs{
		APIMembers: []sources.APIMember{
			{Name: "Jackie Speier", Email: "district@mail.house.gov",
				Subdivision: models.NewSubdivision("CA", "11"), HasSubdivision: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Nancy Pelosi", records[0].Name)
	assert.Equal(t, "district@mail.house.gov", *records[0].Email)
}

func TestReconcileUnknownSeatPassesThrough(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("99501", Inputs{
		APIMembers: []sources.APIMember{
			{Name: "Jane Newcomer", Party: "Independent", Phone: "555-0100",
				Subdivision: models.NewSubdivision("CA", "99"), HasSubdivision: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Jane Newcomer", rec.Name)
	assert.Equal(t, "555-0100", *rec.Phone)
	assert.Nil(t, rec.Website)
}

func TestReconcileMultipleDistricts(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("91403", Inputs{
		DirectoryCandidates: []sources.Candidate{
			{Name: "Brad Sherman", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "32")},
			{Name: "Ted Lieu", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "36")},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Brad Sherman", records[0].Name)
	assert.Equal(t, "Ted Lieu", records[1].Name)
}

func TestReconcileKeepsSimilarNamesInDifferentDistricts(t *testing.T) {
	engine := newTestEngine(t)

	// Containment-similar names are only duplicates within the same
	// seat; across districts they are different people.
	records, err := engine.Reconcile("95602", Inputs{
		DirectoryCandidates: []sources.Candidate{
			{Name: "John Smith", Party: "Republican", Subdivision: models.NewSubdivision("CA", "1")},
			{Name: "John Smithson", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "John Smith", records[0].Name)
	assert.Equal(t, "John Smithson", records[1].Name)
}

func TestReconcileDedupsByNameWithoutSubdivision(t *testing.T) {
	engine := newTestEngine(t)

	// An API entry that carried no state still must not duplicate the
	// candidate the page already produced.
	records, err := engine.Reconcile("94102", Inputs{
		DirectoryCandidates: []sources.Candidate{
			{Name: "Nancy Pelosi", Party: "Democratic", Subdivision: models.NewSubdivision("CA", "11")},
		},
		APIMembers: []sources.APIMember{
			{Name: "Rep. Nancy Pelosi", Email: "sf.nancy@mail.house.gov"},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sf.nancy@mail.house.gov", *records[0].Email,
		"the unkeyed API entry still contributes its email")
}

func TestReconcileEmptyInputs(t *testing.T) {
	engine := newTestEngine(t)

	records, err := engine.Reconcile("99999", Inputs{
		SourceErrors: []string{"directory source: request failed", "structured api: no usable data"},
	})
	assert.Nil(t, records)

	var notFound *models.NoRepresentativeFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "99999", notFound.PostalCode)
	assert.Len(t, notFound.SourceErrors, 2)
	assert.Contains(t, err.Error(), "directory source")
}
