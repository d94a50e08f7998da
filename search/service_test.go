package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/search"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *search.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return search.NewService(session.New(tr, srv.URL, "59.0"))
}

func TestBuilder_Build(t *testing.T) {
	sosl := search.NewBuilder("Acme").
		In("NAME").
		ReturningWithFields("Account", "Id", "Name").
		Limit(10).
		Build()
	assert.Equal(t, "FIND {Acme} IN NAME FIELDS RETURNING Account(Id, Name) LIMIT 10", sosl)
}

func TestBuilder_Build_EscapesReservedCharacters(t *testing.T) {
	sosl := search.NewBuilder("100%(done)").Build()
	assert.Contains(t, sosl, `100%\(done\)`)
}

func TestService_Execute(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/search", r.URL.Path)
		w.Write([]byte(`{"searchRecords":[{"Id":"001xx","Name":"Acme"}]}`))
	})
	result, err := svc.Execute(context.Background(), "FIND {Acme}")
	require.NoError(t, err)
	require.Len(t, result.SearchRecords, 1)
	assert.Equal(t, "Acme", result.SearchRecords[0].Name)
}

func TestBuilder_Execute_BuildsAndRuns(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "FIND")
		w.Write([]byte(`{"searchRecords":[]}`))
	})
	result, err := search.NewBuilder("Acme").Execute(context.Background(), svc)
	require.NoError(t, err)
	assert.Empty(t, result.SearchRecords)
}

func TestService_Parameterized(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"searchRecords":[{"Id":"001xx"}]}`))
	})
	result, err := svc.Parameterized(context.Background(), search.ParameterizedSearchRequest{Query: "Acme"})
	require.NoError(t, err)
	assert.Len(t, result.SearchRecords, 1)
}
