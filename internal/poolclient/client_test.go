package poolclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/poolquery"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCandidatesPassesRoleAndDecodes(t *testing.T) {
	var gotQuery string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"champion_list":["Illaoi","Garen"]}`))
	})
	c := New(srv.URL+"/champion-list", srv.URL+"/champion-pool")

	list, err := c.Candidates(context.Background(), champion.Role("top"))
	require.NoError(t, err)
	assert.Equal(t, "role=top", gotQuery)
	assert.Equal(t, []string{"Illaoi", "Garen"}, list)
}

func TestRecommendSendsEncodedParams(t *testing.T) {
	var gotQuery string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"champion_pools":["Darius + Nasus"]}`))
	})
	c := New(srv.URL+"/champion-list", srv.URL+"/champion-pool")

	params := poolquery.Build([]champion.Candidate{"Illaoi", "Garen"}, []champion.Candidate{"Kayle"})
	pools, err := c.Recommend(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "current_champions=Garen,Illaoi&exclude_champions=Kayle", gotQuery)
	assert.Equal(t, []string{"Darius + Nasus"}, pools)
}

func TestFetchErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"x"}`},
		{"malformed json", http.StatusOK, `{"champion_list":`},
		{"missing field", http.StatusOK, `{"something_else":[]}`},
		{"wrong type", http.StatusOK, `{"champion_list":"Garen"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			c := New(srv.URL, srv.URL)
			_, err := c.Candidates(context.Background(), "top")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetch))
			var ferr *FetchError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, ServiceCandidates, ferr.Service)
		})
	}
}

func TestUnreachableServiceIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, url)
	_, err := c.Recommend(context.Background(), poolquery.Params{})
	require.Error(t, err)
	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, ServiceRecommendation, ferr.Service)
	assert.Zero(t, ferr.Status)
}
