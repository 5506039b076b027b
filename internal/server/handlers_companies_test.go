package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/venture-profile/internal/db"
)

func authRequest(t *testing.T, ts *testServer, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	token, err := ts.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateCompany(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(authRequest(t, ts, http.MethodPost, "/companies", `{"name":"Shamba Fresh","sector":"Agritech","amountRaised":120000}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	profile := body["profile"].(map[string]any)
	id, err := uuid.Parse(profile["_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "/companies/"+id.String()+"/profile", w.Header().Get("Location"))
	assert.Equal(t, []any{}, body["funding_rounds"])

	stored := ts.store.profiles[id]
	require.NotNil(t, stored)
	assert.Equal(t, "Shamba Fresh", stored.Name)
	require.NotNil(t, stored.AmountRaised)
	assert.Equal(t, 120000.0, *stored.AmountRaised)

	// The stored profile is immediately downloadable.
	pdf := ts.do(httptest.NewRequest(http.MethodGet, "/companies/"+id.String()+"/profile.pdf", nil))
	assert.Equal(t, http.StatusOK, pdf.Code)
	assert.Contains(t, pdf.Header().Get("Content-Disposition"), "shamba_fresh_business_profile.pdf")
}

func TestPutProfile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme Farms")

	w := ts.do(authRequest(t, ts, http.MethodPut, "/companies/"+id.String()+"/profile", `{"name":"Acme Farms Ltd","stage":"Growth"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, id.String(), profile["_id"])
	assert.Equal(t, "Acme Farms Ltd", profile["name"])
	assert.Len(t, body["funding_rounds"], 1, "existing rounds are kept")

	assert.Equal(t, "Growth", ts.store.profiles[id].Stage)
	assert.Empty(t, ts.store.profiles[id].Sector, "the profile is replaced, not merged")
}

func TestPutProfile_CreatesWithGivenID(t *testing.T) {
	ts := newTestServer(t, nil)
	id := uuid.New()

	w := ts.do(authRequest(t, ts, http.MethodPut, "/companies/"+id.String()+"/profile", `{"name":"New Co"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"funding_rounds":[]`)
	require.Contains(t, ts.store.profiles, id)
}

func TestProfileWrites_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		writeErr error
		status   int
		errMsg   string
	}{
		{"create without name", http.MethodPost, "/companies", `{"sector":"Retail"}`, nil, http.StatusBadRequest, "name"},
		{"create with negative amount", http.MethodPost, "/companies", `{"name":"A","fundingNeeded":-1}`, nil, http.StatusBadRequest, "fundingNeeded"},
		{"create malformed", http.MethodPost, "/companies", `{"name":`, nil, http.StatusBadRequest, "(root)"},
		{"put invalid id", http.MethodPut, "/companies/nope/profile", `{"name":"A"}`, nil, http.StatusBadRequest, "Invalid company ID"},
		{"put store failure", http.MethodPut, "/companies/" + id.String() + "/profile", `{"name":"A"}`, errors.New("deadlock detected"), http.StatusInternalServerError, "Failed to save profile"},
		{"create store failure", http.MethodPost, "/companies", `{"name":"A"}`, errors.New("deadlock detected"), http.StatusInternalServerError, "Failed to save profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.store.writeErr = tt.writeErr
			t.Cleanup(func() { ts.store.writeErr = nil })

			w := ts.do(authRequest(t, ts, tt.method, tt.path, tt.body))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeJSON(t, w)["error"], tt.errMsg)
			assert.NotContains(t, w.Body.String(), "deadlock")
		})
	}
	assert.Equal(t, "Acme", ts.store.profiles[id].Name)
}

func TestProfileWrites_RequireToken(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme").String()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/companies", strings.NewReader(`{"name":"A"}`)),
		httptest.NewRequest(http.MethodPut, "/companies/"+id+"/profile", strings.NewReader(`{"name":"A"}`)),
		httptest.NewRequest(http.MethodDelete, "/companies/"+id, nil),
		httptest.NewRequest(http.MethodPost, "/companies/"+id+"/funding-rounds", strings.NewReader(`[]`)),
		httptest.NewRequest(http.MethodGet, "/companies/"+id+"/exports", nil),
	} {
		t.Run(req.Method+" "+req.URL.Path, func(t *testing.T) {
			w := ts.do(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
	assert.Len(t, ts.store.profiles, 1)
	assert.Equal(t, "Acme", ts.store.profiles[uuid.MustParse(id)].Name)
}

func TestDeleteCompany(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")

	w := ts.do(authRequest(t, ts, http.MethodDelete, "/companies/"+id.String(), ""))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NotContains(t, ts.store.profiles, id)
	assert.NotContains(t, ts.store.rounds, id)

	again := ts.do(authRequest(t, ts, http.MethodDelete, "/companies/"+id.String(), ""))
	assert.Equal(t, http.StatusNotFound, again.Code)
	assert.Contains(t, decodeJSON(t, again)["error"], "company not found")

	get := ts.do(httptest.NewRequest(http.MethodGet, "/companies/"+id.String()+"/profile", nil))
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestAddFundingRounds(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")

	body := `[{"roundType":"Series A","amount":2000000,"date":"2026-02-01","status":"Open"},{"roundType":"Grant"}]`
	w := ts.do(authRequest(t, ts, http.MethodPost, "/companies/"+id.String()+"/funding-rounds", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rounds := decodeJSON(t, w)["funding_rounds"].([]any)
	require.Len(t, rounds, 2)
	first := rounds[0].(map[string]any)
	assert.Equal(t, "Series A", first["roundType"])
	assert.Equal(t, id.String(), first["companyId"])
	_, err := uuid.Parse(first["_id"].(string))
	assert.NoError(t, err)

	assert.Len(t, ts.store.rounds[id], 3)
}

func TestAddFundingRounds_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")
	path := "/companies/" + id.String() + "/funding-rounds"

	tests := []struct {
		name     string
		path     string
		body     string
		writeErr error
		status   int
		errMsg   string
	}{
		{"object instead of array", path, `{"roundType":"Seed"}`, nil, http.StatusBadRequest, "(root)"},
		{"empty array", path, `[]`, nil, http.StatusBadRequest, "at least one funding round"},
		{"negative amount", path, `[{"amount":-10}]`, nil, http.StatusBadRequest, "amount"},
		{"unknown company", "/companies/" + uuid.New().String() + "/funding-rounds", `[{"roundType":"Seed"}]`, nil, http.StatusNotFound, "company profile not found"},
		{"store failure", path, `[{"roundType":"Seed"}]`, errors.New("numeric field overflow"), http.StatusInternalServerError, "Failed to add funding rounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.store.writeErr = tt.writeErr
			t.Cleanup(func() { ts.store.writeErr = nil })

			w := ts.do(authRequest(t, ts, http.MethodPost, tt.path, tt.body))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeJSON(t, w)["error"], tt.errMsg)
			assert.NotContains(t, w.Body.String(), "overflow")
		})
	}
	assert.Len(t, ts.store.rounds[id], 1)
}

func TestListExports(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")
	other := ts.addCompany("Other")

	for _, cid := range []uuid.UUID{id, other, id} {
		w := ts.do(httptest.NewRequest(http.MethodGet, "/companies/"+cid.String()+"/profile.pdf", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ts.do(authRequest(t, ts, http.MethodGet, "/companies/"+id.String()+"/exports", ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	exports := decodeJSON(t, w)["exports"].([]any)
	require.Len(t, exports, 2)
	first := exports[0].(map[string]any)
	assert.Equal(t, db.ChannelDownload, first["channel"])
	assert.Equal(t, "acme_business_profile.pdf", first["file_name"])

	limited := ts.do(authRequest(t, ts, http.MethodGet, "/companies/"+id.String()+"/exports?limit=1", ""))
	require.Equal(t, http.StatusOK, limited.Code)
	assert.Len(t, decodeJSON(t, limited)["exports"], 1)
}

func TestListExports_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.addCompany("Acme")

	empty := ts.do(authRequest(t, ts, http.MethodGet, "/companies/"+id.String()+"/exports", ""))
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Contains(t, empty.Body.String(), `"exports":[]`)

	for _, limit := range []string{"0", "201", "ten"} {
		w := ts.do(authRequest(t, ts, http.MethodGet, "/companies/"+id.String()+"/exports?limit="+limit, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
		assert.Contains(t, decodeJSON(t, w)["error"], "limit")
	}

	missing := ts.do(authRequest(t, ts, http.MethodGet, "/companies/"+uuid.New().String()+"/exports", ""))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
