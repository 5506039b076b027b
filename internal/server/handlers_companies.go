package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/schemas"
	"github.com/jonathan/venture-profile/internal/server/middleware"
	"github.com/jonathan/venture-profile/internal/types"
)

// Export log paging.
const (
	defaultExportsLimit = 50
	maxExportsLimit     = 200
)

// FundingRoundsResponse lists funding rounds added to a company.
type FundingRoundsResponse struct {
	FundingRounds []types.FundingRound `json:"funding_rounds"`
}

// ExportsResponse lists the export log of a company, most recent first.
type ExportsResponse struct {
	Exports []db.ExportRecord `json:"exports"`
}

// handleCreateCompany stores a new company profile under a generated ID.
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.decodeProfileBody(w, r)
	if !ok {
		return
	}

	companyID, err := s.store.UpsertCompanyProfile(r.Context(), uuid.Nil, profile)
	if err != nil {
		s.respondError(w, err, "Failed to save profile")
		return
	}
	profile.ID = companyID.String()

	userID, _ := middleware.GetUserID(r)
	s.logger.Info("company created", "company_id", companyID, "name", profile.Name, "requested_by", userID)

	w.Header().Set("Location", "/companies/"+companyID.String()+"/profile")
	s.jsonResponse(w, http.StatusCreated, ProfileResponse{Profile: profile, FundingRounds: []types.FundingRound{}})
}

// handlePutProfile replaces the profile of a company, creating the company
// with the given ID when it does not exist yet.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}
	profile, ok := s.decodeProfileBody(w, r)
	if !ok {
		return
	}

	if _, err := s.store.UpsertCompanyProfile(r.Context(), companyID, profile); err != nil {
		s.respondError(w, err, "Failed to save profile", "company_id", companyID)
		return
	}
	profile.ID = companyID.String()

	rounds, err := s.store.ListFundingRoundsByCompany(r.Context(), companyID)
	if err != nil {
		s.respondError(w, err, "Failed to load funding rounds", "company_id", companyID)
		return
	}
	if rounds == nil {
		rounds = []types.FundingRound{}
	}

	userID, _ := middleware.GetUserID(r)
	s.logger.Info("profile saved", "company_id", companyID, "requested_by", userID)
	s.jsonResponse(w, http.StatusOK, ProfileResponse{Profile: profile, FundingRounds: rounds})
}

// handleDeleteCompany removes a company and its funding rounds.
func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteCompany(r.Context(), companyID)
	if err != nil {
		s.respondError(w, err, "Failed to delete company", "company_id", companyID)
		return
	}
	if !deleted {
		s.respondError(w, &ErrNotFound{Resource: "company", ID: companyID.String()}, "")
		return
	}

	userID, _ := middleware.GetUserID(r)
	s.logger.Info("company deleted", "company_id", companyID, "requested_by", userID)
	w.WriteHeader(http.StatusNoContent)
}

// handleAddFundingRounds appends a JSON array of funding rounds to a company.
func (s *Server) handleAddFundingRounds(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}
	body, ok := s.readBody(w, r, maxProfileBodyBytes)
	if !ok {
		return
	}

	rounds, err := schemas.DecodeRounds(body)
	if err != nil {
		s.respondError(w, err, "Failed to decode funding rounds")
		return
	}
	if len(rounds) == 0 {
		s.respondError(w, &ErrValidation{Field: "(root)", Message: "at least one funding round is required"}, "")
		return
	}
	if !s.companyExists(w, r, companyID) {
		return
	}

	ids, err := s.store.AddFundingRounds(r.Context(), companyID, rounds)
	if err != nil {
		s.respondError(w, err, "Failed to add funding rounds", "company_id", companyID)
		return
	}
	for i := range rounds {
		rounds[i].ID = ids[i].String()
		rounds[i].CompanyID = companyID.String()
	}

	s.logger.Info("funding rounds added", "company_id", companyID, "count", len(rounds))
	s.jsonResponse(w, http.StatusCreated, FundingRoundsResponse{FundingRounds: rounds})
}

// handleListExports returns the export log of a company. The optional limit
// query parameter accepts 1 to 200 and defaults to 50.
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}

	limit := defaultExportsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxExportsLimit {
			s.respondError(w, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 200"}, "")
			return
		}
		limit = n
	}
	if !s.companyExists(w, r, companyID) {
		return
	}

	records, err := s.store.ListExportsByCompany(r.Context(), companyID, limit)
	if err != nil {
		s.respondError(w, err, "Failed to list exports", "company_id", companyID)
		return
	}
	if records == nil {
		records = []db.ExportRecord{}
	}
	s.jsonResponse(w, http.StatusOK, ExportsResponse{Exports: records})
}

// decodeProfileBody reads and schema-validates a company profile body.
func (s *Server) decodeProfileBody(w http.ResponseWriter, r *http.Request) (*types.CompanyProfile, bool) {
	body, ok := s.readBody(w, r, maxProfileBodyBytes)
	if !ok {
		return nil, false
	}
	profile, err := schemas.DecodeProfile(body)
	if err != nil {
		s.respondError(w, err, "Failed to decode profile")
		return nil, false
	}
	return profile, true
}

// companyExists writes a 404 or 500 and returns false unless the company is stored.
func (s *Server) companyExists(w http.ResponseWriter, r *http.Request, companyID uuid.UUID) bool {
	profile, err := s.store.GetCompanyProfile(r.Context(), companyID)
	if err != nil {
		s.respondError(w, err, "Failed to load profile", "company_id", companyID)
		return false
	}
	if profile == nil {
		s.respondError(w, &ErrNotFound{Resource: "company profile", ID: companyID.String()}, "")
		return false
	}
	return true
}
