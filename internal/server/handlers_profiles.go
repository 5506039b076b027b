package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/schemas"
	"github.com/jonathan/venture-profile/internal/server/middleware"
	"github.com/jonathan/venture-profile/internal/types"
)

// Request body limits.
const (
	maxEmailBodyBytes   = 64 << 10
	maxRenderBodyBytes  = 1 << 20
	maxProfileBodyBytes = 1 << 20
)

// ProfileResponse is the JSON view of a stored company profile.
type ProfileResponse struct {
	Profile       *types.CompanyProfile `json:"profile"`
	FundingRounds []types.FundingRound  `json:"funding_rounds"`
}

// EmailResponse acknowledges an accepted email delivery.
type EmailResponse struct {
	Status   string `json:"status"`
	To       string `json:"to"`
	FileName string `json:"file_name"`
	Bytes    int    `json:"bytes"`
}

// handleGetProfile returns a company profile and its funding rounds.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}

	profile, rounds, err := s.loadProfile(r, companyID)
	if err != nil {
		s.respondError(w, err, "Failed to load profile", "company_id", companyID)
		return
	}

	if rounds == nil {
		rounds = []types.FundingRound{}
	}
	s.jsonResponse(w, http.StatusOK, ProfileResponse{Profile: profile, FundingRounds: rounds})
}

// handleDownloadProfile renders a stored profile and returns it as a PDF attachment.
func (s *Server) handleDownloadProfile(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}

	profile, rounds, err := s.loadProfile(r, companyID)
	if err != nil {
		s.respondError(w, err, "Failed to load profile", "company_id", companyID)
		return
	}

	_, data, err := s.exporter.Render(profile, rounds)
	if err != nil {
		s.respondError(w, err, "Failed to render profile", "company_id", companyID)
		return
	}

	fileName := export.FileName(profile.Name)
	s.writePDF(w, fileName, data)
	s.recordExport(r, db.ExportInput{
		CompanyID: companyID,
		FileName:  fileName,
		Channel:   db.ChannelDownload,
		ByteSize:  len(data),
	})
}

// handleEmailProfile renders a stored profile and emails it to the
// recipient in the request body.
func (s *Server) handleEmailProfile(w http.ResponseWriter, r *http.Request) {
	companyID, ok := s.companyID(w, r)
	if !ok {
		return
	}

	var form types.EmailForm
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEmailBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := form.Validate(); err != nil {
		verr := emailValidationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	profile, rounds, err := s.loadProfile(r, companyID)
	if err != nil {
		s.respondError(w, err, "Failed to load profile", "company_id", companyID)
		return
	}

	msg, err := s.exporter.Email(r.Context(), profile, rounds, form)
	if err != nil {
		s.respondError(w, err, "Failed to send profile to "+form.To, "company_id", companyID, "to", form.To)
		return
	}

	userID, _ := middleware.GetUserID(r)
	s.logger.Info("profile emailed", "company_id", companyID, "to", msg.To, "requested_by", userID)

	s.recordExport(r, db.ExportInput{
		CompanyID: companyID,
		FileName:  msg.Attachment.FileName,
		Channel:   db.ChannelEmail,
		Recipient: msg.To,
		ByteSize:  len(msg.Attachment.Data),
	})
	s.jsonResponse(w, http.StatusAccepted, EmailResponse{
		Status:   "sent",
		To:       msg.To,
		FileName: msg.Attachment.FileName,
		Bytes:    len(msg.Attachment.Data),
	})
}

// handleRenderProfile renders a profile supplied in the request body without
// storing it. The body is either a bare profile or {"profile", "rounds"}.
func (s *Server) handleRenderProfile(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r, maxRenderBodyBytes)
	if !ok {
		return
	}

	req, err := schemas.DecodeRenderRequest(body)
	if err != nil {
		s.respondError(w, err, "Failed to decode profile")
		return
	}

	_, data, err := s.exporter.Render(req.Profile, req.Rounds)
	if err != nil {
		s.respondError(w, err, "Failed to render profile")
		return
	}

	fileName := export.FileName(req.Profile.Name)
	s.writePDF(w, fileName, data)
	s.recordExport(r, db.ExportInput{
		FileName: fileName,
		Channel:  db.ChannelDownload,
		ByteSize: len(data),
	})
}

// companyID parses the company_id path value, writing a 400 when it is not a UUID.
func (s *Server) companyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("company_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return uuid.Nil, false
	}
	return id, true
}

// readBody reads at most limit bytes of the request body, writing a 413 or
// 400 response and returning false when it cannot.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return body, true
}

// respondError writes err as the response. Client errors carry their own
// message; server errors are logged and answered with fallback so store and
// relay details are not exposed.
func (s *Server) respondError(w http.ResponseWriter, err error, fallback string, keyvals ...any) {
	status := HTTPStatus(err)
	if status < http.StatusInternalServerError {
		s.errorResponse(w, status, err.Error())
		return
	}
	s.logger.Error(fallback, append(keyvals, "status", status, "err", err)...)
	s.errorResponse(w, status, fallback)
}

// loadProfile reads a profile and its rounds, returning ErrNotFound when the
// company does not exist.
func (s *Server) loadProfile(r *http.Request, companyID uuid.UUID) (*types.CompanyProfile, []types.FundingRound, error) {
	profile, err := s.store.GetCompanyProfile(r.Context(), companyID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, &ErrNotFound{Resource: "company profile", ID: companyID.String()}
	}

	rounds, err := s.store.ListFundingRoundsByCompany(r.Context(), companyID)
	if err != nil {
		return nil, nil, err
	}
	return profile, rounds, nil
}

func (s *Server) writePDF(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write PDF response", "file", fileName, "err", err)
	}
}

// recordExport appends to the export log. The response has already been
// sent, so failures are only logged.
func (s *Server) recordExport(r *http.Request, input db.ExportInput) {
	if _, err := s.store.RecordExport(r.Context(), input); err != nil {
		s.logger.Warn("failed to record export", "file", input.FileName, "channel", input.Channel, "err", err)
	}
}

// emailValidationError converts validator output into an ErrValidation for
// the first failing field.
func emailValidationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on the '" + fe.Tag() + "' rule"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
