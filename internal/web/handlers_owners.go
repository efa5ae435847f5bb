package web

import (
	"errors"
	"net/http"

	"carowners/internal/core"
	"carowners/internal/logging"
)

// handleListOwners returns all owners.
func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.owners.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owners)
}

// handleGetOwner returns one owner by id.
func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid owner id")
		return
	}

	owner, err := s.owners.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// handleCreateOwner creates an owner from a JSON body.
func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	var params core.NewOwner
	if err := decodeBody(r, &params); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	owner, err := s.owners.Create(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, owner)
}

// handleUpdateOwner applies a partial update. Only fields present in the
// body are written; an empty body returns the owner unchanged.
func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid owner id")
		return
	}

	var u core.OwnerUpdate
	if err := decodeBody(r, &u); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	owner, err := s.owners.Update(r.Context(), id, u)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// handleDeleteOwner deletes an owner. Both a missing owner and an owner
// with dependent cars come back as 400, matching the surface contract.
func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid owner id")
		return
	}

	if err := s.owners.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrOwnerNotFound) || errors.Is(err, core.ErrOwnerHasCars) {
			s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		} else {
			s.respondError(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportOwners streams all owners as a CSV attachment.
func (s *Server) handleExportOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.owners.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := core.OwnersCSV(owners)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSVAttachment(w, "car_owners.csv", data)
}

// handleUploadOwners bulk-imports owners from an uploaded CSV file.
func (s *Server) handleUploadOwners(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}

	summary, err := s.importer.ImportOwners(r.Context(), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("owners imported",
		"import_id", summary.ImportID,
		"imported", summary.Imported,
	)
	writeJSON(w, http.StatusOK, summary)
}
