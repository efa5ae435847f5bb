package web

import (
	"errors"
	"net/http"
	"strconv"

	"carowners/internal/core"
	"carowners/internal/logging"
)

// ownerFilter parses the optional owner_id query parameter.
func (s *Server) ownerFilter(w http.ResponseWriter, r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("owner_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.badRequest(w, r, "invalid owner_id filter")
		return nil, false
	}
	return &id, true
}

// handleListCars returns all cars, optionally filtered by owner.
func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerFilter(w, r)
	if !ok {
		return
	}

	cars, err := s.cars.List(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// handleGetCar returns one car by id.
func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid car id")
		return
	}

	car, err := s.cars.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// handleCreateCar creates a car. An unresolvable owner_id is a 400, not a
// 404: the missing entity is a reference inside the request body.
func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var params core.NewCar
	if err := decodeBody(r, &params); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	car, err := s.cars.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, core.ErrOwnerNotFound) {
			s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		} else {
			s.respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

// handleUpdateCar applies a partial update. A missing car is 404; an
// unresolvable new owner_id is 400 and aborts the update atomically.
func (s *Server) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid car id")
		return
	}

	var u core.CarUpdate
	if err := decodeBody(r, &u); err != nil {
		s.badRequest(w, r, "invalid JSON body")
		return
	}

	car, err := s.cars.Update(r.Context(), id, u)
	if err != nil {
		if errors.Is(err, core.ErrOwnerNotFound) {
			s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		} else {
			s.respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// handleDeleteCar deletes a car. Idempotent: an absent id is still a 204.
func (s *Server) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.badRequest(w, r, "invalid car id")
		return
	}

	if err := s.cars.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCars streams cars as a CSV attachment, honoring the optional
// owner_id filter.
func (s *Server) handleExportCars(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerFilter(w, r)
	if !ok {
		return
	}

	cars, err := s.cars.List(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := core.CarsCSV(cars)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSVAttachment(w, "cars.csv", data)
}

// handleUploadCars bulk-imports cars from an uploaded CSV file.
func (s *Server) handleUploadCars(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readCSVUpload(w, r)
	if !ok {
		return
	}

	summary, err := s.importer.ImportCars(r.Context(), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("cars imported",
		"import_id", summary.ImportID,
		"imported", summary.Imported,
	)
	writeJSON(w, http.StatusOK, summary)
}
