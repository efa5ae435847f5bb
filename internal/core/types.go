// Package core provides the business logic for the car owner registry:
// entity types, repositories with validation and referential-integrity
// enforcement, and CSV import/export. It has no HTTP dependencies.
package core

import "time"

// Owner is a person who owns zero or more cars.
// ID and CreatedAt are assigned by the repository and never client-settable.
type Owner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Car is a vehicle record that must reference exactly one owner.
type Car struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Color     string    `json:"color"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOwner holds the client-settable fields for owner creation.
type NewOwner struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// NewCar holds the client-settable fields for car creation.
type NewCar struct {
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Year    int    `json:"year"`
	Color   string `json:"color"`
	OwnerID int64  `json:"owner_id"`
}

// OwnerUpdate carries a partial update. A nil field was absent from the
// request and is left untouched; a non-nil field is written even when it
// points at a zero value.
type OwnerUpdate struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Email *string `json:"email"`
}

// IsEmpty reports whether no field is present.
func (u OwnerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.Email == nil
}

// CarUpdate carries a partial update for a car. Same present/absent
// semantics as OwnerUpdate.
type CarUpdate struct {
	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	Year    *int    `json:"year"`
	Color   *string `json:"color"`
	OwnerID *int64  `json:"owner_id"`
}

// IsEmpty reports whether no field is present.
func (u CarUpdate) IsEmpty() bool {
	return u.Brand == nil && u.Model == nil && u.Year == nil && u.Color == nil && u.OwnerID == nil
}

// ImportSummary is the result of a bulk CSV import.
type ImportSummary struct {
	ImportID   string    `json:"import_id"`
	Message    string    `json:"message"`
	Imported   int       `json:"imported"`
	UploadedAt time.Time `json:"uploaded_at"`
}
