package core

// csv.go holds the CSV transcoding layer: fixed-header export of entity
// collections and parsing of uploaded CSV bytes into validated
// creation parameters. The importers in csv_import.go drive the parsed
// rows into storage.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Fixed export headers. Import matches columns by header name, not position.
var (
	ownerCSVHeader = []string{"id", "name", "age", "email", "created_at"}
	carCSVHeader   = []string{"id", "brand", "model", "year", "color", "owner_id", "created_at"}
)

// OwnersCSV serializes owners to CSV text with the fixed header row,
// one data row per owner in the given order.
func OwnersCSV(owners []Owner) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ownerCSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, o := range owners {
		record := []string{
			strconv.FormatInt(o.ID, 10),
			o.Name,
			strconv.Itoa(o.Age),
			o.Email,
			o.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write owner %d: %w", o.ID, err)
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// CarsCSV serializes cars to CSV text with the fixed header row.
func CarsCSV(cars []Car) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(carCSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, c := range cars {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Brand,
			c.Model,
			strconv.Itoa(c.Year),
			c.Color,
			strconv.FormatInt(c.OwnerID, 10),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write car %d: %w", c.ID, err)
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// headerIndex maps lowercased column names to their position in a record.
type headerIndex map[string]int

// lookup returns the cell for a named column, with ok=false when the
// column is absent from the header or the row is too short.
func (h headerIndex) lookup(record []string, name string) (string, bool) {
	pos, ok := h[name]
	if !ok || pos >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[pos]), true
}

// decodeCSV validates the byte encoding and parses the full document.
// Returns the header index and the data records. Ragged rows are tolerated;
// a short row simply has its trailing columns treated as absent.
func decodeCSV(data []byte) (headerIndex, [][]string, error) {
	if !utf8.Valid(data) {
		return nil, nil, Malformed("file is not valid UTF-8", nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, Malformed("invalid CSV", err)
	}
	if len(records) == 0 {
		return headerIndex{}, nil, nil
	}

	idx := make(headerIndex, len(records[0]))
	for i, name := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx, records[1:], nil
}

// isBlankRow reports whether every cell in the record is empty.
func isBlankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ownerRowParams builds owner-creation params from one CSV record.
// Rows missing name or email are skipped, not failed. A non-empty age that
// does not parse as an integer is a batch-level fault.
func ownerRowParams(record []string, idx headerIndex) (params NewOwner, skip bool, err error) {
	name, _ := idx.lookup(record, "name")
	email, _ := idx.lookup(record, "email")
	if name == "" || email == "" {
		return NewOwner{}, true, nil
	}

	age := 0
	if raw, ok := idx.lookup(record, "age"); ok && raw != "" {
		age, err = strconv.Atoi(raw)
		if err != nil {
			return NewOwner{}, false, Malformed(fmt.Sprintf("invalid age %q", raw), err)
		}
	}

	return NewOwner{Name: name, Age: age, Email: email}, false, nil
}

// carRowParams builds car-creation params from one CSV record.
// Non-integer year or owner_id is a batch-level fault; a missing owner_id
// column yields owner 0, which no owner can have, so the row is skipped
// downstream.
func carRowParams(record []string, idx headerIndex) (NewCar, error) {
	var params NewCar

	for _, col := range []string{"brand", "model", "year", "color"} {
		if _, ok := idx[col]; !ok {
			return NewCar{}, Malformed(fmt.Sprintf("missing column %q", col), nil)
		}
	}

	params.Brand, _ = idx.lookup(record, "brand")
	params.Model, _ = idx.lookup(record, "model")
	params.Color, _ = idx.lookup(record, "color")

	rawYear, _ := idx.lookup(record, "year")
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return NewCar{}, Malformed(fmt.Sprintf("invalid year %q", rawYear), err)
	}
	params.Year = year

	if raw, ok := idx.lookup(record, "owner_id"); ok {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return NewCar{}, Malformed(fmt.Sprintf("invalid owner_id %q", raw), err)
		}
		params.OwnerID = ownerID
	}

	return params, nil
}
