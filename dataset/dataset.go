// Package dataset loads the reference listing dataset that populates the
// selectable values of the price form.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parts-pile/valuator/db"
)

// Listing is one historical vehicle listing. Listings are never mutated after
// loading.
type Listing struct {
	Name      string   `db:"name"`
	Company   string   `db:"company"`
	Year      int      `db:"year"`
	KmsDriven int      `db:"kms_driven"`
	FuelType  string   `db:"fuel_type"`
	Price     *float64 `db:"price"`
}

// ErrEmpty is returned when a source holds no listings at all.
var ErrEmpty = errors.New("dataset contains no listings")

// column aliases accepted in the CSV header, lower-cased
var headerAliases = map[string]string{
	"name":       "name",
	"company":    "company",
	"year":       "year",
	"kms_driven": "kms_driven",
	"kmsdriven":  "kms_driven",
	"fuel_type":  "fuel_type",
	"fueltype":   "fuel_type",
	"price":      "price",
}

var requiredColumns = []string{"name", "company", "year", "kms_driven", "fuel_type"}

// Load reads listings from path. CSV files are parsed directly; .db, .sqlite
// and .sqlite3 files are opened as SQLite databases.
func Load(ctx context.Context, path string) ([]Listing, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
		conn, err := db.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return LoadDB(ctx, conn)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}
}

// LoadCSV reads every listing from the CSV file at path.
func LoadCSV(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	listings, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	log.Printf("[dataset] Loaded %d listings from %s", len(listings), path)
	return listings, nil
}

// ReadCSV parses listings from r. The header row selects columns by name, so
// column order and extra columns do not matter.
func ReadCSV(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			index[canonical] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var listings []Listing
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		listing, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		listings = append(listings, listing)
	}

	if len(listings) == 0 {
		return nil, ErrEmpty
	}
	return listings, nil
}

func parseRecord(record []string, index map[string]int) (Listing, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	l := Listing{
		Name:     field("name"),
		Company:  field("company"),
		FuelType: field("fuel_type"),
	}
	if l.Name == "" || l.Company == "" || l.FuelType == "" {
		return Listing{}, errors.New("name, company and fuel_type must not be empty")
	}

	var err error
	if l.Year, err = ParseInt(field("year")); err != nil {
		return Listing{}, fmt.Errorf("year: %w", err)
	}
	if l.KmsDriven, err = ParseInt(field("kms_driven")); err != nil {
		return Listing{}, fmt.Errorf("kms_driven: %w", err)
	}

	if i, ok := index["price"]; ok {
		if raw := strings.TrimSpace(record[i]); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Listing{}, fmt.Errorf("price: %w", err)
			}
			l.Price = &price
		}
	}
	return l, nil
}

// ParseInt accepts plain integers as well as integral floats such as "2015.0",
// which spreadsheet exports commonly produce.
func ParseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("out of range: %q", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}

// LoadDB reads every listing from the Listing table.
func LoadDB(ctx context.Context, conn *sql.DB) ([]Listing, error) {
	rows, err := conn.QueryContext(ctx, "SELECT name, company, year, kms_driven, fuel_type, price FROM Listing")
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		var price sql.NullFloat64
		if err := rows.Scan(&l.Name, &l.Company, &l.Year, &l.KmsDriven, &l.FuelType, &price); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if price.Valid {
			p := price.Float64
			l.Price = &p
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	if len(listings) == 0 {
		return nil, ErrEmpty
	}
	log.Printf("[dataset] Loaded %d listings from database", len(listings))
	return listings, nil
}

// Insert writes listings into the Listing table inside a single transaction.
func Insert(ctx context.Context, conn *sql.DB, listings []Listing) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO Listing (name, company, year, kms_driven, fuel_type, price) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var price interface{}
		if l.Price != nil {
			price = *l.Price
		}
		if _, err := stmt.ExecContext(ctx, l.Name, l.Company, l.Year, l.KmsDriven, l.FuelType, price); err != nil {
			return fmt.Errorf("failed to insert listing %s %s: %w", l.Company, l.Name, err)
		}
	}
	return tx.Commit()
}
