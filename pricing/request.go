package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/parts-pile/valuator/dataset"
)

// Request field names as they appear in the JSON body.
const (
	FieldCompany   = "company"
	FieldName      = "name"
	FieldYear      = "year"
	FieldFuelType  = "fuel_type"
	FieldKmsDriven = "kms_driven"
)

// Request is a validated prediction request. It can only be obtained from
// ParseRequest, so transforms never see unchecked input.
type Request struct {
	Company   string
	Name      string
	Year      int
	FuelType  string
	KmsDriven int
}

func (r Request) cacheKey() string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%s\x00%d", r.Company, r.Name, r.Year, r.FuelType, r.KmsDriven)
}

// ParseRequest decodes body and checks every required field. The first
// problem found is returned as *ValidationError.
func ParseRequest(body []byte) (Request, error) {
	var raw map[string]interface{}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return Request{}, &ValidationError{Reason: "request body must be a JSON object"}
	}
	// exactly one value is allowed
	if _, err := dec.Token(); err != io.EOF {
		return Request{}, &ValidationError{Reason: "request body must be a JSON object"}
	}

	var (
		req Request
		err error
	)
	if req.Company, err = stringField(raw, FieldCompany); err != nil {
		return Request{}, err
	}
	if req.Name, err = stringField(raw, FieldName); err != nil {
		return Request{}, err
	}
	if req.Year, err = intField(raw, FieldYear); err != nil {
		return Request{}, err
	}
	if req.FuelType, err = stringField(raw, FieldFuelType); err != nil {
		return Request{}, err
	}
	if req.KmsDriven, err = intField(raw, FieldKmsDriven); err != nil {
		return Request{}, err
	}

	if req.Year <= 0 {
		return Request{}, &ValidationError{Field: FieldYear, Reason: "must be positive"}
	}
	if req.KmsDriven < 0 {
		return Request{}, &ValidationError{Field: FieldKmsDriven, Reason: "must not be negative"}
	}
	return req, nil
}

func stringField(raw map[string]interface{}, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", &ValidationError{Field: field, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "must be a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return s, nil
}

// intField accepts JSON integers, integral floats and numeric strings, the
// same inputs the HTML price form submits.
func intField(raw map[string]interface{}, field string) (int, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, &ValidationError{Field: field, Reason: "must be an integer"}
	}

	n, err := dataset.ParseInt(s)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}
