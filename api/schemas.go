package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

const createRepairSchemaSrc = `{
	"type": "object",
	"properties": {
		"customer_name":       {"type": ["string", "null"]},
		"customer_phone":      {"type": ["string", "null"]},
		"item_type":           {"type": ["string", "null"]},
		"brand_model":         {"type": ["string", "null"]},
		"problem_description": {"type": ["string", "null"]},
		"received_date":       {"type": ["string", "null"]},
		"expected_completion": {"type": ["string", "null"]},
		"repair_cost":         {"type": ["number", "null"], "minimum": 0}
	}
}`

const updateRepairSchemaSrc = `{
	"type": "object",
	"properties": {
		"repair_status":       {"type": ["string", "null"]},
		"repair_cost":         {"type": ["number", "null"], "minimum": 0},
		"payment_status":      {"type": ["string", "null"]},
		"technician_notes":    {"type": ["string", "null"]},
		"expected_completion": {"type": ["string", "null"]},
		"delivery_date":       {"type": ["string", "null"]}
	}
}`

const checkStatusSchemaSrc = `{
	"type": "object",
	"properties": {
		"jobId": {"type": ["string", "null"]},
		"phone": {"type": ["string", "null"]}
	}
}`

var (
	createRepairSchema = mustSchema(createRepairSchemaSrc)
	updateRepairSchema = mustSchema(updateRepairSchemaSrc)
	checkStatusSchema  = mustSchema(checkStatusSchemaSrc)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("api: invalid schema: %v", err))
	}
	return rs
}

// errInvalidJSON is returned by validateBody when the body does not parse.
var errInvalidJSON = errors.New("invalid JSON body")

// validateBody checks data against rs. It returns errInvalidJSON for bodies
// that do not parse, and a message describing the first violation otherwise.
func validateBody(ctx context.Context, rs *jsonschema.Schema, data []byte) (string, error) {
	if !json.Valid(data) {
		return "", errInvalidJSON
	}
	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return "", fmt.Errorf("validate body: %w", err)
	}
	if len(keyErrs) > 0 {
		var sb strings.Builder
		for i, v := range keyErrs {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(v.PropertyPath)
			sb.WriteString(": ")
			sb.WriteString(v.Message)
		}
		return sb.String(), nil
	}
	return "", nil
}
