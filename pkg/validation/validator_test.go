package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	GraphID   string `json:"graph_id" validate:"required,node_id"`
	Category  string `json:"category" validate:"required,graph_category"`
	Direction string `json:"direction" validate:"omitempty,pin_direction"`
	DataType  string `json:"data_type" validate:"omitempty,data_type"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := sampleRequest{
		GraphID:   "graph-42",
		Category:  "control_flow",
		Direction: "input",
		DataType:  "float64",
	}
	assert.NoError(t, ValidateStruct(req))
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		req   sampleRequest
		field string
	}{
		{
			name:  "missing graph id",
			req:   sampleRequest{Category: "data_flow"},
			field: "graph_id",
		},
		{
			name:  "bad identifier characters",
			req:   sampleRequest{GraphID: "g!!", Category: "data_flow"},
			field: "graph_id",
		},
		{
			name:  "unknown category",
			req:   sampleRequest{GraphID: "g1", Category: "spreadsheet"},
			field: "category",
		},
		{
			name:  "unknown direction",
			req:   sampleRequest{GraphID: "g1", Category: "data_flow", Direction: "sideways"},
			field: "direction",
		},
		{
			name:  "bad data type",
			req:   sampleRequest{GraphID: "g1", Category: "data_flow", DataType: "no spaces"},
			field: "data_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			require.Error(t, err)

			verrs, ok := err.(ValidationErrors)
			require.True(t, ok, "expected ValidationErrors, got %T", err)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Field: "graph_id", Value: "", Message: "field is required"},
		{Field: "category", Value: "x", Message: "must be a valid graph category (control_flow, data_flow)"},
	}
	msg := errs.Error()
	assert.Contains(t, msg, "graph_id")
	assert.Contains(t, msg, "category")

	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
