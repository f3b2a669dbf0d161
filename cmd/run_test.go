package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/glowmarket/hunter/internal/model"
)

func sampleSummary() *model.RunSummary {
	return &model.RunSummary{
		RunID:       "run-1",
		Status:      "ok",
		SheetName:   "Bogotá",
		TotalFound:  2,
		TotalAdded:  1,
		PerCategory: []model.CategorySummary{{Category: "barberías", Found: 2, Added: 1, Status: model.CategoryOK}},
		Results:     []model.OutputRow{{Name: "Barbería Uno", PlaceID: "p1"}},
	}
}

func TestWriteSummary_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, sampleSummary(), "json"))

	var got model.RunSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleSummary(), got)
	assert.Contains(t, buf.String(), `"sheetName": "Bogotá"`)
}

func TestWriteSummary_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, sampleSummary(), "yaml"))

	var got model.RunSummary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Bogotá", got.SheetName)
	assert.Equal(t, 1, got.TotalAdded)
	assert.Contains(t, buf.String(), "sheet_name: Bogotá")
}

func TestWriteSummary_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeSummary(&buf, sampleSummary(), "csv")
	assert.ErrorContains(t, err, "unknown output format")
	assert.Zero(t, buf.Len())
}
