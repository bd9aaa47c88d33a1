package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/cvfilter"
	"github.com/samlatif/network/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSmall(t *testing.T) *types.CVData {
	t.Helper()
	data, err := cvdata.LoadFile(filepath.Join("..", "..", "internal", "cvdata", "testdata", "small.json"))
	require.NoError(t, err)
	return data
}

func TestApplyFilters(t *testing.T) {
	data := loadSmall(t)

	tests := []struct {
		name        string
		tags        []string
		row         string
		wantActive  []string
		wantMatched bool
		wantBest    string
	}{
		{name: "no filters", wantActive: nil},
		{name: "inferred tag", tags: []string{"jQuery"}, wantActive: []string{"jQuery"}, wantMatched: true, wantBest: "Acme"},
		{name: "global default", tags: []string{"Git"}, wantActive: []string{"Git"}, wantMatched: true, wantBest: "Acme"},
		{name: "unmatched tag", tags: []string{"Go"}, wantActive: []string{"Go"}},
		{name: "row keeps filterable tokens", row: "React, Vue", wantActive: []string{"React"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := applyFilters(data, tt.tags, tt.row, types.CategoryAll)

			assert.Equal(t, tt.wantActive, result.Active)
			require.Len(t, result.Jobs, 1)
			assert.Equal(t, []string{"jQuery", "Git", "JavaScript (ES5)"}, result.Jobs[0].Stack)
			assert.Equal(t, tt.wantMatched, result.Jobs[0].Matched)
			if tt.wantBest == "" {
				assert.Nil(t, result.BestMatch)
				return
			}
			require.NotNil(t, result.BestMatch)
			assert.Equal(t, tt.wantBest, result.BestMatch.Key.Company)
			assert.Equal(t, cvfilter.ScrollToJob, result.Effect.Kind)
		})
	}
}

func TestApplyFilters_Category(t *testing.T) {
	data := loadSmall(t)

	result := applyFilters(data, nil, "", types.CategoryTesting)
	require.Len(t, result.Skills, 2)
	assert.False(t, result.Skills[0].Visible)
	assert.True(t, result.Skills[1].Visible)
}

func TestCVValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		wantOut string
	}{
		{
			name:    "valid json",
			path:    filepath.Join("..", "..", "internal", "schemas", "testdata", "valid_cv.json"),
			wantOut: "CV DATASET",
		},
		{
			name:    "valid yaml",
			path:    filepath.Join("..", "..", "internal", "cvdata", "testdata", "small.yaml"),
			wantOut: "valid",
		},
		{
			name:    "json job without company",
			path:    filepath.Join("..", "..", "internal", "schemas", "testdata", "job_missing_company.json"),
			wantErr: true,
			wantOut: "schema error(s)",
		},
		{
			name:    "yaml job without company",
			path:    filepath.Join("..", "..", "internal", "cvdata", "testdata", "missing_company.yaml"),
			wantErr: true,
			wantOut: "schema error(s)",
		},
		{
			name:    "unsupported extension",
			path:    "cv.txt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			err := runCVValidate(cmd, []string{tt.path})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}
