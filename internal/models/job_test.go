package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, Tags{"Go", "Rust"}, ParseTags("Go, Rust ,  "))
	assert.Equal(t, Tags{}, ParseTags(""))
	assert.Equal(t, Tags{"Life", "P&C"}, ParseTags(" Life,,P&C "))
}

func TestTagsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Tags
	}{
		{"array", `["Life","Health"]`, Tags{"Life", "Health"}},
		{"comma string", `"Life, Health, Pricing"`, Tags{"Life", "Health", "Pricing"}},
		{"null", `null`, Tags{}},
		{"blank entries dropped", `["Go"," ",""]`, Tags{"Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Tags
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad Tags
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestTagsMarshalAsArray(t *testing.T) {
	body, err := json.Marshal(JobInput{Title: "Pricing Actuary"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"tags":[]`)
}

func TestTagsUnmarshalYAML(t *testing.T) {
	var in struct {
		A Tags `yaml:"a"`
		B Tags `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: [Go, Rust]\nb: \"Life, Health\"\n"), &in))
	assert.Equal(t, Tags{"Go", "Rust"}, in.A)
	assert.Equal(t, Tags{"Life", "Health"}, in.B)
}

func TestTimestampLayouts(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 7,
		"title": "Reserving Actuary",
		"posting_date": "2024-03-05T10:20:30.123456",
		"created_at": null,
		"tags": "Reserving, P&C"
	}`), &job))

	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC), job.PostingDate.Time)
	assert.True(t, job.CreatedAt.IsZero())
	assert.Equal(t, Tags{"Reserving", "P&C"}, job.Tags)

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestPostedAtFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	job := Job{CreatedAt: Timestamp{Time: created}}
	assert.Equal(t, created, job.PostedAt())
}

func TestEnums(t *testing.T) {
	assert.True(t, JobTypeInternship.Valid())
	assert.False(t, JobType("Freelance").Valid())
	assert.True(t, ExperienceLevel("").Valid())
	assert.False(t, ExperienceLevel("Guru").Valid())
	assert.True(t, SortCompanyDesc.Valid())
	assert.False(t, SortKey("salary_desc").Valid())
	assert.Equal(t, "Title A-Z", SortTitleAsc.Label())
}
