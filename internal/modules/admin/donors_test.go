package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildDonorQuery_Render(t *testing.T) {
	tests := []struct {
		name     string
		blood    *string
		location *string
		sql      string
		args     []any
	}{
		{"match all", nil, nil, "1=1", nil},
		{"blank values are absent", strPtr("  "), strPtr(""), "1=1", nil},
		{"blood only", strPtr("ab-"), nil, "blood_group = ?", []any{"AB-"}},
		{"location only", nil, strPtr("Spring"), `LOWER(location) LIKE ? ESCAPE '\'`, []any{"%spring%"}},
		{
			"both",
			strPtr("O+"), strPtr(" spring "),
			`blood_group = ? AND LOWER(location) LIKE ? ESCAPE '\'`,
			[]any{"O+", "%spring%"},
		},
		{"wildcards escaped", nil, strPtr("50%_off"), `LOWER(location) LIKE ? ESCAPE '\'`, []any{`%50\%\_off%`}},
		{"unknown group kept verbatim", strPtr("Z+"), nil, "blood_group = ?", []any{"Z+"}},
		{"injection stays a value", strPtr("' OR 1=1 --"), nil, "blood_group = ?", []any{"' OR 1=1 --"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := BuildDonorQuery(tt.blood, tt.location).Render()
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestDonorQuery_FilterMatchesBuilder(t *testing.T) {
	q := DonorQuery{BloodGroup: strPtr("B+"), Location: strPtr("lagos")}
	assert.Equal(t, BuildDonorQuery(q.BloodGroup, q.Location), q.Filter())
}
