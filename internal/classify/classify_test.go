// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levmap/incident-engine/internal/normalize"
	"github.com/levmap/incident-engine/pkg/types"
)

// fixtureConfig is a small keyword table independent of the production
// lists, exercising the injectable-configuration contract.
func fixtureConfig() Config {
	return Config{
		Incidents: map[types.IncidentType][]string{
			"fire":    {"حريق", "fire"},
			"flood":   {"فيضان", "flood"},
			"medical": {"إسعاف", "ambulance"},
		},
		Casualties: map[types.CasualtyTag][]string{
			types.CasualtyKilled:  {"قتيل", "killed"},
			types.CasualtyInjured: {"جرحى", "injured"},
		},
	}
}

func TestIncidents(t *testing.T) {
	c := New(fixtureConfig())

	tests := []struct {
		name string
		text string
		want []types.IncidentType
	}{
		{
			name: "no match",
			text: "اجتماع في الوزارة صباح اليوم",
			want: nil,
		},
		{
			name: "single arabic match",
			text: "حريق كبير في بيروت",
			want: []types.IncidentType{"fire"},
		},
		{
			name: "single english match",
			text: "large FIRE reported downtown",
			want: []types.IncidentType{"fire"},
		},
		{
			name: "multiple types in one message",
			text: "حريق في المبنى وسيارة إسعاف في المكان",
			want: []types.IncidentType{"fire", "medical"},
		},
		{
			name: "keyword with diacritics in message",
			text: "حَريقٌ في الجنوب",
			want: []types.IncidentType{"fire"},
		},
		{
			name: "inflected form matches by substring",
			text: "اندلاع الحريق مساء أمس",
			want: []types.IncidentType{"fire"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Incidents(normalize.Normalize(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncidentsDeterministicOrder(t *testing.T) {
	c := New(fixtureConfig())
	text := normalize.Normalize("fire and flood and ambulance")
	for i := 0; i < 10; i++ {
		assert.Equal(t, []types.IncidentType{"fire", "flood", "medical"}, c.Incidents(text))
	}
}

func TestCasualties(t *testing.T) {
	c := New(fixtureConfig())

	tests := []struct {
		name string
		text string
		want []types.CasualtyTag
	}{
		{
			name: "none",
			text: "حريق محدود دون أضرار",
			want: nil,
		},
		{
			name: "injured",
			text: "حريق في بيروت، 3 جرحى",
			want: []types.CasualtyTag{types.CasualtyInjured},
		},
		{
			name: "killed and injured",
			text: "قتيل و5 جرحى في الحادث",
			want: []types.CasualtyTag{types.CasualtyInjured, types.CasualtyKilled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Casualties(normalize.Normalize(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnownType(t *testing.T) {
	c := New(fixtureConfig())

	assert.True(t, c.KnownType("fire"))
	assert.True(t, c.KnownType("flood"))
	assert.True(t, c.KnownType(types.TypeOther))
	assert.False(t, c.KnownType("shooting"))
	assert.False(t, c.KnownType(""))
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxDigits int
		want      []string
	}{
		{
			name:      "plain",
			text:      "3 جرحى و12 عالقا",
			maxDigits: 6,
			want:      []string{"3", "12"},
		},
		{
			name:      "long identifiers filtered",
			text:      "الرقم 0312345678 سجل 25 حالة",
			maxDigits: 6,
			want:      []string{"25"},
		},
		{
			name:      "arabic indic digits folded",
			text:      "٣ قتلى و۱۲ جريحا",
			maxDigits: 6,
			want:      []string{"3", "12"},
		},
		{
			name:      "mixed digit scripts in one run",
			text:      "عدد الضحايا ٣5",
			maxDigits: 6,
			want:      []string{"35"},
		},
		{
			name:      "no numbers",
			text:      "لا أرقام هنا",
			maxDigits: 6,
			want:      nil,
		},
		{
			name:      "boundary length kept",
			text:      "123456 789",
			maxDigits: 6,
			want:      []string{"123456", "789"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Numbers(tt.text, tt.maxDigits))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := `incidents:
  fire: ["حريق", "fire"]
  strike: ["غارة"]
casualties:
  killed: ["قتيل"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Incidents, 2)

	c := New(cfg)
	assert.True(t, c.KnownType("strike"))
	assert.Equal(t, []types.IncidentType{"strike"}, c.Incidents(normalize.Normalize("غارة جوية على الجنوب")))
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("casualties: {}\n"), 0o644))
	_, err = LoadConfig(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(": ["), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestDefaultConfigBeirutFire(t *testing.T) {
	c := New(DefaultConfig())
	text := normalize.Normalize("حريق كبير في بيروت، 3 جرحى")

	assert.Equal(t, []types.IncidentType{"fire"}, c.Incidents(text))
	assert.Equal(t, []types.CasualtyTag{types.CasualtyInjured}, c.Casualties(text))
	assert.Equal(t, []string{"3"}, Numbers("حريق كبير في بيروت، 3 جرحى", 6))
}
