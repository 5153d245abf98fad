package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"email", "email", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"emial", "email", 2},
		{"Name", "name", 1},
		// runes, not bytes
		{"naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("url", "url"), 1e-9)
	assert.InDelta(t, 0.6, Similarity("emial", "email"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"FirstName":   "firstname",
		"first_name":  "firstname",
		"first-name":  "firstname",
		"avatar.url":  "avatarurl",
		"EMAIL":       "email",
		"":            "",
		"Ünïcode_Key": "ünïcodekey",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Normalize(in))
		})
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"avatarURL", []string{"avatar", "url"}},
		{"first_name", []string{"first", "name"}},
		{"XMLParser", []string{"xml", "parser"}},
		{"getHTTPResponse", []string{"get", "http", "response"}},
		{"ID", []string{"id"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}

func TestRank(t *testing.T) {
	ranked := Rank("emial", []string{"name", "email", "avatar"})
	require.Len(t, ranked, 3)

	best, ok := ranked.Best()
	require.True(t, ok)
	assert.Equal(t, "email", best.Name)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	above := ranked.AboveThreshold(DefaultMinScore)
	require.Len(t, above, 1)
	assert.Equal(t, "email", above[0].Name)
}

func TestRank_TiesKeepCandidateOrder(t *testing.T) {
	ranked := Rank("xx", []string{"ab", "cd", "ef"})
	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}

	assert.Equal(t, []string{"ab", "cd", "ef"}, names)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
		found      bool
	}{
		{"transposition", "emial", []string{"name", "email"}, "email", true},
		{"case only", "Email", []string{"name", "email"}, "email", true},
		{"separator style", "avatar_url", []string{"avatarUrl", "links"}, "avatarUrl", true},
		{"too far", "zzz", []string{"name", "email"}, "", false},
		{"no candidates", "email", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Suggest(tt.input, tt.candidates)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func BenchmarkSuggest(b *testing.B) {
	candidates := []string{"name", "email", "avatar", "links", "createdAt", "updatedAt"}

	for b.Loop() {
		Suggest("emial", candidates)
	}
}
