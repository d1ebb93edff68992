package profile

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/fakeyudi/envision/internal/session"
)

func TestDiffSingleChanges(t *testing.T) {
	assert.Equal(t, []Change{{Kind: ChangeSet, Name: "A", Value: "1"}},
		Diff(map[string]string{}, map[string]string{"A": "1"}))
	assert.Equal(t, []Change{{Kind: ChangeUnset, Name: "A"}},
		Diff(map[string]string{"A": "1"}, map[string]string{}))
	assert.Empty(t, Diff(map[string]string{"A": "1"}, map[string]string{"A": "1"}))
}

func TestDiffOrdering(t *testing.T) {
	before := map[string]string{"KEEP": "1", "CHANGE": "old", "DROP_B": "x", "DROP_A": "y"}
	after := map[string]string{"KEEP": "1", "CHANGE": "new", "ADD": "z"}
	assert.Equal(t, []Change{
		{Kind: ChangeSet, Name: "ADD", Value: "z"},
		{Kind: ChangeSet, Name: "CHANGE", Value: "new"},
		{Kind: ChangeUnset, Name: "DROP_A"},
		{Kind: ChangeUnset, Name: "DROP_B"},
	}, Diff(before, after))
}

func TestDiffSkipsNoise(t *testing.T) {
	before := map[string]string{"SHLVL": "1", "_": "/usr/bin/envision", session.SessionVar: "a", "MINE": "1"}
	after := map[string]string{"SHLVL": "2", "BASH_EXECUTION_STRING": "x", session.ProfileVar: "dev", "MINE": "2"}
	assert.Equal(t, []Change{{Kind: ChangeSet, Name: "MINE", Value: "2"}}, Diff(before, after))
	assert.Empty(t, Diff(before, after, "MINE"))
}

// Feature: envision, Property 7: Noise never appears in a diff
func TestDiffNeverReportsNoise(t *testing.T) {
	noiseGen := rapid.SampledFrom([]string{
		"_", "SHLVL", "BASH_EXECUTION_STRING",
		session.SessionVar, session.SessionIDVar, session.TrackedCountVar,
		session.DirtyVar, session.ProfileVar, session.ProfileChecksumVar,
	})
	nameGen := rapid.OneOf(noiseGen, rapid.StringMatching(`[A-Z][A-Z0-9_]{0,6}`))

	rapid.Check(t, func(t *rapid.T) {
		before := rapid.MapOf(nameGen, rapid.String()).Draw(t, "before")
		after := rapid.MapOf(nameGen, rapid.String()).Draw(t, "after")
		for _, c := range Diff(before, after) {
			if IsNoise(c.Name) {
				t.Fatalf("noise variable %s reported", c.Name)
			}
		}
	})
}

// Feature: envision, Property 8: Applying a diff to before yields after
func TestDiffAppliedReproducesAfter(t *testing.T) {
	nameGen := rapid.StringMatching(`[A-Z][A-Z0-9_]{0,6}`).Filter(func(s string) bool { return !IsNoise(s) })
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.MapOf(nameGen, rapid.String()).Draw(t, "before")
		after := rapid.MapOf(nameGen, rapid.String()).Draw(t, "after")

		got := make(map[string]string, len(before))
		for k, v := range before {
			got[k] = v
		}
		for _, c := range Diff(before, after) {
			if c.Kind == ChangeUnset {
				delete(got, c.Name)
			} else {
				got[c.Name] = c.Value
			}
		}
		if !maps.Equal(after, got) {
			t.Fatalf("applied diff gives %v, want %v", got, after)
		}
	})
}
