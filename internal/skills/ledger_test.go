package skills

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Load(filepath.Join(t.TempDir(), "skills.json"))
	require.NoError(t, err)
	return l
}

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	l, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, l.Skills, 8)
	for _, id := range SkillOrder {
		s, ok := l.Get(id)
		require.True(t, ok, "missing default skill %s", id)
		assert.Equal(t, 0, s.Level)
		assert.Equal(t, MaxLevel, s.MaxLevel)
		assert.Len(t, s.Milestones, 10)
		assert.Empty(t, s.Completed)
	}

	// The defaults must have been persisted immediately.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestMilestoneLevelInvariant(t *testing.T) {
	l := tempLedger(t)

	check := func() {
		s, _ := l.Get("python")
		want := 0
		for _, c := range s.Completed {
			if c > want {
				want = c
			}
		}
		assert.Equal(t, want, s.Level, "level must track max completed milestone")
	}

	require.NoError(t, l.CompleteMilestone("python", 10))
	check()
	require.NoError(t, l.CompleteMilestone("python", 40))
	check()
	require.NoError(t, l.CompleteMilestone("python", 20))
	check()

	s, _ := l.Get("python")
	assert.Equal(t, 40, s.Level)
	assert.Equal(t, []int{10, 20, 40}, s.Completed)

	require.NoError(t, l.UncompleteMilestone("python", 40))
	check()
	s, _ = l.Get("python")
	assert.Equal(t, 20, s.Level)

	require.NoError(t, l.UncompleteMilestone("python", 20))
	require.NoError(t, l.UncompleteMilestone("python", 10))
	s, _ = l.Get("python")
	assert.Equal(t, 0, s.Level)
	assert.Empty(t, s.Completed)
}

func TestCompleteMilestoneValidation(t *testing.T) {
	l := tempLedger(t)

	assert.ErrorIs(t, l.CompleteMilestone("python", 15), ErrInvalidMilestone)
	assert.ErrorIs(t, l.CompleteMilestone("fortran", 10), ErrUnknownSkill)
	assert.ErrorIs(t, l.UncompleteMilestone("python", 10), ErrNotCompleted)
}

func TestIdempotentRecompletion(t *testing.T) {
	l := tempLedger(t)
	require.NoError(t, l.CompleteMilestone("rag", 30))

	err := l.CompleteMilestone("rag", 30)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	s, _ := l.Get("rag")
	assert.Equal(t, 30, s.Level)
	assert.Equal(t, []int{30}, s.Completed)
}

func TestGrantXPSaturates(t *testing.T) {
	l := tempLedger(t)

	_, lvl, err := l.GrantXP("llm", 95)
	require.NoError(t, err)
	assert.Equal(t, 95, lvl)

	old, lvl, err := l.GrantXP("llm", 10)
	require.NoError(t, err)
	assert.Equal(t, 95, old)
	assert.Equal(t, 100, lvl, "XP must saturate at the cap")

	_, lvl, err = l.GrantXP("llm", 50)
	require.NoError(t, err)
	assert.Equal(t, 100, lvl)
}

func TestGrantXPUnknownSkillIsNoop(t *testing.T) {
	l := tempLedger(t)
	_, _, err := l.GrantXP("basketweaving", 10)
	assert.ErrorIs(t, err, ErrUnknownSkill)
	assert.Equal(t, 0, l.OverallProgress())
}

func TestSetLevelClamps(t *testing.T) {
	l := tempLedger(t)

	lvl, err := l.SetLevel("math", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, lvl)

	lvl, err = l.SetLevel("math", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, lvl)
}

func TestOverallProgress(t *testing.T) {
	l := tempLedger(t)
	_, _, err := l.GrantXP("python", 50)
	require.NoError(t, err)
	_, _, err = l.GrantXP("api", 30)
	require.NoError(t, err)

	// 80 points over 800 possible.
	assert.Equal(t, 10, l.OverallProgress())
}

func TestMigrationPreservesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")

	// Version 1 file: flat map, no version envelope, no milestones.
	v1 := map[string]legacySkill{
		"python": {Name: "Python", Level: 40, MaxLevel: 100, Category: "programming"},
		"llm":    {Name: "LLM", Level: 15, MaxLevel: 100, Category: "ai"},
	}
	data, err := json.Marshal(v1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l, err := Load(path)
	require.NoError(t, err)

	py, ok := l.Get("python")
	require.True(t, ok)
	assert.Equal(t, 40, py.Level, "migration must preserve the existing level")
	assert.Len(t, py.Milestones, 10, "milestones backfilled from defaults")
	assert.Empty(t, py.Completed)

	// Skills absent from the old file come in at their defaults.
	rag, ok := l.Get("rag")
	require.True(t, ok)
	assert.Equal(t, 0, rag.Level)

	// The migrated file must round-trip as version 2.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ledgerDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, SchemaVersion, doc.Version)

	l2, err := Load(path)
	require.NoError(t, err)
	py2, _ := l2.Get("python")
	assert.Equal(t, 40, py2.Level)
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	// Well-formed v2 envelope, but level is out of range.
	bad := `{"version":2,"skills":{"python":{"name":"Python","level":400,"category":"programming"}}}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestMutationsPersistImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	l, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, l.CompleteMilestone("api", 10))

	reloaded, err := Load(path)
	require.NoError(t, err)
	s, _ := reloaded.Get("api")
	assert.Equal(t, 10, s.Level)
	assert.Equal(t, []int{10}, s.Completed)
}

func TestWeakest(t *testing.T) {
	l := tempLedger(t)
	_, _, err := l.GrantXP("python", 80)
	require.NoError(t, err)
	_, _, err = l.GrantXP("math", 60)
	require.NoError(t, err)

	weak := l.Weakest(3)
	require.Len(t, weak, 3)
	assert.NotContains(t, weak, "python")
	assert.NotContains(t, weak, "math")
}
