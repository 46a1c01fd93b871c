package skills

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Ledger is the persisted collection of skill progress records. Every
// mutating operation rewrites the whole file before returning; with a
// single sequential writer that is all the durability this needs.
type Ledger struct {
	path   string
	Skills map[string]*Skill
}

// ledgerDoc is the on-disk shape (version 2).
type ledgerDoc struct {
	Version int               `json:"version"`
	Skills  map[string]*Skill `json:"skills"`
}

// Load reads the ledger at path, creating it with the default skill set
// when absent. Pre-milestone files (version 1, the original flat map) are
// migrated in place: milestone definitions are backfilled from the
// defaults while each skill keeps its existing level.
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		l.Skills = defaultSkills()
		if err := l.persist(); err != nil {
			return nil, fmt.Errorf("initialize ledger: %w", err)
		}
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var doc ledgerDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version == 0 {
		// Version 1: a bare map of skills, no envelope and no milestones.
		migrated, merr := migrateV1(data)
		if merr != nil {
			return nil, fmt.Errorf("load ledger: %w", merr)
		}
		l.Skills = migrated
		if err := l.persist(); err != nil {
			return nil, fmt.Errorf("persist migrated ledger: %w", err)
		}
		return l, nil
	}

	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("ledger %s: %w", path, err)
	}

	l.Skills = doc.Skills
	// A valid v2 envelope can still carry skills written before milestones
	// existed; backfill those in place too.
	if l.backfillMissing() {
		if err := l.persist(); err != nil {
			return nil, fmt.Errorf("persist migrated ledger: %w", err)
		}
	}
	return l, nil
}

// legacySkill is the version 1 record: level only, no checklist.
type legacySkill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
	Category string `json:"category"`
}

func migrateV1(data []byte) (map[string]*Skill, error) {
	var old map[string]legacySkill
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("unrecognized ledger format: %w", err)
	}

	skills := defaultSkills()
	for id, legacy := range old {
		s, ok := skills[id]
		if !ok {
			// A skill id we no longer ship defaults for still survives
			// migration, just without a checklist.
			s = &Skill{
				Name:       legacy.Name,
				Category:   legacy.Category,
				MaxLevel:   MaxLevel,
				Milestones: map[int]Milestone{},
				Completed:  []int{},
			}
			skills[id] = s
		}
		s.Level = legacy.Level
		if legacy.Name != "" {
			s.Name = legacy.Name
		}
	}
	return skills, nil
}

// backfillMissing merges default milestone data into skills that lack it,
// preserving levels. Reports whether anything changed.
func (l *Ledger) backfillMissing() bool {
	defaults := defaultSkills()
	changed := false
	for id, s := range l.Skills {
		if s.Milestones == nil {
			if d, ok := defaults[id]; ok {
				s.Milestones = d.Milestones
			} else {
				s.Milestones = map[int]Milestone{}
			}
			changed = true
		}
		if s.Completed == nil {
			s.Completed = []int{}
			changed = true
		}
		if s.MaxLevel == 0 {
			s.MaxLevel = MaxLevel
			changed = true
		}
	}
	return changed
}

func (l *Ledger) persist() error {
	doc := ledgerDoc{Version: SchemaVersion, Skills: l.Skills}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}

// Get returns a skill by id.
func (l *Ledger) Get(id string) (*Skill, bool) {
	s, ok := l.Skills[id]
	return s, ok
}

// IDs returns the known skill ids in display order, with any extras
// (kept through migration) appended alphabetically.
func (l *Ledger) IDs() []string {
	out := make([]string, 0, len(l.Skills))
	seen := map[string]bool{}
	for _, id := range SkillOrder {
		if _, ok := l.Skills[id]; ok {
			out = append(out, id)
			seen[id] = true
		}
	}
	var extras []string
	for id := range l.Skills {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// GrantXP raises a skill's level by amount, saturating at the cap. The
// milestone checklist is untouched, so heavy XP use can push level past
// the completed thresholds.
func (l *Ledger) GrantXP(id string, amount int) (oldLevel, newLevel int, err error) {
	s, ok := l.Skills[id]
	if !ok {
		return 0, 0, ErrUnknownSkill
	}
	oldLevel = s.Level
	newLevel = min(s.Level+amount, s.MaxLevel)
	s.Level = newLevel
	if err := l.persist(); err != nil {
		return oldLevel, newLevel, err
	}
	return oldLevel, newLevel, nil
}

// SetLevel overwrites a skill's level, clamped to [0, MaxLevel].
func (l *Ledger) SetLevel(id string, level int) (int, error) {
	s, ok := l.Skills[id]
	if !ok {
		return 0, ErrUnknownSkill
	}
	s.Level = min(max(level, 0), s.MaxLevel)
	if err := l.persist(); err != nil {
		return s.Level, err
	}
	return s.Level, nil
}

// CompleteMilestone marks threshold done and re-derives the level as the
// highest completed threshold.
func (l *Ledger) CompleteMilestone(id string, threshold int) error {
	s, ok := l.Skills[id]
	if !ok {
		return ErrUnknownSkill
	}
	if _, ok := s.Milestones[threshold]; !ok {
		return ErrInvalidMilestone
	}
	if s.IsCompleted(threshold) {
		return ErrAlreadyCompleted
	}
	s.Completed = append(s.Completed, threshold)
	sort.Ints(s.Completed)
	s.Level = s.completedMax()
	return l.persist()
}

// UncompleteMilestone removes threshold from the completed set and
// re-derives the level (0 when nothing remains).
func (l *Ledger) UncompleteMilestone(id string, threshold int) error {
	s, ok := l.Skills[id]
	if !ok {
		return ErrUnknownSkill
	}
	if !s.IsCompleted(threshold) {
		return ErrNotCompleted
	}
	kept := s.Completed[:0]
	for _, t := range s.Completed {
		if t != threshold {
			kept = append(kept, t)
		}
	}
	s.Completed = kept
	s.Level = s.completedMax()
	return l.persist()
}

// OverallProgress is the floor percentage of total level across all skills.
func (l *Ledger) OverallProgress() int {
	if len(l.Skills) == 0 {
		return 0
	}
	total := 0
	for _, s := range l.Skills {
		total += s.Level
	}
	return total * 100 / (len(l.Skills) * MaxLevel)
}

// Reset restores the default skill set at level 0 and persists it.
func (l *Ledger) Reset() error {
	l.Skills = defaultSkills()
	return l.persist()
}

// Weakest returns up to n skills sorted ascending by level, for the
// "what should I learn next" view.
func (l *Ledger) Weakest(n int) []string {
	ids := l.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return l.Skills[ids[i]].Level < l.Skills[ids[j]].Level
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
