// Package skills tracks learning progress per skill: a persisted ledger of
// levels and milestone checklists, plus detection of which skills a note
// exercised (AI-assisted with a deterministic keyword fallback).
package skills

import "errors"

// SchemaVersion is the current on-disk ledger format. Version 1 was the
// original flat skill map without milestones; Load migrates it in place.
const SchemaVersion = 2

// MaxLevel is the level cap for every skill.
const MaxLevel = 100

var (
	ErrUnknownSkill     = errors.New("skill not found")
	ErrInvalidMilestone = errors.New("invalid milestone threshold")
	ErrAlreadyCompleted = errors.New("milestone already completed")
	ErrNotCompleted     = errors.New("milestone not completed")
)

// Milestone is a checkpoint at a fixed threshold with a suggested resource.
type Milestone struct {
	Title    string `json:"title"`
	Resource string `json:"resource"`
}

// Skill is one tracked skill. Level normally equals the highest completed
// milestone threshold (or 0), but GrantXP and SetLevel are a second,
// softer XP channel that may push the level past the checklist.
type Skill struct {
	Name       string            `json:"name"`
	Level      int               `json:"level"`
	MaxLevel   int               `json:"maxLevel"`
	Category   string            `json:"category"`
	Milestones map[int]Milestone `json:"milestones"`
	Completed  []int             `json:"completedMilestones"`
}

// completedMax returns max(Completed) or 0 when the set is empty.
func (s *Skill) completedMax() int {
	m := 0
	for _, t := range s.Completed {
		if t > m {
			m = t
		}
	}
	return m
}

// IsCompleted reports whether threshold is in the completed set.
func (s *Skill) IsCompleted(threshold int) bool {
	for _, t := range s.Completed {
		if t == threshold {
			return true
		}
	}
	return false
}

// LevelName maps a level to the display rank used across the UI.
func LevelName(level int) string {
	switch {
	case level == 0:
		return "Beginner"
	case level < 25:
		return "Learning"
	case level < 50:
		return "Intermediate"
	case level < 75:
		return "Advanced"
	case level < 100:
		return "Expert"
	default:
		return "Master"
	}
}

// Categories in display order.
var CategoryOrder = []string{"ai", "programming", "foundation"}

// CategoryName maps a category key to its display label.
func CategoryName(key string) string {
	switch key {
	case "ai":
		return "AI & Machine Learning"
	case "programming":
		return "Programming"
	case "foundation":
		return "Foundations"
	default:
		return key
	}
}
