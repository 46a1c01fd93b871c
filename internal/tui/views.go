package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mveldt/companion/internal/skills"
)

func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case stateMenu:
		b.WriteString(m.banner())
		b.WriteString("\n")
		b.WriteString(m.menu.View())
		if m.status != "" {
			b.WriteString("\n" + m.status + "\n")
		}
		b.WriteString("\n" + HintStyle.Render("enter select · ctrl+c quit"))

	case stateNoteEntry:
		b.WriteString(TitleStyle.Render("ADD A NOTE") + "\n\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n" + HintStyle.Render("ctrl+s save · esc cancel"))

	case stateAskInput, stateSearchInput, stateChatInput, stateDeleteInput:
		b.WriteString(PromptStyle.Render(m.outputTitle) + "\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n" + HintStyle.Render("enter confirm · esc cancel"))

	case stateWaiting:
		b.WriteString("\n " + m.spinner.View() + " " + m.waitingFor + "...\n")

	case stateOutput:
		b.WriteString(TitleStyle.Render(m.outputTitle) + "\n\n")
		b.WriteString(m.viewport.View())
		if m.status != "" {
			b.WriteString("\n" + m.status)
		}
		b.WriteString("\n" + HintStyle.Render("↑/↓ scroll · esc back"))

	case stateSkillPick:
		b.WriteString(TitleStyle.Render("MILESTONES — pick a skill") + "\n\n")
		for i, id := range m.skillIDs {
			s, _ := m.app.Ledger.Get(id)
			cursor := "  "
			if i == m.skillCursor {
				cursor = PromptStyle.Render("> ")
			}
			fmt.Fprintf(&b, "%s%-22s %s %3d%%  %s\n",
				cursor, s.Name, progressBar(s.Level, s.MaxLevel, 20), s.Level,
				HintStyle.Render(skills.LevelName(s.Level)))
		}
		b.WriteString("\n" + HintStyle.Render("enter open · esc back"))

	case stateMilestones:
		s, _ := m.app.Ledger.Get(m.pickedSkill)
		b.WriteString(TitleStyle.Render("MILESTONES — "+s.Name) + "\n")
		fmt.Fprintf(&b, "%s\n\n", StatsStyle.Render(fmt.Sprintf("level %d · %s", s.Level, skills.LevelName(s.Level))))
		thresholds := milestoneThresholds(m.app.Ledger, m.pickedSkill)
		for i, t := range thresholds {
			ms := s.Milestones[t]
			cursor := "  "
			if i == m.milestoneCursor {
				cursor = PromptStyle.Render("> ")
			}
			box := MilestoneTodoStyle.Render("[ ]")
			style := MilestoneTodoStyle
			if s.IsCompleted(t) {
				box = MilestoneDoneStyle.Render("[x]")
				style = MilestoneDoneStyle
			}
			fmt.Fprintf(&b, "%s%s %3d  %s\n", cursor, box, t, style.Render(ms.Title))
			if i == m.milestoneCursor && ms.Resource != "" {
				fmt.Fprintf(&b, "         %s\n", HintStyle.Render("→ "+ms.Resource))
			}
		}
		if m.status != "" {
			b.WriteString("\n" + m.status)
		}
		b.WriteString("\n" + HintStyle.Render("enter toggle · esc back"))
	}

	return b.String() + "\n"
}

func (m Model) banner() string {
	total, today, err := m.app.Store.CountToday()
	if err != nil {
		m.app.Log.Warn().Err(err).Msg("read notes for banner")
	}
	stats := fmt.Sprintf("%d notes · %d today · overall progress %d%%",
		total, today, m.app.Ledger.OverallProgress())

	lines := []string{
		TitleStyle.Render("AI LEARNING COMPANION"),
		StatsStyle.Render("your offline study journal"),
		"",
		StatsStyle.Render(stats),
	}
	if !m.app.OllamaUp {
		lines = append(lines, WarnStyle.Render("ollama offline — AI features degraded"))
	}
	return BannerStyle.Render(strings.Join(lines, "\n"))
}

// showNotes fills the viewport with the numbered journal.
func (m Model) showNotes() Model {
	all, err := m.app.Store.List()
	if err != nil {
		m.status = ErrStyle.Render(err.Error())
		return m
	}
	if len(all) == 0 {
		m.status = WarnStyle.Render("No notes yet. Add one to get started!")
		return m
	}
	var b strings.Builder
	for i, n := range all {
		fmt.Fprintf(&b, "%s %s\n%s\n\n",
			PromptStyle.Render(fmt.Sprintf("%d.", i+1)),
			HintStyle.Render(n.Date.Format("Mon Jan 2 15:04")),
			n.Content)
	}
	m.outputTitle = "YOUR NOTES"
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
	m.status = ""
	m.state = stateOutput
	return m
}

// showDashboard renders the per-category skill bars.
func (m Model) showDashboard() Model {
	var b strings.Builder

	total := 0
	for _, s := range m.app.Ledger.Skills {
		total += s.Level
	}
	maxTotal := len(m.app.Ledger.Skills) * skills.MaxLevel
	fmt.Fprintf(&b, "Overall: %s %d%%\n", progressBar(total, maxTotal, 30), m.app.Ledger.OverallProgress())

	for _, cat := range skills.CategoryOrder {
		var rows []string
		for _, id := range m.app.Ledger.IDs() {
			s, _ := m.app.Ledger.Get(id)
			if s.Category != cat {
				continue
			}
			rows = append(rows, fmt.Sprintf("%-22s %s %3d%%  %s",
				s.Name, progressBar(s.Level, s.MaxLevel, 20), s.Level,
				HintStyle.Render(skills.LevelName(s.Level))))
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString("\n" + CategoryStyle.Render(skills.CategoryName(cat)) + "\n")
		b.WriteString(strings.Join(rows, "\n") + "\n")
	}

	weak := m.app.Ledger.Weakest(3)
	if len(weak) > 0 {
		b.WriteString("\n" + CategoryStyle.Render("Needs attention") + "\n")
		for _, id := range weak {
			s, _ := m.app.Ledger.Get(id)
			next := "all milestones done"
			for _, t := range milestoneThresholds(m.app.Ledger, id) {
				if !s.IsCompleted(t) {
					next = fmt.Sprintf("next: %s", s.Milestones[t].Title)
					break
				}
			}
			fmt.Fprintf(&b, "%-22s %s\n", s.Name, HintStyle.Render(next))
		}
	}

	m.outputTitle = "SKILL DASHBOARD"
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
	m.status = ""
	m.state = stateOutput
	return m
}

func (m Model) showAnswer(msg aiAnswerMsg) Model {
	if msg.err != nil {
		m.status = WarnStyle.Render("AI unavailable: " + msg.err.Error())
		m.app.Log.Warn().Err(msg.err).Msg("ai request failed")
		m.state = stateMenu
		return m
	}
	m.outputTitle = msg.title
	m.viewport.SetContent(m.renderMarkdown(msg.answer))
	m.viewport.GotoTop()
	m.status = ""
	m.state = stateOutput
	return m
}

func (m Model) showSearchResults(msg searchResultsMsg) Model {
	if msg.err != nil {
		m.status = WarnStyle.Render("Semantic search unavailable: " + msg.err.Error())
		m.app.Log.Warn().Err(msg.err).Msg("semantic search failed")
		m.state = stateMenu
		return m
	}
	var b strings.Builder
	if len(msg.results) == 0 {
		b.WriteString("Nothing found.\n")
	}
	for i, r := range msg.results {
		score := ScoreStyle.Render(fmt.Sprintf("%.0f%% match", r.Score))
		if msg.keyword {
			score = HintStyle.Render("keyword match")
		}
		fmt.Fprintf(&b, "%s %s\n%s\n\n",
			PromptStyle.Render(fmt.Sprintf("%d.", i+1)), score, r.Document)
	}
	m.outputTitle = fmt.Sprintf("SEARCH — %q", msg.query)
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
	m.status = ""
	if msg.keyword {
		m.status = HintStyle.Render("Vector store offline, matched by keyword.")
	}
	m.state = stateOutput
	return m
}

func (m Model) showNoteAdded(msg noteAddedMsg) Model {
	var b strings.Builder
	b.WriteString(OKStyle.Render("Note saved!") + "\n\n")

	if len(msg.detections) == 0 {
		b.WriteString(HintStyle.Render("No skills detected in this note.") + "\n")
	} else {
		b.WriteString("Skills practiced:\n")
		for _, d := range msg.detections {
			s, ok := m.app.Ledger.Get(d.SkillID)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  %-22s +%d XP → %s %d%%\n",
				s.Name, d.XP, progressBar(s.Level, s.MaxLevel, 20), s.Level)
		}
	}
	if msg.fallback {
		b.WriteString("\n" + WarnStyle.Render("AI offline — used keyword detection.") + "\n")
	}
	if msg.indexErr != nil {
		b.WriteString(WarnStyle.Render("Note not indexed for semantic search: "+msg.indexErr.Error()) + "\n")
	}

	m.outputTitle = "NOTE SAVED"
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
	m.status = ""
	m.state = stateOutput
	return m
}

func (m Model) renderMarkdown(s string) string {
	if m.renderer == nil {
		return s
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return out
}

func milestoneThresholds(l *skills.Ledger, id string) []int {
	s, ok := l.Get(id)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(s.Milestones))
	for t := range s.Milestones {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func progressBar(current, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := current * width / max
	if filled > width {
		filled = width
	}
	return BarFilledStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", width-filled))
}
