// Package tui is the interactive menu loop: one user-driven action in
// flight at a time, every gateway and store call awaited to completion
// before the next menu draw.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/mveldt/companion/internal/assist"
	"github.com/mveldt/companion/internal/notes"
	"github.com/mveldt/companion/internal/skills"
	"github.com/mveldt/companion/internal/vecindex"
)

// App bundles the collaborators the menu drives. Index may be nil when
// semantic search is unconfigured.
type App struct {
	Store     *notes.Store
	Ledger    *skills.Ledger
	Detector  *skills.Detector
	Assistant *assist.Assistant
	Index     *vecindex.Index
	Log       zerolog.Logger
	ModelName string
	OllamaUp  bool
}

type state int

const (
	stateMenu state = iota
	stateNoteEntry
	stateAskInput
	stateSearchInput
	stateChatInput
	stateDeleteInput
	stateWaiting
	stateOutput
	stateSkillPick
	stateMilestones
)

type menuItem struct {
	title, desc string
	action      state
	id          string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type Model struct {
	app    App
	state  state
	width  int
	height int

	menu     list.Model
	textarea textarea.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	status      string
	waitingFor  string
	outputTitle string

	skillIDs        []string
	skillCursor     int
	pickedSkill     string
	milestoneCursor int
}

// Result messages from async commands.
type aiAnswerMsg struct {
	title  string
	answer string
	err    error
}

type searchResultsMsg struct {
	query   string
	results []vecindex.Result
	keyword bool
	err     error
}

type noteAddedMsg struct {
	note       notes.Note
	detections []skills.Detection
	fallback   bool
	indexErr   error
}

func NewModel(app App) Model {
	items := []list.Item{
		menuItem{title: "Add a note", desc: "journal what you learned", action: stateNoteEntry, id: "add"},
		menuItem{title: "View notes", desc: "browse the journal", action: stateOutput, id: "view"},
		menuItem{title: "Semantic search", desc: "find notes by meaning", action: stateSearchInput, id: "search"},
		menuItem{title: "Ask about your notes", desc: "AI answers from the journal", action: stateAskInput, id: "ask"},
		menuItem{title: "AI summary", desc: "what have I been learning?", action: stateWaiting, id: "summary"},
		menuItem{title: "Chat", desc: "talk to the local model", action: stateChatInput, id: "chat"},
		menuItem{title: "Skill dashboard", desc: "levels and progress bars", action: stateOutput, id: "skills"},
		menuItem{title: "Milestones", desc: "tick off learning checkpoints", action: stateSkillPick, id: "milestones"},
		menuItem{title: "Delete a note", desc: "remove a journal entry", action: stateDeleteInput, id: "delete"},
		menuItem{title: "Quit", desc: "see you tomorrow", action: stateMenu, id: "quit"},
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Green).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Green).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(DarkGreen)

	l := list.New(items, d, 44, 24)
	l.Title = "What would you like to do?"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	ta := textarea.New()
	ta.Placeholder = "What did you learn today?"
	ta.SetWidth(70)
	ta.SetHeight(5)

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 70

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    spinner.Dot.FPS,
	}
	sp.Style = lipgloss.NewStyle().Foreground(Green)

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)

	return Model{
		app:      app,
		state:    stateMenu,
		menu:     l,
		textarea: ta,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		renderer: renderer,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = min(msg.Width-2, 100)
		m.viewport.Height = max(msg.Height-8, 5)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case aiAnswerMsg:
		return m.showAnswer(msg), nil

	case searchResultsMsg:
		return m.showSearchResults(msg), nil

	case noteAddedMsg:
		return m.showNoteAdded(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		return m.updateMenu(msg)
	case stateNoteEntry:
		return m.updateNoteEntry(msg)
	case stateAskInput, stateSearchInput, stateChatInput, stateDeleteInput:
		return m.updateInput(msg)
	case stateOutput:
		if msg.String() == "esc" || msg.String() == "q" || msg.String() == "enter" {
			m.state = stateMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case stateSkillPick:
		return m.updateSkillPick(msg)
	case stateMilestones:
		return m.updateMilestones(msg)
	case stateWaiting:
		// An external call is in flight; only ctrl+c gets out.
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		m.status = ""
		switch item.id {
		case "quit":
			return m, tea.Quit
		case "add":
			m.state = stateNoteEntry
			m.textarea.Reset()
			return m, m.textarea.Focus()
		case "view":
			return m.showNotes(), nil
		case "skills":
			return m.showDashboard(), nil
		case "summary":
			m.state = stateWaiting
			m.waitingFor = "Summarizing your journal"
			return m, tea.Batch(m.spinner.Tick, m.summaryCmd())
		case "search":
			prompt := "Search your notes by meaning:"
			if m.app.Index == nil {
				prompt = "Search your notes by keyword:"
			}
			return m.promptInput(stateSearchInput, prompt), nil
		case "ask":
			return m.promptInput(stateAskInput, "Ask a question about your notes:"), nil
		case "chat":
			return m.promptInput(stateChatInput, "Say something to "+m.app.ModelName+":"), nil
		case "delete":
			return m.promptInput(stateDeleteInput, "Note number to delete:"), nil
		case "milestones":
			m.state = stateSkillPick
			m.skillIDs = m.app.Ledger.IDs()
			m.skillCursor = 0
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) promptInput(s state, prompt string) Model {
	m.state = s
	m.outputTitle = prompt
	m.input.Reset()
	m.input.Focus()
	return m
}

func (m Model) updateNoteEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateMenu
		return m, nil
	case "ctrl+d", "ctrl+s":
		content := strings.TrimSpace(m.textarea.Value())
		if content == "" {
			m.state = stateMenu
			return m, nil
		}
		m.state = stateWaiting
		m.waitingFor = "Saving note and detecting skills"
		return m, tea.Batch(m.spinner.Tick, m.addNoteCmd(content))
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateMenu
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.state = stateMenu
			return m, nil
		}
		switch m.state {
		case stateAskInput:
			m.state = stateWaiting
			m.waitingFor = "Thinking"
			return m, tea.Batch(m.spinner.Tick, m.askCmd(value))
		case stateSearchInput:
			m.state = stateWaiting
			m.waitingFor = "Searching by similarity"
			return m, tea.Batch(m.spinner.Tick, m.searchCmd(value))
		case stateChatInput:
			m.state = stateWaiting
			m.waitingFor = "Thinking"
			return m, tea.Batch(m.spinner.Tick, m.chatCmd(value))
		case stateDeleteInput:
			return m.deleteNote(value), nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSkillPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.state = stateMenu
	case "up", "k":
		if m.skillCursor > 0 {
			m.skillCursor--
		}
	case "down", "j":
		if m.skillCursor < len(m.skillIDs)-1 {
			m.skillCursor++
		}
	case "enter":
		m.pickedSkill = m.skillIDs[m.skillCursor]
		m.milestoneCursor = 0
		m.status = ""
		m.state = stateMilestones
	}
	return m, nil
}

func (m Model) updateMilestones(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	thresholds := milestoneThresholds(m.app.Ledger, m.pickedSkill)
	switch msg.String() {
	case "esc", "q":
		m.state = stateSkillPick
		m.status = ""
	case "up", "k":
		if m.milestoneCursor > 0 {
			m.milestoneCursor--
		}
	case "down", "j":
		if m.milestoneCursor < len(thresholds)-1 {
			m.milestoneCursor++
		}
	case "enter", " ":
		if len(thresholds) == 0 {
			break
		}
		t := thresholds[m.milestoneCursor]
		s, _ := m.app.Ledger.Get(m.pickedSkill)
		var err error
		if s.IsCompleted(t) {
			err = m.app.Ledger.UncompleteMilestone(m.pickedSkill, t)
		} else {
			err = m.app.Ledger.CompleteMilestone(m.pickedSkill, t)
		}
		switch err {
		case nil:
			m.status = OKStyle.Render(fmt.Sprintf("Level is now %d", s.Level))
		case skills.ErrAlreadyCompleted:
			m.status = WarnStyle.Render("Already completed.")
		case skills.ErrNotCompleted:
			m.status = WarnStyle.Render("Not completed yet.")
		case skills.ErrInvalidMilestone:
			m.status = ErrStyle.Render("No such milestone.")
		default:
			m.status = ErrStyle.Render("Save failed: " + err.Error())
			m.app.Log.Error().Err(err).Msg("persist ledger")
		}
	}
	return m, nil
}

// --- commands -----------------------------------------------------------

func (m Model) addNoteCmd(content string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		ctx := context.Background()

		note, err := app.Store.Add(content)
		if err != nil {
			return aiAnswerMsg{title: "Add note", err: err}
		}
		app.Log.Info().Int64("note", note.ID).Msg("note added")

		dets, fallback := app.Detector.DetectVerbose(ctx, content)
		for _, d := range dets {
			if _, _, err := app.Ledger.GrantXP(d.SkillID, d.XP); err != nil {
				app.Log.Warn().Err(err).Str("skill", d.SkillID).Msg("grant xp")
			}
		}

		// Indexing is best-effort: a dead embedder or vector store must
		// never block note creation.
		var indexErr error
		if app.Index != nil {
			indexErr = app.Index.Upsert(ctx, strconv.FormatInt(note.ID, 10), content)
			if indexErr != nil {
				app.Log.Warn().Err(indexErr).Msg("index note")
			}
		}

		return noteAddedMsg{note: note, detections: dets, fallback: fallback, indexErr: indexErr}
	}
}

func (m Model) askCmd(question string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		answer, err := app.Assistant.Ask(context.Background(), question)
		return aiAnswerMsg{title: "Answer", answer: answer, err: err}
	}
}

func (m Model) summaryCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		answer, err := app.Assistant.Summarize(context.Background())
		return aiAnswerMsg{title: "Summary", answer: answer, err: err}
	}
}

func (m Model) chatCmd(message string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		answer, err := app.Assistant.Chat(context.Background(), message)
		return aiAnswerMsg{title: "Chat", answer: answer, err: err}
	}
}

// searchCmd retrieves by similarity when the vector index is up and falls
// back to plain keyword matching when it is not.
func (m Model) searchCmd(query string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		if app.Index == nil {
			hits, err := app.Store.Search(query)
			results := make([]vecindex.Result, 0, len(hits))
			for _, n := range hits {
				results = append(results, vecindex.Result{Document: n.Content})
			}
			return searchResultsMsg{query: query, results: results, keyword: true, err: err}
		}
		results, err := app.Assistant.SemanticSearch(context.Background(), query)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (m Model) deleteNote(value string) Model {
	idx, err := strconv.Atoi(value)
	if err != nil {
		m.status = ErrStyle.Render("Enter the note number shown in the list.")
		m.state = stateMenu
		return m
	}
	removed, err := m.app.Store.Delete(idx - 1)
	if err != nil {
		m.status = ErrStyle.Render(err.Error())
		m.state = stateMenu
		return m
	}
	preview := removed.Content
	if len(preview) > 40 {
		preview = preview[:40] + "..."
	}
	m.status = OKStyle.Render("Deleted: " + preview)
	m.state = stateMenu
	return m
}
