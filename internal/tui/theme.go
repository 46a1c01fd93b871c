package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	MedGreen    = lipgloss.Color("#00C832")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#003B00")
	Cyan        = lipgloss.Color("#00D4AA")
	Amber       = lipgloss.Color("#FFB000")
	Red         = lipgloss.Color("#FF4136")
	Black       = lipgloss.Color("#0D0208")
	MidGray     = lipgloss.Color("#3a3a4e")
	LightGray   = lipgloss.Color("#aaaaaa")
	White       = lipgloss.Color("#e0e0e0")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Green).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 2)

	StatsStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	PromptStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(White)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ErrStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
			Foreground(BrightGreen)

	HintStyle = lipgloss.NewStyle().
			Foreground(MidGray)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	BarFilledStyle = lipgloss.NewStyle().Foreground(Green)
	BarEmptyStyle  = lipgloss.NewStyle().Foreground(DimGreen)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true).
			Underline(true)

	MilestoneDoneStyle = lipgloss.NewStyle().Foreground(MedGreen)
	MilestoneTodoStyle = lipgloss.NewStyle().Foreground(LightGray)
)
