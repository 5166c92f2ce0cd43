package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sandevgo/dazi/internal/service/ui"
)

var errCancelled = errors.New("model selection cancelled")

type item struct {
	id    string
	index int
}

func (i item) Title() string       { return i.id }
func (i item) Description() string { return fmt.Sprintf("#%d", i.index+1) }
func (i item) FilterValue() string { return i.id }

type listModel struct {
	list      list.Model
	chosen    string
	cancelled bool
}

func newListModel(models []string, width, height int) listModel {
	items := make([]list.Item, 0, len(models))
	for i, m := range models {
		items = append(items, item{id: m, index: i})
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "检测到多个可用模型，请选择："
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle

	return listModel{list: l}
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "esc":
			if m.list.FilterState() == list.Unfiltered {
				m.cancelled = true
				return m, tea.Quit
			}

		case "enter":
			if m.list.FilterState() == list.Filtering {
				break
			}
			if i, ok := m.list.SelectedItem().(item); ok {
				m.chosen = i.id
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) View() string {
	return m.list.View()
}

// ListChooser shows an interactive, filterable model list.
type ListChooser struct {
	in  io.Reader
	out io.Writer
}

func NewListChooser(in io.Reader, out io.Writer) *ListChooser {
	return &ListChooser{in: in, out: out}
}

func (c *ListChooser) Choose(ctx context.Context, models []string) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models to choose from")
	}

	p := tea.NewProgram(
		newListModel(models, 80, 20),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m := final.(listModel)
	if m.cancelled || m.chosen == "" {
		return "", errCancelled
	}
	return m.chosen, nil
}

// NewChooser picks the interactive list on a terminal and the numbered
// prompt otherwise.
func NewChooser(in, out *os.File) Chooser {
	if isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()) {
		return NewListChooser(in, out)
	}
	return NewPromptChooser(in, out)
}
