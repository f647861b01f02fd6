package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/review"
	"github.com/poolreview/poolreview/pkg/vcs"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listChangedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeCommand creates the tree command for browsing the closure interactively.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		diffPath    string
		changesPath string
	)

	cmd := &cobra.Command{
		Use:   "tree [pool directory]",
		Short: "Browse the dependency closure of a change set interactively",
		Long: `Browse the dependency closure of a change set interactively.

The tree command computes the same closure the review report is built
from and presents it as a navigable list. Records that are part of the
change set are highlighted. Selecting a record prints its identity and
pool path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (diffPath == "") == (changesPath == "") {
				return fmt.Errorf("need exactly one of --diff or --changes")
			}
			return c.runTree(cmd.Context(), args[0], diffPath, changesPath)
		},
	}

	cmd.Flags().StringVar(&diffPath, "diff", "", "unified diff describing the change set")
	cmd.Flags().StringVar(&changesPath, "changes", "", "git name-status listing describing the change set")

	return cmd
}

// runTree computes the closure and hands it to the bubbletea browser.
func (c *CLI) runTree(ctx context.Context, poolDir, diffPath, changesPath string) error {
	prog := newProgress(loggerFromContext(ctx))
	p, err := pool.Load(poolDir)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	entries, err := readChangeFile(diffPath, changesPath)
	if err != nil {
		return err
	}
	rev := review.Run(p, entries)
	prog.done(fmt.Sprintf("Computed closure of %d records", len(rev.Closure.Nodes)))

	if len(rev.Closure.Nodes) == 0 {
		printWarning("Change set produced an empty closure")
		return nil
	}

	model := newClosureModel(rev.Closure)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("tree browser: %w", err)
	}

	if m, ok := final.(closureModel); ok && m.Selected != nil {
		printSelection(p, *m.Selected)
	}
	return nil
}

// readChangeFile loads change entries from whichever path is set.
func readChangeFile(diffPath, changesPath string) ([]vcs.Entry, error) {
	if diffPath != "" {
		f, err := os.Open(diffPath)
		if err != nil {
			return nil, fmt.Errorf("open diff: %w", err)
		}
		defer f.Close()
		return vcs.ReadUnifiedDiff(f)
	}
	f, err := os.Open(changesPath)
	if err != nil {
		return nil, fmt.Errorf("open changes: %w", err)
	}
	defer f.Close()
	return vcs.ReadNameStatus(f)
}

// printSelection prints the details of the chosen closure node.
func printSelection(p *pool.Pool, n review.Node) {
	printNewline()
	printKeyValue("Type", n.Ref.Type.Display())
	printKeyValue("Name", n.Name)
	if n.Ref.Type != pool.TypeModel {
		printKeyValue("UUID", n.Ref.UUID.String())
	}
	if path, ok := p.Path(n.Ref); ok {
		printKeyValue("Path", path)
	}
	if n.InChange {
		printKeyValue("Changed", "yes")
	}
}

// =============================================================================
// closureModel - Interactive closure browsing
// =============================================================================

// closureModel is the bubbletea model for the closure browser.
type closureModel struct {
	Nodes    []review.Node
	Warnings int
	Cursor   int
	Selected *review.Node
	Height   int
	Offset   int
}

// newClosureModel creates a browser over the closure's display tree.
func newClosureModel(c *review.Closure) closureModel {
	return closureModel{
		Nodes:    c.Nodes,
		Warnings: len(c.Warnings),
		Height:   15,
	}
}

func (m closureModel) Init() tea.Cmd {
	return nil
}

func (m closureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			node := m.Nodes[m.Cursor]
			m.Selected = &node
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m closureModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dependency Closure"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		indent := strings.Repeat("  ", n.Depth)
		line := fmt.Sprintf("%s%s%s %s", cursor, indent, n.Ref.Type.Display(), n.Name)

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case n.InChange:
			b.WriteString(listChangedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	if m.Warnings > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d warnings", m.Warnings)))
	}

	return b.String()
}
