package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/docs"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	return RunDiscover(g.out(), cfg)
}

// RunDiscover prints the documents of the entry directory grouped by category.
func RunDiscover(w io.Writer, cfg *config.Config) error {
	entry := cfg.EntryDir()
	documents, err := docs.Discover(entry)
	if err != nil {
		return err
	}
	files, err := docs.CountFiles(entry)
	if err != nil {
		slog.Warn("Counting entry files failed", slog.String("path", entry), slog.Any("error", err))
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d documents in %s (%d files)", len(documents), entry, files)))

	groups := docs.GroupByCategory(documents)
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		members := groups[c]
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		_, _ = fmt.Fprintln(w, categoryStyle.Render(c)+" "+countStyle.Render(fmt.Sprintf("(%d)", len(members))))
		for _, doc := range members {
			rel, err := filepath.Rel(entry, doc.Path)
			if err != nil {
				rel = doc.Path
			}
			_, _ = fmt.Fprintln(w, itemStyle.Render(rel+" -> "+filepath.ToSlash(filepath.Join(c, doc.OutputName()))))
		}
	}
	return nil
}
