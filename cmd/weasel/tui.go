package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"weasel/cmd/weasel/ui"
	"weasel/internal/logging"
)

var autoStart bool

// tuiCmd launches the interactive front end
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Evolve interactively in a full-screen terminal UI",
	Long: `Opens a terminal UI showing the target, the best candidate with
mismatches highlighted, and a progress bar. The sentence, mutation rate and
copy count can be changed while it runs.

Logs go to --log-file when given and are discarded otherwise.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer flushTracing()

	c, err := buildChromosome(cfg)
	if err != nil {
		return err
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	model := ui.NewModel(c, ui.Options{
		TickInterval: cfg.GetTickInterval(),
		RateStep:     cfg.UI.RateStep,
		CopiesStep:   cfg.UI.CopiesStep,
		MaxCopies:    cfg.UI.MaxCopies,
		AutoStart:    autoStart,
		Styles:       &styles,
	})

	logging.UI("starting terminal UI")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
