package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed about.md
var aboutText string

// aboutCmd explains the algorithm
var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Explain cumulative selection",
	Args:  cobra.NoArgs,
	RunE:  runAbout,
}

func runAbout(cmd *cobra.Command, args []string) error {
	out, err := renderAbout(noColor, 80)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func renderAbout(plain bool, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStylePath("notty")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return renderer.Render(aboutText)
}

func init() {
	aboutCmd.Flags().BoolVar(&noColor, "no-color", false, "Render without ANSI styling")
}
