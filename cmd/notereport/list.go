package main

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"editor-note/internal/auth"
	"editor-note/internal/service"
	"editor-note/internal/storage"
)

var (
	listUser string
	listJSON bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents that contain editor notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, db, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		user, err := storage.NewUserRepo(db).GetByLogin(ctx, listUser)
		if err != nil {
			return fmt.Errorf("look up user %q: %w", listUser, err)
		}
		principal := &auth.Principal{
			UserID:       user.ID,
			Login:        user.Login,
			Name:         user.DisplayName,
			Capabilities: user.Capabilities,
		}

		report, err := service.NewReportService(storage.NewDocumentRepo(db)).BuildReport(ctx, principal)
		if err != nil {
			return err
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report.Rows)
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, service.DisplayLayout{
			DateFormat: cfg.DateFormat,
			TimeFormat: cfg.TimeFormat,
			Location:   cfg.Location,
		}))
		return nil
	},
}

// renderReport draws report as a terminal table.
func renderReport(report service.Report, layout service.DisplayLayout) string {
	if report.Empty() {
		return mutedStyle.Render("No editor notes found.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Title", "Notes", "Author", "Last Modified").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range report.Rows {
		modified := layout.Format(row.Modified)
		last := modified.Date + " at " + modified.Time
		if row.ModifiedBy != "" {
			last += "\nby " + row.ModifiedBy
		}
		notes := make([]string, len(row.Notes))
		for i, n := range row.Notes {
			notes[i] = "- " + n
		}
		t.Row(html.UnescapeString(row.Title), strings.Join(notes, "\n"), row.Author, last)
	}
	return t.String()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listUser, "user", "u", "", "Login of the user viewing the report")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	_ = listCmd.MarkFlagRequired("user")
}
