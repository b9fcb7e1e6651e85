package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pauta-cli/internal/normalize"
	"pauta-cli/internal/scrape"
)

func newScrapeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [file]",
		Short: "Extract and normalize agenda rows from a saved case page ('-' or no file: stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open page: %w", err)
				}
				defer f.Close()
				r = f
			}

			page, err := scrape.ParseCasePage(r)
			if err != nil {
				return err
			}

			hyd := normalize.NewHydrator()
			for id, p := range page.People {
				hyd.People.Put(id, p)
			}
			var entries []entryOut
			for _, row := range page.Rows {
				if e, ok := hyd.FromFormRow(row); ok {
					entries = append(entries, toEntryOut(e))
				}
			}
			return app.writeOut(cmd, map[string]any{
				"processoId": page.ProcessoID,
				"count":      len(entries),
				"entries":    entries,
			})
		},
	}
}
