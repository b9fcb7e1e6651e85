package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pauta-cli/internal/api"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
)

func newSupervisionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supervision",
		Short: "Act on supervision reviews",
	}
	cmd.AddCommand(newSupervisionStatusCmd(app))
	cmd.AddCommand(newSupervisionBarrarCmd(app))
	return cmd
}

// resolveSupervision finds the supervision behind an "s-<id>" ref so commands
// can address the mutation endpoints, which key on (analise, source, index)
// rather than the entry id.
func resolveSupervision(ctx context.Context, client *api.Client, ref string) (model.AgendaEntry, error) {
	typ, backendID, err := parseEntryRef(ref)
	if err != nil {
		return model.AgendaEntry{}, err
	}
	if typ != model.EntrySupervision {
		return model.AgendaEntry{}, fmt.Errorf("entry ref %q is not a supervision", ref)
	}
	hyd := normalize.NewHydrator()
	for _, status := range []api.Status{api.StatusPending, api.StatusCompleted} {
		raw, err := client.Entries(ctx, status)
		if err != nil {
			return model.AgendaEntry{}, err
		}
		for _, r := range raw {
			e, ok := hyd.FromAPIEntry(r)
			if !ok {
				continue
			}
			if e.Type == model.EntrySupervision && e.BackendID == backendID {
				return e, nil
			}
		}
	}
	return model.AgendaEntry{}, fmt.Errorf("supervision %q not found", ref)
}

func newSupervisionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <entry-ref>",
		Short: "Advance a supervision's approval status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			e, err := resolveSupervision(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			result, err := client.AdvanceSupervisionStatus(cmd.Context(), e.AnaliseID, e.Source, e.Index)
			if err != nil {
				return err
			}
			return app.writeOut(cmd, map[string]any{
				"ok":          true,
				"entry":       e.ID,
				"status":      result.SupervisorStatus,
				"statusLabel": result.StatusLabel,
			})
		},
	}
}

func newSupervisionBarrarCmd(app *App) *cobra.Command {
	var retorno string
	var liberar bool

	cmd := &cobra.Command{
		Use:   "barrar <entry-ref>",
		Short: "Block a supervision (or unblock with --liberar), optionally with a resume date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			e, err := resolveSupervision(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}

			var retornoISO string
			if retorno != "" {
				d, ok := brfmt.ParseDate(retorno)
				if !ok {
					return fmt.Errorf("retorno %q: want DD/MM/YYYY or YYYY-MM-DD", retorno)
				}
				retornoISO = d.ISO()
			}
			active := !liberar
			barrado, err := client.SetBarrado(cmd.Context(), e.AnaliseID, e.Source, e.Index, &active, retornoISO)
			if err != nil {
				return err
			}
			return app.writeOut(cmd, map[string]any{
				"ok":      true,
				"entry":   e.ID,
				"barrado": barrado,
			})
		},
	}
	cmd.Flags().StringVar(&retorno, "retorno", "", "Resume date (DD/MM/YYYY or ISO)")
	cmd.Flags().BoolVar(&liberar, "liberar", false, "Unblock instead of block")
	return cmd
}
