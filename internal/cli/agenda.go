package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pauta-cli/internal/api"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
)

// entryOut is the JSON shape of one normalized entry. Dates are carried as
// ISO strings here; model.AgendaEntry keeps them as civil dates.
type entryOut struct {
	ID           string `json:"id"`
	BackendID    int64  `json:"backendId,omitempty"`
	Type         string `json:"type"`
	TypeLabel    string `json:"typeLabel"`
	Date         string `json:"date"`
	OriginalDate string `json:"originalDate,omitempty"`

	Description string `json:"description,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Priority    string `json:"priority,omitempty"`

	Responsavel    *model.Responsavel `json:"responsavel,omitempty"`
	ProcessoID     int64              `json:"processoId,omitempty"`
	NumeroProcesso string             `json:"numeroProcesso,omitempty"`
	Nome           string             `json:"nome,omitempty"`
	CPF            string             `json:"cpf,omitempty"`

	ContractNumbers []string       `json:"contractNumbers,omitempty"`
	ValorCausa      string         `json:"valorCausa,omitempty"`
	SaldoAtualizado string         `json:"saldoAtualizado,omitempty"`
	Custas          string         `json:"custas,omitempty"`
	PrescricaoDate  string         `json:"prescricaoDate,omitempty"`
	StatusLabel     string         `json:"statusLabel,omitempty"`
	Barrado         *model.Barrado `json:"barrado,omitempty"`
	Analyst         string         `json:"analyst,omitempty"`
	Notes           string         `json:"notes,omitempty"`

	Expired   bool `json:"expired,omitempty"`
	Completed bool `json:"completed,omitempty"`
}

func toEntryOut(e model.AgendaEntry) entryOut {
	out := entryOut{
		ID:              e.ID,
		BackendID:       e.BackendID,
		Type:            string(e.Type),
		TypeLabel:       e.Type.Label(),
		Date:            e.Date.ISO(),
		Description:     e.Description,
		Detail:          e.Detail,
		Priority:        e.Priority,
		Responsavel:     e.Responsavel,
		ProcessoID:      e.ProcessoID,
		NumeroProcesso:  e.NumeroProcesso,
		Nome:            e.Nome,
		CPF:             e.CPF,
		ContractNumbers: e.ContractNumbers,
		PrescricaoDate:  e.PrescricaoDate.ISO(),
		StatusLabel:     e.StatusLabel,
		Barrado:         e.Barrado,
		Analyst:         e.Analyst,
		Notes:           e.Notes,
		Expired:         e.Expired,
		Completed:       e.Completed,
	}
	if !e.OriginalDate.IsZero() && !e.OriginalDate.Equal(e.Date) {
		out.OriginalDate = e.OriginalDate.ISO()
	}
	if e.ValorCausa != 0 {
		out.ValorCausa = brfmt.FormatBRL(e.ValorCausa)
	}
	if e.SaldoAtualizado != 0 {
		out.SaldoAtualizado = brfmt.FormatBRL(e.SaldoAtualizado)
	}
	if e.Custas != 0 {
		out.Custas = brfmt.FormatBRL(e.Custas)
	}
	return out
}

func newAgendaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List and reschedule agenda entries",
	}
	cmd.AddCommand(newAgendaListCmd(app))
	cmd.AddCommand(newAgendaUsersCmd(app))
	cmd.AddCommand(newAgendaMoveCmd(app))
	return cmd
}

func newAgendaListCmd(app *App) *cobra.Command {
	var statusFlag string
	var userID int64
	var processoID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List normalized agenda entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := api.Status(statusFlag)
			if status != api.StatusPending && status != api.StatusCompleted {
				return fmt.Errorf("status %q: want pending or completed", statusFlag)
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			raw, err := client.Entries(cmd.Context(), status)
			if err != nil {
				return err
			}

			hyd := normalize.NewHydrator()
			var out []entryOut
			for _, r := range raw {
				e, ok := hyd.FromAPIEntry(r)
				if !ok {
					continue
				}
				if userID != 0 && e.Type != model.EntrySupervision {
					if e.Responsavel == nil || e.Responsavel.ID != userID {
						continue
					}
				}
				if processoID != 0 && e.ProcessoID != processoID {
					continue
				}
				out = append(out, toEntryOut(e))
			}
			return app.writeOut(cmd, map[string]any{
				"status":  string(status),
				"count":   len(out),
				"entries": out,
			})
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "pending", "Status filter (pending|completed)")
	cmd.Flags().Int64Var(&userID, "user", 0, "Only entries assigned to this user id (supervisions always pass)")
	cmd.Flags().Int64Var(&processoID, "processo", 0, "Only entries of this processo id")
	return cmd
}

func newAgendaUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Per-user pending/completed summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			users, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeOut(cmd, map[string]any{
				"count": len(users),
				"users": users,
			})
		},
	}
}

func newAgendaMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <entry-ref> <date>",
		Short: "Reschedule a task or prazo (date: DD/MM/YYYY or ISO)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, backendID, err := parseEntryRef(args[0])
			if err != nil {
				return err
			}
			if typ == model.EntrySupervision {
				return fmt.Errorf("supervision placement is a working view; there is no date endpoint")
			}
			target, ok := brfmt.ParseDate(args[1])
			if !ok {
				return fmt.Errorf("date %q: want DD/MM/YYYY or YYYY-MM-DD", args[1])
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.UpdateDate(cmd.Context(), typ, backendID, target); err != nil {
				return err
			}
			return app.writeOut(cmd, map[string]any{
				"ok":    true,
				"entry": args[0],
				"date":  target.ISO(),
			})
		},
	}
}
