package model

import (
	"strconv"

	"pauta-cli/internal/brfmt"
)

// EntryType is the agenda entry kind, using the backend's single-letter codes.
type EntryType string

const (
	EntryTask        EntryType = "T"
	EntryPrazo       EntryType = "P"
	EntrySupervision EntryType = "S"
)

func (t EntryType) Valid() bool {
	return t == EntryTask || t == EntryPrazo || t == EntrySupervision
}

// Label returns the pt-BR display name used across the panel.
func (t EntryType) Label() string {
	switch t {
	case EntryTask:
		return "Tarefa"
	case EntryPrazo:
		return "Prazo"
	case EntrySupervision:
		return "Supervisão"
	}
	return string(t)
}

type Responsavel struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r Responsavel) DisplayName() string {
	if r.FirstName != "" {
		if r.LastName != "" {
			return r.FirstName + " " + r.LastName
		}
		return r.FirstName
	}
	return r.Username
}

// Barrado is the blocked/on-hold sub-state of a supervision review.
type Barrado struct {
	Ativo     bool   `json:"ativo"`
	Inicio    string `json:"inicio,omitempty"`     // ISO date the block started
	RetornoEm string `json:"retorno_em,omitempty"` // ISO date the review resumes
}

// AgendaEntry is the panel's uniform record for tasks, prazos and
// supervision reviews, regardless of which source produced it.
type AgendaEntry struct {
	// ID is locally unique: "t-<backend id>", "p-<id>", "s-<id>" once
	// persisted, or a position-stable "t-row-<index>" for unsaved form rows.
	ID        string    `json:"id"`
	BackendID int64     `json:"backendId,omitempty"`
	Type      EntryType `json:"type"`

	// Date is the current calendar placement; OriginalDate the first-known
	// one, preserved across moves for the history view.
	Date         brfmt.Date `json:"-"`
	OriginalDate brfmt.Date `json:"-"`

	Description string `json:"description,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Priority    string `json:"priority,omitempty"`

	Responsavel *Responsavel `json:"responsavel,omitempty"`
	ProcessoID  int64        `json:"processoId,omitempty"`
	// NumeroProcesso is the CNJ case number, masked for display.
	NumeroProcesso string `json:"numeroProcesso,omitempty"`

	// Person metadata for the linked case (hydrated from the entry itself or
	// from the case-summary cache).
	Nome string `json:"nome,omitempty"`
	CPF  string `json:"cpf,omitempty"`

	// Supervision-only fields.
	ContractNumbers []string   `json:"contractNumbers,omitempty"`
	ValorCausa      float64    `json:"valorCausa,omitempty"`
	SaldoAtualizado float64    `json:"saldoAtualizado,omitempty"`
	Custas          float64    `json:"custas,omitempty"`
	PrescricaoDate  brfmt.Date `json:"-"`
	StatusLabel     string     `json:"statusLabel,omitempty"`
	Barrado         *Barrado   `json:"barrado,omitempty"`
	AnaliseID       int64      `json:"analiseId,omitempty"`
	Source          string     `json:"source,omitempty"`
	Index           int        `json:"index,omitempty"`
	Analyst         string     `json:"analyst,omitempty"`
	Notes           string     `json:"notes,omitempty"`

	// Expired is true when the statute-of-limitations date has passed.
	Expired   bool `json:"expired,omitempty"`
	Completed bool `json:"completed,omitempty"`

	// FromAPI marks the entry's source for reconciliation precedence.
	FromAPI bool `json:"-"`
}

// Key is the reconciliation identity: (type, backend id) once the record
// exists server-side, otherwise the local id.
func (e AgendaEntry) Key() string {
	if e.BackendID != 0 {
		return string(e.Type) + "#" + strconv.FormatInt(e.BackendID, 10)
	}
	return "local#" + e.ID
}

// MoveBlocked reports whether placing the entry on target violates the
// supervision prescricao rule (target on or past the prescricao date).
func (e AgendaEntry) MoveBlocked(target brfmt.Date) bool {
	if e.Type != EntrySupervision || e.PrescricaoDate.IsZero() {
		return false
	}
	return !target.Before(e.PrescricaoDate)
}

// RawFormRow is one repeated inline-form row scraped from the
// server-rendered case page (tarefas or prazos group).
type RawFormRow struct {
	Kind        EntryType // EntryTask or EntryPrazo
	Index       int
	BackendID   int64
	Date        string // as typed: BR slash form or ISO
	Description string
	Detail      string
	Priority    string
	Responsavel *Responsavel
	ProcessoID  int64
	Nome        string
	CPF         string
	Done        bool
	Deleted     bool
}

// RawAPIEntry is one element of the read endpoint's JSON array.
//
// Money fields arrive as strings in the back office's display form; the
// normalizer runs them through brfmt.NormalizeCurrency.
type RawAPIEntry struct {
	ID              int64        `json:"id"`
	Type            string       `json:"type"`
	Date            string       `json:"date"`
	DataLimite      string       `json:"data_limite"`
	OriginalDate    string       `json:"original_date"`
	Description     string       `json:"description"`
	Detail          string       `json:"detail"`
	Priority        string       `json:"priority"`
	Responsavel     *Responsavel `json:"responsavel"`
	ProcessoID      int64        `json:"processo_id"`
	NumeroProcesso  string       `json:"numero_processo"`
	Nome            string       `json:"nome"`
	CPF             string       `json:"cpf"`
	ContractNumbers []string     `json:"contract_numbers"`
	ValorCausa      string       `json:"valor_causa"`
	SaldoAtualizado string       `json:"saldo_atualizado"`
	Custas          string       `json:"custas"`
	PrescricaoDate  string       `json:"prescricao_date"`
	StatusLabel     string       `json:"status_label"`
	Barrado         *Barrado     `json:"barrado"`
	AnaliseID       int64        `json:"analise_id"`
	Source          string       `json:"source"`
	Index           int          `json:"index"`
	Analyst         string       `json:"analyst"`
	Notes           string       `json:"notes"`
	Completed       bool         `json:"completed"`
}

// UserSummary is one row of the per-user agenda summary endpoint.
type UserSummary struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PendingTasks    int    `json:"pending_tasks"`
	CompletedTasks  int    `json:"completed_tasks"`
	PendingPrazos   int    `json:"pending_prazos"`
	CompletedPrazos int    `json:"completed_prazos"`
}

func (u UserSummary) DisplayName() string {
	if u.FirstName != "" {
		if u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
		return u.FirstName
	}
	return u.Username
}
