// Package normalize converts heterogeneous raw agenda records (scraped
// inline-form rows, read-API items) into canonical model.AgendaEntry values.
//
// Normalization is idempotent: running the same raw record through twice
// yields entries equal on identity and origin.
package normalize

import (
	"fmt"
	"strings"

	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

// Hydrator carries the session state normalization depends on: the origin
// ledger and the person-metadata cache. Now is injectable for tests and
// defaults to the real current date.
type Hydrator struct {
	Origins *OriginLedger
	People  *PersonCache
	Now     func() brfmt.Date
}

func NewHydrator() *Hydrator {
	return &Hydrator{
		Origins: NewOriginLedger(),
		People:  NewPersonCache(),
		Now:     brfmt.Today,
	}
}

func (h *Hydrator) now() brfmt.Date {
	if h.Now != nil {
		return h.Now()
	}
	return brfmt.Today()
}

// FromFormRow normalizes one scraped inline-form row. Rows flagged done or
// deleted are excluded (ok=false), as are rows whose date does not parse.
func (h *Hydrator) FromFormRow(row model.RawFormRow) (model.AgendaEntry, bool) {
	if row.Done || row.Deleted {
		return model.AgendaEntry{}, false
	}
	if row.Kind != model.EntryTask && row.Kind != model.EntryPrazo {
		return model.AgendaEntry{}, false
	}
	d, ok := brfmt.ParseDate(row.Date)
	if !ok {
		return model.AgendaEntry{}, false
	}

	e := model.AgendaEntry{
		BackendID:   row.BackendID,
		Type:        row.Kind,
		Date:        d,
		Description: strings.TrimSpace(row.Description),
		Detail:      strings.TrimSpace(row.Detail),
		Priority:    strings.TrimSpace(row.Priority),
		Responsavel: row.Responsavel,
		ProcessoID:  row.ProcessoID,
		Nome:        strings.TrimSpace(row.Nome),
		CPF:         strings.TrimSpace(row.CPF),
	}
	e.ID = entryID(e.Type, e.BackendID, row.Index)
	h.hydratePerson(&e)
	e.OriginalDate = h.resolveOrigin(e, brfmt.Date{})
	return e, true
}

// FromAPIEntry normalizes one read-endpoint item.
func (h *Hydrator) FromAPIEntry(raw model.RawAPIEntry) (model.AgendaEntry, bool) {
	typ := model.EntryType(strings.ToUpper(strings.TrimSpace(raw.Type)))
	if !typ.Valid() {
		return model.AgendaEntry{}, false
	}
	dateText := raw.Date
	if strings.TrimSpace(dateText) == "" {
		dateText = raw.DataLimite
	}
	d, ok := brfmt.ParseDate(dateText)
	if !ok {
		return model.AgendaEntry{}, false
	}

	e := model.AgendaEntry{
		BackendID:       raw.ID,
		Type:            typ,
		Date:            d,
		Description:     strings.TrimSpace(raw.Description),
		Detail:          strings.TrimSpace(raw.Detail),
		Priority:        strings.TrimSpace(raw.Priority),
		Responsavel:     raw.Responsavel,
		ProcessoID:      raw.ProcessoID,
		NumeroProcesso:  brfmt.FormatCNJ(strings.TrimSpace(raw.NumeroProcesso)),
		Nome:            strings.TrimSpace(raw.Nome),
		CPF:             strings.TrimSpace(raw.CPF),
		ContractNumbers: raw.ContractNumbers,
		StatusLabel:     strings.TrimSpace(raw.StatusLabel),
		Barrado:         raw.Barrado,
		AnaliseID:       raw.AnaliseID,
		Source:          raw.Source,
		Index:           raw.Index,
		Analyst:         strings.TrimSpace(raw.Analyst),
		Notes:           raw.Notes,
		Completed:       raw.Completed,
		FromAPI:         true,
	}
	e.ID = entryID(e.Type, e.BackendID, raw.Index)

	if v, ok := brfmt.NormalizeCurrency(raw.ValorCausa); ok {
		e.ValorCausa = v
	}
	if v, ok := brfmt.NormalizeCurrency(raw.SaldoAtualizado); ok {
		e.SaldoAtualizado = v
	}
	if v, ok := brfmt.NormalizeCurrency(raw.Custas); ok {
		e.Custas = v
	}
	if p, ok := brfmt.ParseDate(raw.PrescricaoDate); ok {
		e.PrescricaoDate = p
		e.Expired = !h.now().Before(p)
	}

	h.hydratePerson(&e)

	explicit, _ := brfmt.ParseDate(raw.OriginalDate)
	e.OriginalDate = h.resolveOrigin(e, explicit)
	return e, true
}

// hydratePerson fills nome/cpf from the cache when the entry lacks them, and
// feeds the cache when it carries them.
func (h *Hydrator) hydratePerson(e *model.AgendaEntry) {
	if h.People == nil {
		return
	}
	if e.Nome != "" || e.CPF != "" {
		e.CPF = brfmt.FormatCPF(e.CPF)
		h.People.Put(e.ProcessoID, Person{Nome: e.Nome, CPF: e.CPF})
		return
	}
	if p, ok := h.People.Get(e.ProcessoID); ok {
		e.Nome = p.Nome
		e.CPF = p.CPF
	}
}

// resolveOrigin picks the entry's original date: an explicit API value is
// trusted and recorded; otherwise a previously-seen origin for the same
// identity; otherwise the entry's current date. Whatever wins is recorded so
// later normalizations of the same identity agree.
func (h *Hydrator) resolveOrigin(e model.AgendaEntry, explicit brfmt.Date) brfmt.Date {
	if h.Origins == nil {
		if !explicit.IsZero() {
			return explicit
		}
		return e.Date
	}
	if !explicit.IsZero() {
		return h.Origins.Record(e.Key(), explicit)
	}
	if d, ok := h.Origins.Get(e.Key()); ok {
		return d
	}
	return h.Origins.Record(e.Key(), e.Date)
}

func entryID(t model.EntryType, backendID int64, index int) string {
	prefix := strings.ToLower(string(t))
	if backendID != 0 {
		return fmt.Sprintf("%s-%d", prefix, backendID)
	}
	// Not yet persisted: synthesize a position-stable local id.
	return fmt.Sprintf("%s-row-%d", prefix, index)
}
