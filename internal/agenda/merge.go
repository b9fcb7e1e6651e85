package agenda

import (
	"sort"

	"pauta-cli/internal/model"
)

// MergeOptions are the active reconciliation filters.
type MergeOptions struct {
	// PreferAPIOnly drops form-scraped entries entirely. Used in completed
	// mode: inline forms only ever render pending rows, so a completed view
	// built from them would be nonsense.
	PreferAPIOnly bool
	// ActiveUserID scopes the "my agenda" view. Supervisions are visible to
	// everyone; tasks and prazos require a matching responsavel. 0 = off.
	ActiveUserID int64
	// FocusProcessoID keeps only entries of the currently open case. 0 = off.
	FocusProcessoID int64
}

// Merge reconciles API entries with form-scraped ones into the authoritative
// set for a render pass. On a key collision the API entry wins: the server is
// more current than whatever state the inline form was rendered with.
func Merge(apiEntries, formEntries []model.AgendaEntry, opts MergeOptions) []model.AgendaEntry {
	byKey := make(map[string]int, len(apiEntries)+len(formEntries))
	out := make([]model.AgendaEntry, 0, len(apiEntries)+len(formEntries))

	for _, e := range apiEntries {
		if idx, ok := byKey[e.Key()]; ok {
			out[idx] = e
			continue
		}
		byKey[e.Key()] = len(out)
		out = append(out, e)
	}
	if !opts.PreferAPIOnly {
		for _, e := range formEntries {
			if _, ok := byKey[e.Key()]; ok {
				continue // API version already present and wins
			}
			byKey[e.Key()] = len(out)
			out = append(out, e)
		}
	}

	filtered := out[:0]
	for _, e := range out {
		if !passesFilters(e, opts) {
			continue
		}
		filtered = append(filtered, e)
	}
	out = filtered

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

func passesFilters(e model.AgendaEntry, opts MergeOptions) bool {
	if opts.ActiveUserID != 0 && e.Type != model.EntrySupervision {
		if e.Responsavel == nil || e.Responsavel.ID != opts.ActiveUserID {
			return false
		}
	}
	if opts.FocusProcessoID != 0 && e.ProcessoID != opts.FocusProcessoID {
		return false
	}
	return true
}
