package tui

import (
	"time"

	"pauta-cli/internal/api"
	"pauta-cli/internal/model"
)

type view int

const (
	viewCalendar view = iota
	viewUsers
)

func viewToString(v view) string {
	switch v {
	case viewCalendar:
		return "calendar"
	case viewUsers:
		return "users"
	}
	return "calendar"
}

func viewFromString(s string) view {
	if s == "users" {
		return viewUsers
	}
	return viewCalendar
}

type calMode int

const (
	modeMonthly calMode = iota
	modeWeekly
)

func modeToString(m calMode) string {
	if m == modeWeekly {
		return "weekly"
	}
	return "monthly"
}

func modeFromString(s string) calMode {
	if s == "weekly" {
		return modeWeekly
	}
	return modeMonthly
}

type modalKind int

const (
	modalNone modalKind = iota
	modalMoveEntry
	modalBarrarRetorno
	modalAlert
)

// entriesLoadedMsg completes one async load. gen guards against a stale
// response overwriting a newer one when the user toggles pending/completed
// quickly.
type entriesLoadedMsg struct {
	gen       int
	status    api.Status
	entries   []model.RawAPIEntry
	fromCache bool
	fetchedAt time.Time
	err       error
}

type usersLoadedMsg struct {
	gen   int
	users []model.UserSummary
	err   error
}

// dateSavedMsg reports the fire-and-forget reschedule POST. The local move
// already happened; a failure is surfaced but not rolled back.
type dateSavedMsg struct {
	entryID string
	err     error
}

type supervisionStatusMsg struct {
	entryID string
	result  api.SupervisionStatusResult
	err     error
}

type barradoSavedMsg struct {
	entryID string
	barrado model.Barrado
	err     error
}
