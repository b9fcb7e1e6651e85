package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pauta-cli/internal/model"
)

func TestParseEntryRef(t *testing.T) {
	cases := []struct {
		ref     string
		typ     model.EntryType
		id      int64
		wantErr bool
	}{
		{ref: "t-42", typ: model.EntryTask, id: 42},
		{ref: "P-11", typ: model.EntryPrazo, id: 11},
		{ref: "s-9", typ: model.EntrySupervision, id: 9},
		{ref: "t-row-3", wantErr: true},
		{ref: "x-1", wantErr: true},
		{ref: "t-", wantErr: true},
		{ref: "t-0", wantErr: true},
		{ref: "42", wantErr: true},
	}
	for _, tc := range cases {
		typ, id, err := parseEntryRef(tc.ref)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %s/%d", tc.ref, typ, id)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.ref, err)
		}
		if typ != tc.typ || id != tc.id {
			t.Fatalf("%q: got %s/%d", tc.ref, typ, id)
		}
	}
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestAgendaUsersCommand(t *testing.T) {
	isolateConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agenda/users/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.UserSummary{
			{ID: 11, Username: "ana", PendingTasks: 3, CompletedPrazos: 2},
		})
	}))
	defer srv.Close()
	t.Setenv("PAUTA_BASE_URL", srv.URL)
	t.Setenv("PAUTA_COOKIE", "sessionid=abc; csrftoken=tok")

	out, err := runCommand(t, "", "agenda", "users")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"ana"`) {
		t.Fatalf("output missing user: %s", out)
	}
	if !strings.Contains(out, `"count":1`) {
		t.Fatalf("output missing count: %s", out)
	}
}

func TestAgendaListFiltersByUser(t *testing.T) {
	isolateConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "pending" {
			t.Fatalf("status query %q", got)
		}
		json.NewEncoder(w).Encode([]model.RawAPIEntry{
			{ID: 1, Type: "T", Date: "2026-04-02", Responsavel: &model.Responsavel{ID: 11}},
			{ID: 2, Type: "T", Date: "2026-04-03", Responsavel: &model.Responsavel{ID: 22}},
			{ID: 3, Type: "S", Date: "2026-04-04", PrescricaoDate: "2030-01-01", ValorCausa: "R$ 1.234,50"},
		})
	}))
	defer srv.Close()
	t.Setenv("PAUTA_BASE_URL", srv.URL)

	out, err := runCommand(t, "", "agenda", "list", "--user", "11")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, `"t-2"`) {
		t.Fatalf("other-user task not filtered: %s", out)
	}
	if !strings.Contains(out, `"t-1"`) || !strings.Contains(out, `"s-3"`) {
		t.Fatalf("expected own task and supervision kept: %s", out)
	}
	if !strings.Contains(out, "R$ 1.234,50") {
		t.Fatalf("money not formatted: %s", out)
	}
}

func TestAgendaMoveCommand(t *testing.T) {
	isolateConfig(t)
	var gotPath, gotBody, gotCSRF string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCSRF = r.Header.Get("X-CSRFToken")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	t.Setenv("PAUTA_BASE_URL", srv.URL)
	t.Setenv("PAUTA_COOKIE", "csrftoken=tok123")

	out, err := runCommand(t, "", "agenda", "move", "t-42", "18/04/2026")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotPath != "/api/agenda/tarefa/42/update-date/" {
		t.Fatalf("path %s", gotPath)
	}
	if !strings.Contains(gotBody, `"date":"2026-04-18"`) {
		t.Fatalf("body %s", gotBody)
	}
	if gotCSRF != "tok123" {
		t.Fatalf("csrf header %q", gotCSRF)
	}
	if !strings.Contains(out, `"ok":true`) {
		t.Fatalf("output: %s", out)
	}
}

func TestAgendaMoveRejectsSupervisions(t *testing.T) {
	isolateConfig(t)
	t.Setenv("PAUTA_BASE_URL", "http://unused.invalid")

	_, err := runCommand(t, "", "agenda", "move", "s-9", "18/04/2026")
	if err == nil || !strings.Contains(err.Error(), "working view") {
		t.Fatalf("expected supervision rejection, got %v", err)
	}
}

func TestNetworkCommandsRequireBaseURL(t *testing.T) {
	isolateConfig(t)

	_, err := runCommand(t, "", "agenda", "users")
	if err == nil || !strings.Contains(err.Error(), "base URL") {
		t.Fatalf("expected base URL error, got %v", err)
	}
}

const scrapeFixture = `<!doctype html>
<html><body data-processo-id="321">
<input type="hidden" name="tarefa_set-TOTAL_FORMS" value="1">
<input type="hidden" name="tarefa_set-0-id" value="42">
<input type="text" name="tarefa_set-0-data" value="10/03/2026">
<input type="text" name="tarefa_set-0-descricao" value="Peticionar">
<div class="case-summary-card" data-processo-id="321">
  <span class="titular-nome">Maria Souza</span>
  <span class="titular-cpf">39053344705</span>
</div>
</body></html>`

func TestScrapeCommandFromStdin(t *testing.T) {
	isolateConfig(t)

	out, err := runCommand(t, scrapeFixture, "scrape", "--pretty")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var payload struct {
		ProcessoID int64      `json:"processoId"`
		Count      int        `json:"count"`
		Entries    []entryOut `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.ProcessoID != 321 || payload.Count != 1 {
		t.Fatalf("payload: %+v", payload)
	}
	e := payload.Entries[0]
	if e.ID != "t-42" || e.Date != "2026-03-10" {
		t.Fatalf("entry: %+v", e)
	}
	if e.Nome != "Maria Souza" || e.CPF != "390.533.447-05" {
		t.Fatalf("person metadata not hydrated: %+v", e)
	}
}
