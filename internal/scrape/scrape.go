// Package scrape reads the server-rendered case page: the repeated
// inline-form rows for tarefas and prazos (the panel's local data source)
// and the case-summary cards used to hydrate person metadata.
//
// The admin framework names inline fields "<group>-<index>-<field>" and
// exposes the row count as "<group>-TOTAL_FORMS"; this package depends only
// on that convention and never writes back to the page.
package scrape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
)

const (
	tarefaGroup = "tarefa_set"
	prazoGroup  = "prazo_set"
)

// Page is everything the agenda panel consumes from one case page.
type Page struct {
	ProcessoID int64
	Rows       []model.RawFormRow
	// People maps processo id -> titular metadata from case-summary cards.
	People map[int64]normalize.Person
}

// ParseCasePage parses one saved/fetched case page.
func ParseCasePage(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parse case page: %w", err)
	}

	page := Page{People: map[int64]normalize.Person{}}
	page.ProcessoID = parseInt64(doc.Find("body").AttrOr("data-processo-id", ""))

	page.Rows = append(page.Rows, parseGroup(doc, tarefaGroup, model.EntryTask, page.ProcessoID)...)
	page.Rows = append(page.Rows, parseGroup(doc, prazoGroup, model.EntryPrazo, page.ProcessoID)...)

	doc.Find(".case-summary-card").Each(func(_ int, card *goquery.Selection) {
		pid := parseInt64(card.AttrOr("data-processo-id", ""))
		if pid == 0 {
			return
		}
		page.People[pid] = normalize.Person{
			Nome: strings.TrimSpace(card.Find(".titular-nome").First().Text()),
			CPF:  strings.TrimSpace(card.Find(".titular-cpf").First().Text()),
		}
	})

	return page, nil
}

func parseGroup(doc *goquery.Document, group string, kind model.EntryType, processoID int64) []model.RawFormRow {
	total := int(parseInt64(fieldValue(doc, group+"-TOTAL_FORMS")))
	if total <= 0 {
		return nil
	}
	rows := make([]model.RawFormRow, 0, total)
	for i := 0; i < total; i++ {
		prefix := fmt.Sprintf("%s-%d-", group, i)
		row := model.RawFormRow{
			Kind:        kind,
			Index:       i,
			BackendID:   parseInt64(fieldValue(doc, prefix+"id")),
			Date:        fieldValue(doc, prefix+"data"),
			Description: fieldValue(doc, prefix+"descricao"),
			Detail:      fieldValue(doc, prefix+"detalhe"),
			Priority:    selectedValue(doc, prefix+"prioridade"),
			Done:        checked(doc, prefix+"concluida"),
			Deleted:     checked(doc, prefix+"DELETE"),
			ProcessoID:  processoID,
		}
		if id := parseInt64(selectedValue(doc, prefix+"responsavel")); id != 0 {
			row.Responsavel = &model.Responsavel{
				ID:       id,
				Username: selectedText(doc, prefix+"responsavel"),
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func fieldValue(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf("[name=%q]", name)).First()
	if sel.Length() == 0 {
		return ""
	}
	if goquery.NodeName(sel) == "textarea" {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(sel.AttrOr("value", ""))
}

func selectedValue(doc *goquery.Document, name string) string {
	opt := doc.Find(fmt.Sprintf("select[name=%q] option[selected]", name)).First()
	return strings.TrimSpace(opt.AttrOr("value", ""))
}

func selectedText(doc *goquery.Document, name string) string {
	opt := doc.Find(fmt.Sprintf("select[name=%q] option[selected]", name)).First()
	return strings.TrimSpace(opt.Text())
}

func checked(doc *goquery.Document, name string) bool {
	sel := doc.Find(fmt.Sprintf("input[name=%q]", name)).First()
	_, ok := sel.Attr("checked")
	return ok
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
