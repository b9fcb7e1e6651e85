package normalize

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"pauta-cli/internal/brfmt"
)

// Person is the case-holder metadata shown on day cards and detail headers.
type Person struct {
	Nome string
	CPF  string
}

// PersonCache maps processo id -> person metadata. It is populated
// opportunistically (case-summary cards on scraped pages, API entries that
// carry their own nome/cpf) and consulted when an entry arrives without them.
type PersonCache struct {
	cache *lru.Cache[int64, Person]
}

const personCacheSize = 512

func NewPersonCache() *PersonCache {
	c, err := lru.New[int64, Person](personCacheSize)
	if err != nil {
		// lru.New only fails on size <= 0.
		panic(err)
	}
	return &PersonCache{cache: c}
}

func (p *PersonCache) Put(processoID int64, person Person) {
	if processoID == 0 || (person.Nome == "" && person.CPF == "") {
		return
	}
	person.CPF = brfmt.FormatCPF(person.CPF)
	p.cache.Add(processoID, person)
}

func (p *PersonCache) Get(processoID int64) (Person, bool) {
	if processoID == 0 {
		return Person{}, false
	}
	return p.cache.Get(processoID)
}
