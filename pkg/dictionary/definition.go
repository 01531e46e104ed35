package dictionary

import (
	"strings"
	"unicode"
)

// Meta is the entry metadata block.
// https://dictionaryapi.com/products/json#sec-2.meta
type Meta struct {
	ID        string `json:"id"`
	Offensive bool   `json:"offensive"`
}

// Headword carries the headword information block.
// https://dictionaryapi.com/products/json#sec-2.hwi
type Headword struct {
	Word string `json:"hw"`
}

// Definition is a single collegiate dictionary entry.
type Definition struct {
	Meta      Meta     `json:"meta"`
	Headword  Headword `json:"hwi"`
	ShortDefs []string `json:"shortdef"`
	Family    string   `json:"fl"`
}

// DisplayName is the headword reduced to letters, digits and spaces.
// Syllable markers such as "ser*en*dip*i*ty" disappear.
func (d *Definition) DisplayName() string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, d.Headword.Word)
}

// Markdown renders the name as a heading followed by one paragraph per
// short definition.
func (d *Definition) Markdown() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.DisplayName())
	b.WriteString("\n\n")
	if d.Family != "" {
		b.WriteString("*")
		b.WriteString(d.Family)
		b.WriteString("*\n\n")
	}
	for _, def := range d.ShortDefs {
		b.WriteString(def)
		b.WriteString("\n\n")
	}
	return b.String()
}
