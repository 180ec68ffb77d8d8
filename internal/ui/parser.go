package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a primitive CSS file: selectors .class or #id (comma separated
// lists allowed) and blocks of "key: value;". Rulesets with other selectors and
// @rules are skipped. Later rules override earlier for the same selector.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)

	var (
		selectors []string
		props     map[string]string
		depth     int
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); errors.Is(err, io.EOF) {
				return sheet, nil
			} else if err != nil {
				return sheet, fmt.Errorf("parse css: %w", err)
			}
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			selectors = nil
			props = nil
			if depth > 0 {
				continue
			}
			selectors = simpleSelectors(selectorText(data, p.Values()))
			if len(selectors) > 0 {
				props = make(map[string]string)
			}
		case css.DeclarationGrammar:
			if props == nil {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(string(data)))
			if key != "" {
				props[key] = strings.TrimSpace(joinValues(p.Values()))
			}
		case css.EndRulesetGrammar:
			for _, sel := range selectors {
				rp := make(map[string]string, len(props))
				for k, v := range props {
					rp[k] = v
				}
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: rp})
			}
			selectors = nil
			props = nil
		}
	}
}

// selectorText rebuilds the selector list of a ruleset from the grammar data
// and the buffered tokens.
func selectorText(data []byte, vals []css.Token) string {
	sel := joinValues(vals)
	if d := strings.TrimSpace(string(data)); d != "" && d != "{" && !strings.HasPrefix(sel, d) {
		sel = d + sel
	}
	return sel
}

func joinValues(vals []css.Token) string {
	var b strings.Builder
	for _, v := range vals {
		b.Write(v.Data)
	}
	return b.String()
}

// simpleSelectors splits a selector list and keeps the entries that are a
// single .class or #id.
func simpleSelectors(list string) []string {
	var out []string
	for _, sel := range strings.Split(list, ",") {
		sel = strings.TrimSpace(sel)
		if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
			continue
		}
		if strings.ContainsAny(sel[1:], " \t\n>+~.#:[") {
			continue
		}
		out = append(out, sel)
	}
	return out
}
