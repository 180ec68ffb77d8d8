package ui

import (
	_ "embed"
	"fmt"

	"github.com/spf13/afero"
)

//go:embed theme.css
var defaultTheme string

// DefaultStylesheet returns the built-in theme.
func DefaultStylesheet() *Stylesheet {
	sheet, err := ParseCSS(defaultTheme)
	if err != nil {
		panic(fmt.Sprintf("ui: embedded theme: %v", err))
	}
	return sheet
}

// LoadCSS reads and parses a stylesheet from fsys. The rules are appended after
// the built-in theme so they override it.
func LoadCSS(fsys afero.Fs, path string) (*Stylesheet, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := DefaultStylesheet()
	base.Rules = append(base.Rules, sheet.Rules...)
	return base, nil
}
