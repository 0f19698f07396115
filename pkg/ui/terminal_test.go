package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainPrinter(&buf)

	p.Error("search failed", errors.New("boom"))
	p.Success("done")
	p.Info("Token source", "keyring")
	p.Warning("no token")
	p.Highlight("twsearch")

	assert.Equal(t, "search failed: boom\ndone\nToken source: keyring\nno token\ntwsearch\n", buf.String())
}

func TestPrinterColorsOnlyOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Success("ok")
	assert.Equal(t, "ok\n", buf.String(), "a buffer is not a terminal")

	buf.Reset()
	p := &Printer{out: &buf, color: true}
	p.Success("ok")
	assert.Equal(t, "\033[32mok\033[0m\n", buf.String())
}
