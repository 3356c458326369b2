package web

import (
	"bytes"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const highlightStyle = "github"

var (
	codeFormatter = chromahtml.New(chromahtml.WithLineNumbers(true), chromahtml.TabWidth(4))
	diffFormatter = chromahtml.New(chromahtml.TabWidth(4))

	// Raw HTML in model output is dropped; goldmark only passes it through
	// with html.WithUnsafe.
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// highlight renders code as inline-styled HTML. Unknown languages fall back
// to plain text.
func highlight(code, lang string, numbered bool) (template.HTML, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	formatter := diffFormatter
	if numbered {
		formatter = codeFormatter
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// renderMarkdown converts model output to HTML.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// preformatted is the fallback when highlighting fails.
func preformatted(text string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
}
