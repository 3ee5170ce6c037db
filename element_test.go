package openspout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespaces = `xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" ` +
	`xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" ` +
	`xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" ` +
	`xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0" ` +
	`xmlns:xlink="http://www.w3.org/1999/xlink"`

func parseTestFragment(t *testing.T, doc string) *Element {
	t.Helper()
	el, err := ParseFragment(strings.NewReader(doc))
	require.NoError(t, err)
	return el
}

func TestParseFragment_DeclaredNamespaces(t *testing.T) {
	el := parseTestFragment(t, `<table:table-cell `+testNamespaces+
		` office:value-type="string"><text:p>hi</text:p></table:table-cell>`)

	assert.Equal(t, "table:table-cell", el.Name())
	assert.Equal(t, "string", el.Attr(attrValueType))
	require.Len(t, el.Children(), 1)

	p, ok := el.Children()[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "text:p", p.Name())
}

func TestParseFragment_UndeclaredPrefixKeptVerbatim(t *testing.T) {
	// Prefixes without a namespace declaration pass through unchanged.
	el := parseTestFragment(t, `<table:table-cell office:value-type="float" office:value="1"/>`)

	assert.Equal(t, "table:table-cell", el.Name())
	assert.Equal(t, "float", el.Attr(attrValueType))
	assert.Equal(t, "1", el.Attr(attrValue))
}

func TestParseFragment_SkipsProlog(t *testing.T) {
	el := parseTestFragment(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<text:p>x</text:p>")
	assert.Equal(t, "text:p", el.Name())
	assert.Equal(t, "x", el.Text())
}

func TestParseFragment_Truncated(t *testing.T) {
	_, err := ParseFragment(strings.NewReader(`<text:p>oops`))
	assert.Error(t, err)
}

func TestElement_Text(t *testing.T) {
	el := parseTestFragment(t, `<text:p `+testNamespaces+`>a<text:span>b<text:span>c</text:span></text:span>d</text:p>`)
	assert.Equal(t, "abcd", el.Text())
}

func TestElement_Descendants(t *testing.T) {
	el := parseTestFragment(t, `<table:table-cell `+testNamespaces+`>
		<text:p>first</text:p>
		<draw:frame><text:p>nested</text:p></draw:frame>
		<text:p>last</text:p>
	</table:table-cell>`)

	paragraphs := el.Descendants("text:p")
	require.Len(t, paragraphs, 3)
	assert.Equal(t, "first", paragraphs[0].Text())
	assert.Equal(t, "nested", paragraphs[1].Text())
	assert.Equal(t, "last", paragraphs[2].Text())
}

func TestElement_AttrMissing(t *testing.T) {
	el := NewElement("text:s", nil)
	assert.Equal(t, "", el.Attr(attrSpaceCount))
}

func TestNewElement_CopiesAttrs(t *testing.T) {
	attrs := map[string]string{attrValue: "1"}
	el := NewElement("table:table-cell", attrs)
	attrs[attrValue] = "2"
	assert.Equal(t, "1", el.Attr(attrValue))
}

func TestParseFragment_NamespaceDeclsNotAttrs(t *testing.T) {
	el := parseTestFragment(t, `<table:table-cell `+testNamespaces+`/>`)
	assert.Equal(t, "", el.Attr("xmlns:office"))
	assert.Equal(t, "", el.Attr("xmlns"))
}
