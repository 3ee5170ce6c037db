package openspout

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Node and attribute names the formatter reads, per the OpenDocument
// spreadsheet schema.
const (
	nodeParagraph = "text:p"
	nodeHyperlink = "text:a"
	nodeSpan      = "text:span"
	nodeSpace     = "text:s"
	nodeTab       = "text:tab"
	nodeLineBreak = "text:line-break"

	attrValueType    = "office:value-type"
	attrValue        = "office:value"
	attrBooleanValue = "office:boolean-value"
	attrDateValue    = "office:date-value"
	attrTimeValue    = "office:time-value"
	attrCurrency     = "office:currency"
	attrSpaceCount   = "text:c"
)

// dateTimeLayouts are tried in order when parsing an office:date-value
// attribute. Writers differ on whether they include a zone or a time part.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// CellValueFormatter converts a parsed table-cell element into a typed
// Value. Both inputs are fixed at construction; the formatter holds no
// other state and is safe for concurrent use on independent elements.
type CellValueFormatter struct {
	formatDates bool
	unescaper   Unescaper
}

// NewCellValueFormatter creates a formatter. When formatDates is true, date
// and time cells yield their pre-rendered display text instead of parsed
// values. A nil unescaper falls back to DefaultUnescaper.
func NewCellValueFormatter(formatDates bool, unescaper Unescaper) *CellValueFormatter {
	if unescaper == nil {
		unescaper = DefaultUnescaper()
	}
	return &CellValueFormatter{formatDates: formatDates, unescaper: unescaper}
}

// ExtractAndFormatNodeValue reads the value-type attribute of a
// table:table-cell element and converts the cell to exactly one Value
// variant. Cells of unknown or void type yield Empty. The only error
// condition is an unparsable date-value or time-value attribute, reported
// as *InvalidValueError.
func (f *CellValueFormatter) ExtractAndFormatNodeValue(node *Element) (Value, error) {
	switch ParseCellType(node.Attr(attrValueType)) {
	case CellTypeString:
		return f.formatString(node), nil
	case CellTypeFloat:
		return f.formatFloat(node), nil
	case CellTypeBoolean:
		return f.formatBoolean(node), nil
	case CellTypeDate:
		return f.formatDate(node)
	case CellTypeTime:
		return f.formatTime(node)
	case CellTypeCurrency:
		return f.formatCurrency(node), nil
	case CellTypePercentage:
		// Percentages are stored pre-converted to their numeric ratio,
		// so the float routine applies unchanged.
		return f.formatFloat(node), nil
	default:
		return Empty{}, nil
	}
}

// formatString joins the text of every paragraph under the cell with a
// line feed and unescapes the result. Multiline cell content is stored as
// one paragraph per line.
func (f *CellValueFormatter) formatString(node *Element) Value {
	paragraphs := node.Descendants(nodeParagraph)
	lines := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		lines[i] = extractTextValue(p)
	}
	return Text(f.unescaper.Unescape(strings.Join(lines, "\n")))
}

// formatFloat returns Integer when the parsed value survives truncation to
// int64 unchanged, Real otherwise. A missing or malformed value attribute
// counts as zero.
func (f *CellValueFormatter) formatFloat(node *Element) Value {
	floatValue, err := strconv.ParseFloat(node.Attr(attrValue), 64)
	if err != nil {
		floatValue = 0
	}
	if !truncatesToInt64(floatValue) {
		return Real(floatValue)
	}
	intValue := int64(floatValue)
	if float64(intValue) == floatValue {
		return Integer(intValue)
	}
	return Real(floatValue)
}

// truncatesToInt64 reports whether converting f to int64 is well defined.
// float64(math.MaxInt64) rounds up to 2^63, hence the exclusive bound.
func truncatesToInt64(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

// formatBoolean keeps the loose coercion of the boolean-value attribute:
// only "" and "0" are false.
func (f *CellValueFormatter) formatBoolean(node *Element) Value {
	raw := node.Attr(attrBooleanValue)
	return Boolean(raw != "" && raw != "0")
}

// formatDate returns either the pre-rendered display text of the cell's
// first paragraph or the parsed date-value attribute, depending on the
// format-dates flag.
func (f *CellValueFormatter) formatDate(node *Element) (Value, error) {
	if f.formatDates {
		return preFormattedText(node), nil
	}
	raw := node.Attr(attrDateValue)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Instant(t), nil
		}
	}
	return nil, &InvalidValueError{Value: raw}
}

// formatTime is formatDate's counterpart for the time-value attribute,
// which holds an ISO 8601 duration.
func (f *CellValueFormatter) formatTime(node *Element) (Value, error) {
	if f.formatDates {
		return preFormattedText(node), nil
	}
	raw := node.Attr(attrTimeValue)
	d, err := parseISODuration(raw)
	if err != nil {
		return nil, &InvalidValueError{Value: raw}
	}
	return Duration(d), nil
}

// preFormattedText returns the raw text content of the cell's first
// paragraph, without whitespace expansion or unescaping. A cell with no
// paragraph degrades to empty text.
func preFormattedText(node *Element) Value {
	paragraphs := node.Descendants(nodeParagraph)
	if len(paragraphs) == 0 {
		return Text("")
	}
	return Text(paragraphs[0].Text())
}

// formatCurrency joins the raw value and currency-code attributes with a
// single space, e.g. "100 USD". Either part may be empty.
func (f *CellValueFormatter) formatCurrency(node *Element) Value {
	return Text(node.Attr(attrValue) + " " + node.Attr(attrCurrency))
}

// whitespaceKind classifies the inline elements that stand in for literal
// whitespace characters.
type whitespaceKind int

const (
	wsSpace whitespaceKind = iota
	wsTab
	wsLineBreak
)

func whitespaceKindOf(name string) (whitespaceKind, bool) {
	switch name {
	case nodeSpace:
		return wsSpace, true
	case nodeTab:
		return wsTab, true
	case nodeLineBreak:
		return wsLineBreak, true
	}
	return 0, false
}

// expand returns the literal replacement for a whitespace element. A space
// repeats according to its text:c attribute when that parses as a positive
// integer.
func (k whitespaceKind) expand(el *Element) string {
	switch k {
	case wsTab:
		return "\t"
	case wsLineBreak:
		return "\n"
	default:
		count := 1
		if n, err := strconv.Atoi(el.Attr(attrSpaceCount)); err == nil && n > 0 {
			count = n
		}
		return strings.Repeat(" ", count)
	}
}

// extractTextValue renders a paragraph's content in document order: literal
// text is kept, whitespace elements expand to their replacement characters,
// hyperlinks and spans are recursed into, anything else is skipped.
func extractTextValue(node *Element) string {
	var b strings.Builder
	appendTextValue(&b, node)
	return b.String()
}

func appendTextValue(b *strings.Builder, node *Element) {
	for _, child := range node.Children() {
		switch n := child.(type) {
		case TextNode:
			b.WriteString(string(n))
		case *Element:
			if kind, ok := whitespaceKindOf(n.Name()); ok {
				b.WriteString(kind.expand(n))
			} else if isInlineContainer(n.Name()) {
				appendTextValue(b, n)
			}
		}
	}
}

// isInlineContainer reports whether a paragraph child can itself hold
// text-bearing children.
func isInlineContainer(name string) bool {
	return name == nodeHyperlink || name == nodeSpan
}
