package openspout

// CellType identifies the declared type of a table cell, read from its
// office:value-type attribute.
type CellType int

const (
	CellTypeVoid CellType = iota
	CellTypeString
	CellTypeFloat
	CellTypeBoolean
	CellTypeDate
	CellTypeTime
	CellTypeCurrency
	CellTypePercentage
)

// ParseCellType decodes an office:value-type attribute value. Unrecognized
// or absent values map to CellTypeVoid.
func ParseCellType(raw string) CellType {
	switch raw {
	case "string":
		return CellTypeString
	case "float":
		return CellTypeFloat
	case "boolean":
		return CellTypeBoolean
	case "date":
		return CellTypeDate
	case "time":
		return CellTypeTime
	case "currency":
		return CellTypeCurrency
	case "percentage":
		return CellTypePercentage
	default:
		return CellTypeVoid
	}
}

// String returns the schema token for the CellType, so that known types
// round-trip through ParseCellType.
func (t CellType) String() string {
	switch t {
	case CellTypeString:
		return "string"
	case CellTypeFloat:
		return "float"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeDate:
		return "date"
	case CellTypeTime:
		return "time"
	case CellTypeCurrency:
		return "currency"
	case CellTypePercentage:
		return "percentage"
	case CellTypeVoid:
		return "void"
	default:
		return "unknown"
	}
}
