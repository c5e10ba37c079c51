package core

// DocumentHeader is one fiscal document.
type DocumentHeader struct {
	Number                string            `json:"document_number"`
	Nature                string            `json:"operation_nature"`
	IssuerJurisdiction    string            `json:"issuer_jurisdiction"`
	RecipientJurisdiction string            `json:"recipient_jurisdiction"`
	Scope                 string            `json:"operation_scope"`
	AccessKey             string            `json:"access_key"`
	Extra                 map[string]string `json:"extra,omitempty"` // Columns outside the contract, keyed by source name
}

// LineItem is one item of a fiscal document, joined to its header by Number.
type LineItem struct {
	Number       string            `json:"document_number"`
	RecordedCode string            `json:"recorded_code"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// ReferenceEntry is one valid operation code.
type ReferenceEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Tables groups the three input tables of a batch.
type Tables struct {
	Headers   []DocumentHeader
	Items     []LineItem
	Reference []ReferenceEntry
}

// TableName identifies one of the three tables for counting.
type TableName string

const (
	TableHeaders   TableName = "headers"
	TableItems     TableName = "items"
	TableReference TableName = "reference"
)

// Digit is the leading character of an operation code.
type Digit rune

// DigitUnknown marks a digit that could not be determined.
const DigitUnknown Digit = '?'

func (d Digit) String() string {
	return string(rune(d))
}

// MarshalText renders the digit as a one-character string.
func (d Digit) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText reads a one-character string; anything else becomes DigitUnknown.
func (d *Digit) UnmarshalText(b []byte) error {
	r := []rune(string(b))
	if len(r) != 1 {
		*d = DigitUnknown
		return nil
	}
	*d = Digit(r[0])
	return nil
}

// Mask renders the digit as a code pattern, e.g. "5xxx".
func (d Digit) Mask() string {
	return d.String() + "xxx"
}

// Direction is whether a document receives or sends goods.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
	// DirectionNone means the nature matched no directional keyword.
	DirectionNone Direction = "none"
)

// Scope is the jurisdictional reach of an operation.
type Scope string

const (
	ScopeInternal   Scope = "internal"
	ScopeInterstate Scope = "interstate"
	ScopeForeign    Scope = "foreign"
	ScopeUnknown    Scope = "unknown"
)

// Display limits used when rendering results for people.
const (
	DiscrepancyDisplayLimit = 10
	ReferenceListLimit      = 20
)
