package core

import "strings"

// Literal markers found in the operation-scope column.
const (
	ScopeMarkerInternal   = "1 - OPERAÇÃO INTERNA"
	ScopeMarkerInterstate = "2 - OPERAÇÃO INTERESTADUAL"
	ScopeMarkerForeign    = "3 - OPERAÇÃO COM EXTERIOR"
)

var (
	inboundKeywords  = []string{"ENTRADA", "COMPRA", "DEVOLUÇÃO", "DEV"}
	outboundKeywords = []string{"VENDA", "REMESSA"}
	returnKeyword    = "DEV"
)

// digitTable maps scope and direction to the expected leading digit.
var digitTable = map[Scope][2]Digit{
	ScopeInternal:   {'1', '5'},
	ScopeInterstate: {'2', '6'},
	ScopeForeign:    {'3', '7'},
}

// Classification explains how an expected digit was derived.
type Classification struct {
	Direction Direction `json:"direction"`
	Scope     Scope     `json:"scope"`
	Digit     Digit     `json:"expected_digit"`
}

// Classify applies the inference rules to a document's header attributes.
//
// Rules run in a fixed order and the first match wins:
//   - inbound if the upper-cased nature contains ENTRADA, COMPRA, DEVOLUÇÃO or DEV;
//     otherwise outbound if it contains VENDA or REMESSA;
//     otherwise DirectionNone, which takes the outbound column of the table.
//   - internal if the scope carries the internal marker or both
//     jurisdictions are equal; interstate if it carries the interstate
//     marker or the jurisdictions differ; foreign on the foreign marker.
//
// The jurisdiction comparison is a fallback inside the first two scope
// branches, so the foreign branch is only reached when neither applies.
func Classify(nature, issuerJurisdiction, recipientJurisdiction, scope string) Classification {
	c := Classification{
		Direction: classifyDirection(nature),
		Scope:     classifyScope(issuerJurisdiction, recipientJurisdiction, scope),
		Digit:     DigitUnknown,
	}

	column, ok := digitTable[c.Scope]
	if !ok {
		return c
	}
	if c.Direction == DirectionInbound {
		c.Digit = column[0]
	} else {
		c.Digit = column[1]
	}
	return c
}

// InferLeadingDigit returns the expected leading digit of the operation
// code, or DigitUnknown when no scope rule applies.
func InferLeadingDigit(nature, issuerJurisdiction, recipientJurisdiction, scope string) Digit {
	return Classify(nature, issuerJurisdiction, recipientJurisdiction, scope).Digit
}

// ClassifyHeader is Classify over a DocumentHeader.
func ClassifyHeader(h DocumentHeader) Classification {
	return Classify(h.Nature, h.IssuerJurisdiction, h.RecipientJurisdiction, h.Scope)
}

func classifyDirection(nature string) Direction {
	nature = strings.ToUpper(nature)

	if containsAny(nature, inboundKeywords) {
		return DirectionInbound
	}
	if containsAny(nature, outboundKeywords) && !strings.Contains(nature, returnKeyword) {
		return DirectionOutbound
	}
	return DirectionNone
}

func classifyScope(issuer, recipient, scope string) Scope {
	switch {
	case strings.Contains(scope, ScopeMarkerInternal) || issuer == recipient:
		return ScopeInternal
	case strings.Contains(scope, ScopeMarkerInterstate) || issuer != recipient:
		return ScopeInterstate
	case strings.Contains(scope, ScopeMarkerForeign):
		return ScopeForeign
	default:
		return ScopeUnknown
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
