package core

import "strings"

// Lookups in this file never fail: a miss is an empty result.

// FindHeaderByNumber returns every header carrying the document number,
// in table order.
func (b *Batch) FindHeaderByNumber(number string) []DocumentHeader {
	number = normalizeNumber(number)
	out := []DocumentHeader{}
	for _, h := range b.headers {
		if h.Number == number {
			out = append(out, h)
		}
	}
	return out
}

// FindItemsByNumber returns every line item of the document, in table order.
func (b *Batch) FindItemsByNumber(number string) []LineItem {
	number = normalizeNumber(number)
	out := []LineItem{}
	for _, it := range b.items {
		if it.Number == number {
			out = append(out, it)
		}
	}
	return out
}

// AccessKeyMatch is the result of a partial access-key search.
type AccessKeyMatch struct {
	Headers []DocumentHeader `json:"headers"`
	Items   []LineItem       `json:"items"`
}

// Found reports whether any header matched.
func (m AccessKeyMatch) Found() bool {
	return len(m.Headers) > 0
}

// FindByAccessKeySubstring returns the headers whose access key contains
// partial anywhere, plus the items of the first matching header.
func (b *Batch) FindByAccessKeySubstring(partial string) AccessKeyMatch {
	partial = strings.TrimSpace(partial)
	match := AccessKeyMatch{Headers: []DocumentHeader{}, Items: []LineItem{}}

	for _, h := range b.headers {
		if strings.Contains(h.AccessKey, partial) {
			match.Headers = append(match.Headers, h)
		}
	}
	if len(match.Headers) > 0 {
		match.Items = b.FindItemsByNumber(match.Headers[0].Number)
	}
	return match
}

// FindByCode returns the reference entry with exactly the given code.
func (b *Batch) FindByCode(code string) (ReferenceEntry, bool) {
	i, ok := b.referenceByCode[strings.TrimSpace(code)]
	if !ok {
		return ReferenceEntry{}, false
	}
	return b.reference[i], true
}

// ListByLeadingDigit returns the reference entries whose code starts with
// digit, in table order, capped at limit entries. A limit <= 0 returns all.
func (b *Batch) ListByLeadingDigit(digit string, limit int) []ReferenceEntry {
	digit = strings.TrimSpace(digit)
	out := []ReferenceEntry{}
	for _, r := range b.reference {
		if !strings.HasPrefix(r.Code, digit) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
