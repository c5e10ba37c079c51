package core

import "sort"

// CountEntry is a value and how often it occurs.
type CountEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary describes the contents of a batch.
type Summary struct {
	BatchID        string       `json:"batch_id"`
	Source         string       `json:"source"`
	Headers        int          `json:"headers"`
	Items          int          `json:"items"`
	ReferenceCodes int          `json:"reference_codes"`
	TopIssuers     []CountEntry `json:"top_issuers"`
	Scopes         []CountEntry `json:"scopes"`
}

// TopIssuerLimit caps the issuer jurisdictions listed in a summary.
const TopIssuerLimit = 5

// Summarize counts the batch tables and tallies issuer jurisdictions and
// operation scopes. Tallies are ordered by count, most frequent first;
// ties keep first-appearance order.
func (b *Batch) Summarize() Summary {
	issuers := tally(b.headers, func(h DocumentHeader) string { return h.IssuerJurisdiction })
	if len(issuers) > TopIssuerLimit {
		issuers = issuers[:TopIssuerLimit]
	}

	return Summary{
		BatchID:        b.id,
		Source:         b.source,
		Headers:        len(b.headers),
		Items:          len(b.items),
		ReferenceCodes: len(b.reference),
		TopIssuers:     issuers,
		Scopes:         tally(b.headers, func(h DocumentHeader) string { return h.Scope }),
	}
}

func tally(headers []DocumentHeader, key func(DocumentHeader) string) []CountEntry {
	pos := make(map[string]int)
	out := []CountEntry{}
	for _, h := range headers {
		v := key(h)
		if i, ok := pos[v]; ok {
			out[i].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, CountEntry{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
