package core

// validator.go drives the inference rules over every line item of a batch.
//
// Items are visited in table order. Each item is joined to the first header
// carrying the same document number; items without a header count toward
// the total but are never reported as discrepancies. An item whose expected
// digit differs from the first character of its recorded code is recorded
// as a discrepancy, in visiting order.

// Discrepancy is a line item whose recorded code disagrees with the digit
// inferred from its document header.
type Discrepancy struct {
	DocumentNumber  string `json:"document_number"`
	RecordedCode    string `json:"recorded_code"`
	ExpectedDigit   Digit  `json:"expected_digit"`
	OperationNature string `json:"operation_nature"`
}

// ValidationReport is the outcome of a validation run.
type ValidationReport struct {
	TotalAnalyzed    int           `json:"total_analyzed"`
	DiscrepancyCount int           `json:"discrepancy_count"`
	Unmatched        int           `json:"unmatched_items"`
	Discrepancies    []Discrepancy `json:"discrepancies"`
}

// Truncated returns a copy holding at most limit discrepancies. Counts are
// preserved so callers can report how many were left out. A limit <= 0
// keeps every discrepancy.
func (r ValidationReport) Truncated(limit int) ValidationReport {
	out := r
	if limit > 0 && len(r.Discrepancies) > limit {
		out.Discrepancies = r.Discrepancies[:limit:limit]
	}
	return out
}

// Remaining returns how many discrepancies a report truncated to limit omits.
func (r ValidationReport) Remaining(limit int) int {
	if limit <= 0 || r.DiscrepancyCount <= limit {
		return 0
	}
	return r.DiscrepancyCount - limit
}

// RecordedDigit returns the first character of a recorded code, or
// DigitUnknown when the code is empty.
func RecordedDigit(code string) Digit {
	for _, r := range code {
		return Digit(r)
	}
	return DigitUnknown
}

// ValidateAll validates every item against the given headers.
func ValidateAll(headers []DocumentHeader, items []LineItem) ValidationReport {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h.Number]; !seen {
			index[h.Number] = i
		}
	}

	return validateItems(items, func(number string) (DocumentHeader, bool) {
		i, ok := index[number]
		if !ok {
			return DocumentHeader{}, false
		}
		return headers[i], true
	})
}

// Validate validates every item of the batch.
func (b *Batch) Validate() ValidationReport {
	return validateItems(b.items, b.header)
}

func validateItems(items []LineItem, lookup func(string) (DocumentHeader, bool)) ValidationReport {
	report := ValidationReport{Discrepancies: []Discrepancy{}}

	for _, item := range items {
		report.TotalAnalyzed++

		header, ok := lookup(item.Number)
		if !ok {
			report.Unmatched++
			continue
		}

		expected := ClassifyHeader(header).Digit
		if expected == RecordedDigit(item.RecordedCode) {
			continue
		}

		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			DocumentNumber:  item.Number,
			RecordedCode:    item.RecordedCode,
			ExpectedDigit:   expected,
			OperationNature: header.Nature,
		})
	}

	report.DiscrepancyCount = len(report.Discrepancies)
	return report
}

// ItemCheck is the per-item outcome of a single-document validation.
type ItemCheck struct {
	Item          LineItem `json:"item"`
	ExpectedDigit Digit    `json:"expected_digit"`
	RecordedDigit Digit    `json:"recorded_digit"`
	Correct       bool     `json:"correct"`
}

// DocumentCheck explains the validation of one document.
type DocumentCheck struct {
	Header         DocumentHeader `json:"header"`
	Classification Classification `json:"classification"`
	Items          []ItemCheck    `json:"items"`
}

// Correct reports whether every item of the document matched.
func (d DocumentCheck) Correct() bool {
	for _, it := range d.Items {
		if !it.Correct {
			return false
		}
	}
	return true
}

// ValidateDocument validates the items of a single document. The second
// result is false when no header carries the number.
func (b *Batch) ValidateDocument(number string) (DocumentCheck, bool) {
	number = normalizeNumber(number)

	header, ok := b.header(number)
	if !ok {
		return DocumentCheck{}, false
	}

	check := DocumentCheck{
		Header:         header,
		Classification: ClassifyHeader(header),
		Items:          []ItemCheck{},
	}
	for _, item := range b.items {
		if item.Number != number {
			continue
		}
		recorded := RecordedDigit(item.RecordedCode)
		check.Items = append(check.Items, ItemCheck{
			Item:          item,
			ExpectedDigit: check.Classification.Digit,
			RecordedDigit: recorded,
			Correct:       recorded == check.Classification.Digit,
		})
	}
	return check, true
}
