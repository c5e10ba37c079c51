package core

import (
	"fmt"
	"strconv"
)

// DefaultTools returns a registry holding every engine operation.
func DefaultTools() *Toolset {
	ts := NewToolset()

	ts.Register(Tool{
		Name:        "find_header",
		Description: "Returns the header of a fiscal document by its number.",
		Params:      []ToolParam{{Name: "number", Description: "document number", Required: true}},
		Run:         toolFindHeader,
	})
	ts.Register(Tool{
		Name:        "find_items",
		Description: "Returns every line item of a fiscal document by its number.",
		Params:      []ToolParam{{Name: "number", Description: "document number", Required: true}},
		Run:         toolFindItems,
	})
	ts.Register(Tool{
		Name:        "find_cfop",
		Description: "Returns the reference entry of a 4-digit operation code.",
		Params:      []ToolParam{{Name: "code", Description: "4-digit operation code", Required: true}},
		Run:         toolFindCode,
	})
	ts.Register(Tool{
		Name:        "list_cfops_by_digit",
		Description: "Lists reference codes starting with a digit (1-7).",
		Params: []ToolParam{
			{Name: "digit", Description: "leading digit", Required: true},
			{Name: "limit", Description: "maximum entries (default 20)"},
		},
		Run: toolListByDigit,
	})
	ts.Register(Tool{
		Name:        "count_documents",
		Description: "Returns the number of document headers.",
		Run: func(b *Batch, _ Args) (ToolResult, error) {
			n := b.Count(TableHeaders)
			return ToolResult{Text: fmt.Sprintf("Total de notas no cabeçalho: %d", n), Data: n}, nil
		},
	})
	ts.Register(Tool{
		Name:        "count_items",
		Description: "Returns the number of line items.",
		Run: func(b *Batch, _ Args) (ToolResult, error) {
			n := b.Count(TableItems)
			return ToolResult{Text: fmt.Sprintf("Total de itens: %d", n), Data: n}, nil
		},
	})
	ts.Register(Tool{
		Name:        "validate_all",
		Description: "Validates the operation code of every item and summarizes the discrepancies.",
		Params:      []ToolParam{{Name: "limit", Description: "discrepancies to list (default 10)"}},
		Run:         toolValidateAll,
	})
	ts.Register(Tool{
		Name:        "validate_document",
		Description: "Validates the items of one document and explains the inferred code.",
		Params:      []ToolParam{{Name: "number", Description: "document number", Required: true}},
		Run:         toolValidateDocument,
	})
	ts.Register(Tool{
		Name:        "find_by_access_key",
		Description: "Finds documents whose access key contains the given fragment.",
		Params:      []ToolParam{{Name: "key", Description: "full or partial access key", Required: true}},
		Run:         toolFindByAccessKey,
	})
	ts.Register(Tool{
		Name:        "decode_access_key",
		Description: "Splits a 44-digit access key into its fields.",
		Params:      []ToolParam{{Name: "key", Description: "44-digit access key", Required: true}},
		Standalone:  true,
		Run:         toolDecodeAccessKey,
	})
	ts.Register(Tool{
		Name:        "summary",
		Description: "Summarizes the loaded tables.",
		Run: func(b *Batch, _ Args) (ToolResult, error) {
			s := b.Summarize()
			return ToolResult{Text: FormatSummary(s), Data: s}, nil
		},
	})

	return ts
}

func toolFindHeader(b *Batch, args Args) (ToolResult, error) {
	number, err := args.Require("number")
	if err != nil {
		return ToolResult{}, err
	}
	headers := b.FindHeaderByNumber(number)
	if len(headers) == 0 {
		return ToolResult{Text: fmt.Sprintf("Nota %s não encontrada no cabeçalho.", number), Data: headers}, nil
	}
	return ToolResult{Text: FormatHeaders(headers), Data: headers}, nil
}

func toolFindItems(b *Batch, args Args) (ToolResult, error) {
	number, err := args.Require("number")
	if err != nil {
		return ToolResult{}, err
	}
	items := b.FindItemsByNumber(number)
	if len(items) == 0 {
		return ToolResult{Text: fmt.Sprintf("Nenhum item encontrado para nota %s.", number), Data: items}, nil
	}
	return ToolResult{Text: FormatItems(items), Data: items}, nil
}

func toolFindCode(b *Batch, args Args) (ToolResult, error) {
	code, err := args.Require("code")
	if err != nil {
		return ToolResult{}, err
	}
	entry, ok := b.FindByCode(code)
	if !ok {
		return ToolResult{Text: fmt.Sprintf("CFOP %s não encontrado na tabela.", code)}, nil
	}
	return ToolResult{Text: FormatReference([]ReferenceEntry{entry}), Data: entry}, nil
}

func toolListByDigit(b *Batch, args Args) (ToolResult, error) {
	digit, err := args.Require("digit")
	if err != nil {
		return ToolResult{}, err
	}
	limit := intArg(args, "limit", ReferenceListLimit)
	entries := b.ListByLeadingDigit(digit, limit)
	if len(entries) == 0 {
		return ToolResult{Text: fmt.Sprintf("Nenhum CFOP encontrado começando com %s.", digit), Data: entries}, nil
	}
	return ToolResult{Text: FormatReference(entries), Data: entries}, nil
}

func toolValidateAll(b *Batch, args Args) (ToolResult, error) {
	limit := intArg(args, "limit", DiscrepancyDisplayLimit)
	report := b.Validate()
	return ToolResult{Text: FormatValidationReport(report, limit), Data: report.Truncated(limit)}, nil
}

func toolValidateDocument(b *Batch, args Args) (ToolResult, error) {
	number, err := args.Require("number")
	if err != nil {
		return ToolResult{}, err
	}
	check, ok := b.ValidateDocument(number)
	if !ok {
		return ToolResult{Text: fmt.Sprintf("Nota %s não encontrada no cabeçalho.", number)}, nil
	}
	return ToolResult{Text: FormatDocumentCheck(check), Data: check}, nil
}

func toolFindByAccessKey(b *Batch, args Args) (ToolResult, error) {
	key, err := args.Require("key")
	if err != nil {
		return ToolResult{}, err
	}
	match := b.FindByAccessKeySubstring(key)
	if !match.Found() {
		return ToolResult{Text: fmt.Sprintf("Nenhuma nota encontrada com chave contendo: %s", key), Data: match}, nil
	}
	text := "CABEÇALHO:\n" + FormatHeaders(match.Headers)
	if len(match.Items) > 0 {
		text += "\nITENS:\n" + FormatItems(match.Items)
	}
	return ToolResult{Text: text, Data: match}, nil
}

func toolDecodeAccessKey(_ *Batch, args Args) (ToolResult, error) {
	key, err := args.Require("key")
	if err != nil {
		return ToolResult{}, err
	}
	decoded, err := DecodeAccessKey(key)
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Text: FormatAccessKey(decoded), Data: decoded}, nil
}

// intArg parses a positive integer argument, falling back to def.
func intArg(args Args, name string, def int) int {
	v := args.Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
