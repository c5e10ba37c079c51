package schema

import (
	"fmt"
	"strings"
)

// Column names of the source files.
const (
	ColNumber       = "NÚMERO"
	ColNature       = "NATUREZA DA OPERAÇÃO"
	ColIssuerUF     = "UF EMITENTE"
	ColRecipientUF  = "UF DESTINATÁRIO"
	ColScope        = "DESTINO DA OPERAÇÃO"
	ColAccessKey    = "CHAVE DE ACESSO"
	ColCode         = "CFOP"
	ColDescription  = "DESCRIÇÃO"
	ColItemNumber   = "NÚMERO PRODUTO"
	ColProductDesc  = "DESCRIÇÃO DO PRODUTO/SERVIÇO"
	ColIssuerName   = "RAZÃO SOCIAL EMITENTE"
	ColRecipientDoc = "CPF/CNPJ DESTINATÁRIO"
)

// HeaderFieldSpecs describes the document header table.
var HeaderFieldSpecs = []FieldSpec{
	{Name: ColNumber, Type: FieldIdentifier, Required: true},
	{Name: ColNature, Type: FieldText, Required: true, AllowEmpty: true},
	{Name: ColIssuerUF, Type: FieldJurisdiction, Required: true, AllowEmpty: true},
	{Name: ColRecipientUF, Type: FieldJurisdiction, Required: true, AllowEmpty: true},
	{Name: ColScope, Type: FieldText, Required: true, AllowEmpty: true},
	{Name: ColAccessKey, Type: FieldAccessKey, Required: true, AllowEmpty: true},
	{Name: ColIssuerName, Type: FieldText},
	{Name: ColRecipientDoc, Type: FieldText},
}

// ItemFieldSpecs describes the line-item table.
var ItemFieldSpecs = []FieldSpec{
	{Name: ColNumber, Type: FieldIdentifier, Required: true},
	{Name: ColCode, Type: FieldCode, Required: true, AllowEmpty: true},
	{Name: ColItemNumber, Type: FieldIdentifier},
	{Name: ColProductDesc, Type: FieldText},
}

// ReferenceFieldSpecs describes the operation-code reference table.
var ReferenceFieldSpecs = []FieldSpec{
	{Name: ColCode, Type: FieldCode, Required: true},
	{Name: ColDescription, Type: FieldText, Required: true, AllowEmpty: true},
}

// ValidateHeaders checks that all required columns exist in the header row.
// Returns the header index, or an error listing every missing column.
func ValidateHeaders(headers []string, specs []FieldSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, spec := range specs {
		if spec.Required && !idx.Has(spec.Name) {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

// KnownColumns returns the lowercase names of all declared columns.
func KnownColumns(specs []FieldSpec) map[string]bool {
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[strings.ToLower(spec.Name)] = true
	}
	return known
}
