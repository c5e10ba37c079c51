package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultTools_Registered(t *testing.T) {
	ts := DefaultTools()

	want := []string{
		"count_documents", "count_items", "decode_access_key", "find_by_access_key",
		"find_cfop", "find_header", "find_items", "list_cfops_by_digit",
		"summary", "validate_all", "validate_document",
	}
	all := ts.All()
	if len(all) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(all), len(want))
	}
	for i, tool := range all {
		if tool.Name != want[i] {
			t.Errorf("tool[%d] = %s, want %s", i, tool.Name, want[i])
		}
		if tool.Description == "" || tool.Run == nil {
			t.Errorf("tool %s is incomplete", tool.Name)
		}
	}
}

func TestToolset_RegisterDuplicatePanics(t *testing.T) {
	ts := NewToolset()
	tool := Tool{Name: "x", Run: func(*Batch, Args) (ToolResult, error) { return ToolResult{}, nil }}
	ts.Register(tool)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	ts.Register(tool)
}

func TestToolset_Invoke(t *testing.T) {
	ts := DefaultTools()
	b := sampleBatch()

	tests := []struct {
		name     string
		tool     string
		args     Args
		wantText string
	}{
		{"header found", "find_header", Args{"number": "100"}, "VENDA"},
		{"header missing", "find_header", Args{"number": "404"}, "Nota 404 não encontrada no cabeçalho."},
		{"items missing", "find_items", Args{"number": "404"}, "Nenhum item encontrado para nota 404."},
		{"code found", "find_cfop", Args{"code": "5102"}, "Venda de mercadoria adquirida de terceiros"},
		{"code missing", "find_cfop", Args{"code": "9999"}, "CFOP 9999 não encontrado na tabela."},
		{"list by digit", "list_cfops_by_digit", Args{"digit": "6"}, "6102"},
		{"list by digit empty", "list_cfops_by_digit", Args{"digit": "7"}, "Nenhum CFOP encontrado começando com 7."},
		{"count documents", "count_documents", nil, "Total de notas no cabeçalho: 3"},
		{"count items", "count_items", nil, "Total de itens: 5"},
		{"validate all", "validate_all", nil, "Divergências encontradas: 2"},
		{"validate document", "validate_document", Args{"number": "300"}, "DIVERGENTE"},
		{"access key", "find_by_access_key", Args{"key": "12345678000199"}, "ITENS:"},
		{"access key missing", "find_by_access_key", Args{"key": "777"}, "Nenhuma nota encontrada com chave contendo: 777"},
		{"decode", "decode_access_key", Args{"key": validKey}, "UF: 35"},
		{"summary", "summary", nil, "RELATÓRIO DE DADOS CARREGADOS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ts.Invoke(b, tt.tool, tt.args)
			if err != nil {
				t.Fatalf("Invoke(%s) error = %v", tt.tool, err)
			}
			if !strings.Contains(res.Text, tt.wantText) {
				t.Errorf("Invoke(%s) text =\n%s\nwant it to contain %q", tt.tool, res.Text, tt.wantText)
			}
		})
	}
}

func TestToolset_InvokeErrors(t *testing.T) {
	ts := DefaultTools()
	b := sampleBatch()

	if _, err := ts.Invoke(b, "nope", nil); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("unknown tool error = %v", err)
	}
	if _, err := ts.Invoke(b, "find_header", Args{"number": "  "}); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("missing argument error = %v", err)
	}
	if _, err := ts.Invoke(nil, "count_items", nil); !errors.Is(err, ErrNoBatch) {
		t.Errorf("nil batch error = %v", err)
	}
	if _, err := ts.Invoke(b, "decode_access_key", Args{"key": "123"}); !errors.Is(err, ErrMalformedAccessKey) {
		t.Errorf("malformed key error = %v", err)
	}
}

func TestToolset_InvokeStandaloneWithoutBatch(t *testing.T) {
	ts := DefaultTools()

	res, err := ts.Invoke(nil, "decode_access_key", Args{"key": validKey})
	if err != nil {
		t.Fatalf("decode_access_key without batch: %v", err)
	}
	if !strings.Contains(res.Text, "UF: 35") {
		t.Errorf("text = %s", res.Text)
	}

	for _, tool := range ts.All() {
		if tool.Standalone && tool.Name != "decode_access_key" {
			t.Errorf("tool %s is standalone but reads the batch", tool.Name)
		}
	}
}
