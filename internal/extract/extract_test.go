package extract

import (
	"reflect"
	"testing"
)

var testSpecs = []FieldSpec{
	{Name: FieldTitle, Default: "sem título"},
	{Name: FieldCategory, Default: "GERAL", Normalize: NormalizeEventCategory},
}

func TestExtractNoStartMarker(t *testing.T) {
	inputs := []string{
		"",
		"Nenhum evento encontrado.",
		"TITULO: Show\nEVENTO_END",
	}

	for _, input := range inputs {
		got := Extract(input, "EVENTO_START", "EVENTO_END", testSpecs)
		if len(got) != 0 {
			t.Errorf("Extract(%q) = %v, want empty", input, got)
		}
	}
}

func TestExtractPreservesSourceOrder(t *testing.T) {
	raw := `Intro do modelo
EVENTO_START
TITULO: Primeiro
EVENTO_END
texto solto
EVENTO_START TITULO: Segundo
EVENTO_END
EVENTO_START
TITULO: Terceiro
EVENTO_END
EVENTO_START
TITULO: Sem fim`

	got := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)
	want := []string{"Primeiro", "Segundo", "Terceiro"}

	if len(got) != len(want) {
		t.Fatalf("Extract() returned %d records, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i][FieldTitle] != title {
			t.Errorf("record[%d].TITULO = %q, want %q", i, got[i][FieldTitle], title)
		}
	}
}

func TestExtractStartPairsWithNextEnd(t *testing.T) {
	raw := "EVENTO_START TITULO: A\nEVENTO_START TITULO: B\nEVENTO_END EVENTO_END"

	got := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)
	if len(got) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(got))
	}
	if got[0][FieldTitle] != "A" {
		t.Errorf("TITULO = %q, want first match %q", got[0][FieldTitle], "A")
	}
}

func TestExtractFieldValues(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Record
	}{
		{
			name:  "plain",
			block: "TITULO: Festival de Inverno\nTIPO: show",
			want:  Record{FieldTitle: "Festival de Inverno", FieldCategory: "SHOW"},
		},
		{
			name:  "markdown emphasis and list markers",
			block: "- **TITULO:** `Noite do Samba`  \n* **TIPO**: Festa",
			want:  Record{FieldTitle: "Noite do Samba", FieldCategory: "FESTA"},
		},
		{
			name:  "case-insensitive key",
			block: "titulo: Feira do Livro\nTipo: feira",
			want:  Record{FieldTitle: "Feira do Livro", FieldCategory: "FEIRA"},
		},
		{
			name:  "first match wins",
			block: "TITULO: Primeiro\nTITULO: Segundo",
			want:  Record{FieldTitle: "Primeiro", FieldCategory: "GERAL"},
		},
		{
			name:  "missing and empty fields use defaults",
			block: "TITULO:   \nOUTRO: valor",
			want:  Record{FieldTitle: "sem título", FieldCategory: "GERAL"},
		},
		{
			name:  "unknown category",
			block: "TITULO: X\nTIPO: Palestra",
			want:  Record{FieldTitle: "X", FieldCategory: "GERAL"},
		},
		{
			name:  "key in the middle of a line is ignored",
			block: "TITULO: Show de Rock - Tipo: teatro\nTIPO: festa",
			want:  Record{FieldTitle: "Show de Rock - Tipo: teatro", FieldCategory: "FESTA"},
		},
		{
			name:  "numbered list marker before key",
			block: "1) TITULO: Sarau\n2. TIPO: cultura",
			want:  Record{FieldTitle: "Sarau", FieldCategory: "CULTURA"},
		},
		{
			name:  "key inside another word is ignored",
			block: "SUBTITULO: errado\nTITULO: certo",
			want:  Record{FieldTitle: "certo", FieldCategory: "GERAL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract("EVENTO_START\n"+tt.block+"\nEVENTO_END", "EVENTO_START", "EVENTO_END", testSpecs)
			if len(got) != 1 {
				t.Fatalf("Extract() returned %d records, want 1", len(got))
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("Extract() = %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	raw := "EVENTO_START\nTITULO: A\nTIPO: teatro\nEVENTO_END\nEVENTO_START\nTIPO: ???\nEVENTO_END"

	first := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)
	second := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract() not idempotent: %v != %v", first, second)
	}
}

func TestExtractBlocksAreIndependent(t *testing.T) {
	raw := "EVENTO_START\nTITULO: Com título\nEVENTO_END\nEVENTO_START\nTIPO: show\nEVENTO_END"

	got := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)
	if len(got) != 2 {
		t.Fatalf("Extract() returned %d records, want 2", len(got))
	}
	if got[1][FieldTitle] != "sem título" {
		t.Errorf("second record TITULO = %q, want default", got[1][FieldTitle])
	}

	got[0][FieldTitle] = "mutated"
	again := Extract(raw, "EVENTO_START", "EVENTO_END", testSpecs)
	if again[0][FieldTitle] != "Com título" {
		t.Errorf("records share state between calls: %q", again[0][FieldTitle])
	}
}

func TestCountUnclosed(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"A_START x A_END", 0},
		{"A_START x A_END A_START y", 1},
		{"A_START A_START", 2},
	}

	for _, tt := range tests {
		if got := CountUnclosed(tt.raw, "A_START", "A_END"); got != tt.want {
			t.Errorf("CountUnclosed(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
