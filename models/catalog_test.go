package models

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := map[string]struct {
		kind Kind
		ok   bool
	}{
		"movie":   {KindMovie, true},
		"Movie":   {KindMovie, true},
		"tv":      {KindSeries, true},
		"TV Show": {KindSeries, true},
		"series":  {KindSeries, true},
		"":        {"", false},
		"anime":   {"", false},
		"podcast": {"", false},
	}
	for input, expect := range tests {
		kind, ok := ParseKind(input)
		if kind != expect.kind || ok != expect.ok {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", input, kind, ok, expect.kind, expect.ok)
		}
		if kind.Valid() != ok {
			t.Fatalf("ParseKind(%q) kind %q Valid() = %v, want %v", input, kind, kind.Valid(), ok)
		}
	}
}

func TestEnrichedItemMarshalUsesKindFieldNames(t *testing.T) {
	item := EnrichedItem{
		CatalogItem: CatalogItem{
			Kind:        KindSeries,
			ID:          42,
			Title:       "Slow Horses",
			ReleaseDate: "2022-04-01",
			GenreIDs:    []int{18},
			Popularity:  12.5,
		},
		GenreNames:   []string{"Drama"},
		CombinedInfo: "name: Slow Horses",
	}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["name"] != "Slow Horses" {
		t.Fatalf("expected name field, got %v", fields["name"])
	}
	if fields["first_air_date"] != "2022-04-01" {
		t.Fatalf("expected first_air_date field, got %v", fields["first_air_date"])
	}
	if _, ok := fields["title"]; ok {
		t.Fatal("series record must not carry a title field")
	}
	if fields["kind"] != "series" {
		t.Fatalf("unexpected kind: %v", fields["kind"])
	}
	if fields["combined_info"] != "name: Slow Horses" {
		t.Fatalf("unexpected combined_info: %v", fields["combined_info"])
	}
}

func TestEnrichedItemMarshalEmptyGenres(t *testing.T) {
	item := EnrichedItem{CatalogItem: CatalogItem{Kind: KindMovie, Title: "Untitled"}}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(fields["genre"]) != "[]" {
		t.Fatalf("expected empty genre array, got %s", fields["genre"])
	}
}
