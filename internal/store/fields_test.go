package store

import (
	"reflect"
	"testing"
)

func TestMergeFields(t *testing.T) {
	dst := map[string]any{
		"budget":    map[string]any{"valueCents": int64(1000), "isSet": true},
		"darkTheme": false,
	}
	src := map[string]any{
		"budget":    map[string]any{"valueCents": int64(2000)},
		"darkTheme": true,
	}
	MergeFields(dst, src)

	budget := dst["budget"].(map[string]any)
	if budget["valueCents"] != int64(2000) {
		t.Errorf("valueCents = %v, want 2000", budget["valueCents"])
	}
	if budget["isSet"] != true {
		t.Error("sibling field isSet lost during merge")
	}
	if dst["darkTheme"] != true {
		t.Error("scalar field not overwritten")
	}
}

func TestMergeFieldsEmptyMapOverwrites(t *testing.T) {
	dst := map[string]any{
		"progress":     map[string]any{"m1": map[string]any{"sectionsCompleted": []any{"Intro"}}},
		"selectedPath": "beginner",
	}
	src := map[string]any{
		"progress":     map[string]any{},
		"selectedPath": "intermediate",
	}
	MergeFields(dst, src)

	progress, ok := dst["progress"].(map[string]any)
	if !ok {
		t.Fatalf("progress = %T, want map", dst["progress"])
	}
	if len(progress) != 0 {
		t.Errorf("progress = %#v, want empty after explicit empty-map write", progress)
	}
	if dst["selectedPath"] != "intermediate" {
		t.Errorf("selectedPath = %v", dst["selectedPath"])
	}
}

func TestMergeFieldsReplacesNonMap(t *testing.T) {
	dst := map[string]any{"progress": "corrupt"}
	src := map[string]any{"progress": map[string]any{"m1": map[string]any{"completed": false}}}
	MergeFields(dst, src)
	if _, ok := dst["progress"].(map[string]any); !ok {
		t.Fatalf("progress = %T, want map", dst["progress"])
	}
}

func TestSetField(t *testing.T) {
	doc := map[string]any{}
	SetField(doc, []string{"progress", "budgeting-fundamentals"}, map[string]any{"completed": false})
	SetField(doc, []string{"lastUpdated"}, "2026-08-30")

	want := map[string]any{
		"progress": map[string]any{
			"budgeting-fundamentals": map[string]any{"completed": false},
		},
		"lastUpdated": "2026-08-30",
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %#v, want %#v", doc, want)
	}
}

func TestSetFieldKeepsSiblings(t *testing.T) {
	doc := map[string]any{
		"progress": map[string]any{"a": 1},
	}
	SetField(doc, []string{"progress", "b"}, 2)
	p := doc["progress"].(map[string]any)
	if p["a"] != 1 || p["b"] != 2 {
		t.Errorf("progress = %#v", p)
	}
}

func TestEncodeDecode(t *testing.T) {
	type demo struct {
		Name  string `json:"name"`
		Cents int64  `json:"cents"`
	}
	m, err := Encode(demo{Name: "Food", Cents: 1250})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out demo
	if err := Decode(m, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "Food" || out.Cents != 1250 {
		t.Errorf("round trip = %+v", out)
	}
}
