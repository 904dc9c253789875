package opt

import (
	"encoding/json"
	"testing"
)

type patchDoc struct {
	Title     Value[string] `json:"title"`
	Completed Value[bool]   `json:"completed"`
	Due       Value[string] `json:"due"`
}

func TestValue_AbsentVsNullVsSet(t *testing.T) {
	t.Parallel()

	var doc patchDoc
	if err := json.Unmarshal([]byte(`{"completed":true,"due":null}`), &doc); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if doc.Title.IsSet() {
		t.Fatal("title was not in the document, IsSet() must be false")
	}

	if !doc.Completed.IsSet() {
		t.Fatal("completed was in the document, IsSet() must be true")
	}
	got, ok := doc.Completed.Get()
	if !ok || got != true {
		t.Fatalf("completed Get() = (%v, %v), want (true, true)", got, ok)
	}

	if !doc.Due.IsSet() || !doc.Due.IsNull() {
		t.Fatal("due was explicitly null, IsSet() and IsNull() must be true")
	}
	if _, ok := doc.Due.Get(); ok {
		t.Fatal("due Get() must report not usable for null")
	}
}

func TestValue_Constructors(t *testing.T) {
	t.Parallel()

	v := Of("hello")
	if got, ok := v.Get(); !ok || got != "hello" {
		t.Fatalf("Of Get() = (%q, %v)", got, ok)
	}

	n := Null[string]()
	if !n.IsNull() {
		t.Fatal("Null value must report IsNull")
	}
}

func TestValue_TypeMismatch(t *testing.T) {
	t.Parallel()

	var doc patchDoc
	if err := json.Unmarshal([]byte(`{"completed":"yes"}`), &doc); err == nil {
		t.Fatal("expected error for wrong JSON type")
	}
}
