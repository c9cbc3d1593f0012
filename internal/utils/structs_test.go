package utils

import (
	"errors"
	"reflect"
	"testing"
)

type tagged struct {
	ID      string `db:"id"`
	Title   string `db:"title"`
	Skipped string `db:"-"`
	NoTag   string
	hidden  string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	got := StructTagValues(&tagged{hidden: ""})
	want := []string{"id", "title"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StructTagValues = %v, want %v", got, want)
	}

	// accepts values as well as pointers
	if got := StructTagValues(tagged{}); !reflect.DeepEqual(got, want) {
		t.Errorf("StructTagValues(value) = %v, want %v", got, want)
	}
}

func TestStructToMap(t *testing.T) {
	got := StructToMap(&tagged{ID: "abc", Title: "fuga de agua", Skipped: "x", NoTag: "y"})
	want := map[string]any{"id": "abc", "title": "fuga de agua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StructToMap = %v, want %v", got, want)
	}
}

func TestErrorWrapOrNil(t *testing.T) {
	if err := ErrorWrapOrNil(nil, "context"); err != nil {
		t.Errorf("nil error should stay nil, got %v", err)
	}

	base := errors.New("boom")
	wrapped := ErrorWrapOrNil(base, "saving incident")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the original")
	}
	if wrapped.Error() != "saving incident: boom" {
		t.Errorf("wrapped = %q", wrapped.Error())
	}

	if err := ErrorWrapOrNil(base, ""); err != base {
		t.Error("empty message should return the error unchanged")
	}
}
