package stockin

import (
	"reflect"
	"testing"
)

func TestStoreInsert_DuplicatesCollapse(t *testing.T) {
	for _, n := range []int{1, 2, 5, 50} {
		s := NewStore()
		added := 0
		for i := 0; i < n; i++ {
			if s.Insert("BAT-1") {
				added++
			}
		}
		if added != 1 {
			t.Fatalf("n=%d: expected one successful insert, got %d", n, added)
		}
		if got := s.Values(); len(got) != 1 || got[0] != "BAT-1" {
			t.Fatalf("n=%d: unexpected values %v", n, got)
		}
	}
}

func TestStoreValues_InsertionOrderWithoutDuplicates(t *testing.T) {
	s := NewStore()
	for _, v := range []string{"A", "B", "A", "C"} {
		s.Insert(v)
	}
	if got, want := s.Values(), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStoreInsert_CaseSensitive(t *testing.T) {
	s := NewStore()
	if !s.Insert("abc") || !s.Insert("ABC") {
		t.Fatalf("expected values differing in case to both insert")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 values, got %d", s.Len())
	}
}

func TestStoreIsEmpty(t *testing.T) {
	s := NewStore()
	if !s.IsEmpty() {
		t.Fatalf("new store should be empty")
	}
	s.Insert("")
	if s.IsEmpty() {
		t.Fatalf("store with one value should not be empty")
	}
}

func TestStoreValues_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Insert("A")
	got := s.Values()
	got[0] = "mutated"
	if s.Values()[0] != "A" {
		t.Fatalf("Values must not expose internal slice")
	}
}
