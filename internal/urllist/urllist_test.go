package urllist

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func assertContiguous(t *testing.T, l *List) {
	t.Helper()

	for i, e := range l.Entries() {
		want := fmt.Sprintf("URL %d", i+1)
		if e.Label() != want {
			t.Errorf("entry %d: expected label %s, got %s", i, want, e.Label())
		}
		if e.Position != i+1 {
			t.Errorf("entry %d: expected position %d, got %d", i, i+1, e.Position)
		}
	}
	if len(l.Entries()) != l.Len() {
		t.Errorf("Len() = %d but %d entries displayed", l.Len(), len(l.Entries()))
	}
}

func TestList(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		l := New()
		e, ok := l.Add("  https://a.example ")
		if !ok {
			t.Fatal("expected add to succeed")
		}
		if e.URL != "https://a.example" || e.Label() != "URL 1" || e.ID == "" {
			t.Errorf("unexpected entry: %+v", e)
		}
	})

	t.Run("Add Empty Is A No-op", func(t *testing.T) {
		l := New("https://a.example")
		for _, input := range []string{"", "   ", "\t\n"} {
			if _, ok := l.Add(input); ok {
				t.Errorf("expected %q to be ignored", input)
			}
		}
		if l.Len() != 1 {
			t.Errorf("expected count to stay 1, got %d", l.Len())
		}
	})

	t.Run("Remove Renumbers", func(t *testing.T) {
		l := New("https://a.example", "https://b.example", "https://c.example")
		middle, _ := l.Entry(1)

		if !l.Remove(middle.ID) {
			t.Fatal("expected remove to succeed")
		}
		assertContiguous(t, l)

		want := []string{"https://a.example", "https://c.example"}
		if !reflect.DeepEqual(l.URLs(), want) {
			t.Errorf("got %v, want %v", l.URLs(), want)
		}
		if !reflect.DeepEqual(l.Labels(), []string{"URL 1", "URL 2"}) {
			t.Errorf("unexpected labels: %v", l.Labels())
		}
	})

	t.Run("Remove Unknown", func(t *testing.T) {
		l := New("https://a.example")
		if l.Remove("missing") {
			t.Error("expected remove of unknown id to fail")
		}
		if l.RemoveAt(5) || l.RemoveAt(-1) {
			t.Error("expected out of range RemoveAt to fail")
		}
		if l.Len() != 1 {
			t.Errorf("expected list unchanged, got %d", l.Len())
		}
	})

	t.Run("RemoveAt Uses Remove", func(t *testing.T) {
		l := New("https://a.example", "https://b.example")
		var d Deleter = l

		first, _ := l.Entry(0)
		if !l.RemoveAt(0) {
			t.Fatal("expected RemoveAt to succeed")
		}
		if d.Remove(first.ID) {
			t.Error("entry removed by index should no longer be removable by id")
		}

		remaining, _ := l.Entry(0)
		if remaining.URL != "https://b.example" || remaining.Label() != "URL 1" {
			t.Errorf("unexpected remaining entry: %+v", remaining)
		}
	})

	t.Run("Entries Are Snapshots", func(t *testing.T) {
		l := New("https://a.example")
		entries := l.Entries()
		entries[0].URL = "changed"
		if l.URLs()[0] != "https://a.example" {
			t.Error("mutating a snapshot should not affect the list")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		l := New("https://a.example", "https://b.example")
		l.Clear()
		if l.Len() != 0 || len(l.URLs()) != 0 {
			t.Errorf("expected empty list, got %v", l.URLs())
		}
		l.Add("https://c.example")
		assertContiguous(t, l)
	})

	t.Run("Zero Value", func(t *testing.T) {
		var l List
		l.Add("https://a.example")
		assertContiguous(t, &l)
	})
}

func TestListRandomDeletes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := range 50 {
		n := rng.Intn(12) + 1
		l := New()
		var want []string
		for i := range n {
			u := fmt.Sprintf("https://example.com/%d/%d", round, i)
			l.Add(u)
			want = append(want, u)
		}

		deletes := rng.Intn(n + 1)
		for range deletes {
			idx := rng.Intn(l.Len())
			if rng.Intn(2) == 0 {
				l.RemoveAt(idx)
			} else {
				e, _ := l.Entry(idx)
				l.Remove(e.ID)
			}
			want = append(want[:idx], want[idx+1:]...)
			assertContiguous(t, l)
		}

		if !reflect.DeepEqual(l.URLs(), want) && !(len(want) == 0 && l.Len() == 0) {
			t.Fatalf("round %d: got %v, want %v", round, l.URLs(), want)
		}
	}
}
