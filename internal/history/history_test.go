package history

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/johndauphine/tabprof/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func report(id, source string, started time.Time) *profile.Report {
	words := 3
	return &profile.Report{
		RunID:     id,
		Source:    source,
		StartedAt: started,
		Rows:      42,
		Fields: []profile.FieldInfo{
			{Name: "a", DType: "int64", NumDistinctValues: 5, NonNullValues: 42},
			{Name: "b", DType: "object", AvgWords: &words},
			{Name: "c", Error: "boom"},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := report("run-1", "data.csv", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Source != "data.csv" || got.Rows != 42 || len(got.Fields) != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Fields[1].AvgWords == nil || *got.Fields[1].AvgWords != 3 {
		t.Errorf("avg words lost: %+v", got.Fields[1])
	}
	if !got.StartedAt.Equal(r.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, r.StartedAt)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestGetKeepsValueTypes(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := report("typed", "data.csv", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	r.Fields[0].DistinctValues = []any{int64(7), 2.5, "x", true, nil}
	r.Fields[1].DistinctValues = []any{[]byte("hi")}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(ctx, "typed")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	want := []any{int64(7), 2.5, "x", true, nil}
	if !reflect.DeepEqual(got.Fields[0].DistinctValues, want) {
		t.Errorf("DistinctValues = %#v, want %#v", got.Fields[0].DistinctValues, want)
	}
	if bytesText := got.Fields[1].DistinctValues; len(bytesText) != 1 || bytesText[0] != "aGk=" {
		t.Errorf("byte value = %#v, want base64 text", bytesText)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Save(ctx, report(id, "t", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save(%s) error: %v", id, err)
		}
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "new" || runs[2].ID != "old" {
		t.Errorf("List(0) = %+v", runs)
	}
	if runs[0].Columns != 3 || runs[0].Failed != 1 || runs[0].Rows != 42 {
		t.Errorf("run summary = %+v", runs[0])
	}

	runs, _ = s.List(ctx, 2)
	if len(runs) != 2 || runs[1].ID != "mid" {
		t.Errorf("List(2) = %+v", runs)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := report("same", "first", time.Now())
	s.Save(ctx, r)
	r.Source = "second"
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	runs, _ := s.List(ctx, 0)
	if len(runs) != 1 || runs[0].Source != "second" {
		t.Errorf("List() = %+v", runs)
	}
}
