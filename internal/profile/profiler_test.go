package profile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/schema"
)

type countingProgress struct {
	total atomic.Int64
	done  atomic.Int64
}

func (p *countingProgress) SetTotal(n int64) { p.total.Store(n) }
func (p *countingProgress) Add(n int64)      { p.done.Add(n) }

// failingSource wraps a source and fails DistinctValues for one column.
type failingSource struct {
	datasource.DataSource
	column string
}

func (s failingSource) DistinctValues(ctx context.Context, column string, max int) (datasource.DistinctSummary, error) {
	if column == s.column {
		return datasource.DistinctSummary{}, errors.New("engine exploded")
	}
	return s.DataSource.DistinctValues(ctx, column, max)
}

func testFrame(t *testing.T) *datasource.FrameSource {
	t.Helper()
	n := 20
	ids := make([]any, n)
	prices := make([]any, n)
	flags := make([]any, n)
	reviews := make([]any, n)
	colors := make([]any, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(i + 1)
		prices[i] = float64(i) * 1.5
		flags[i] = i%2 == 0
		reviews[i] = fmt.Sprintf("this product number %d was really quite good", i)
		colors[i] = []string{"red", "green", "blue"}[i%3]
	}
	flags[3] = nil

	f, err := datasource.NewFrame(
		datasource.NewSeries("id", ids),
		datasource.NewSeries("price", prices),
		datasource.NewSeries("in_stock", flags),
		datasource.NewSeries("review", reviews),
		datasource.NewSeries("color", colors),
	)
	if err != nil {
		t.Fatalf("NewFrame() error: %v", err)
	}
	return datasource.NewFrameSource(f)
}

func TestProfile(t *testing.T) {
	progress := &countingProgress{}
	p := New(Options{Workers: 2, Progress: progress})

	report, err := p.Profile(context.Background(), "products", testFrame(t))
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}

	if report.RunID == "" || report.Rows != 20 || report.Source != "products" {
		t.Errorf("unexpected report header: %+v", report)
	}
	wantOrder := []string{"id", "price", "in_stock", "review", "color"}
	if len(report.Fields) != len(wantOrder) {
		t.Fatalf("got %d fields, want %d", len(report.Fields), len(wantOrder))
	}
	for i, name := range wantOrder {
		if report.Fields[i].Name != name {
			t.Errorf("Fields[%d] = %q, want %q", i, report.Fields[i].Name, name)
		}
	}
	if progress.total.Load() != 5 || progress.done.Load() != 5 {
		t.Errorf("progress = %d/%d, want 5/5", progress.done.Load(), progress.total.Load())
	}

	byName := make(map[string]FieldInfo)
	for _, f := range report.Fields {
		byName[f.Name] = f
	}

	if got := byName["in_stock"].DType; got != datasource.DTypeBool {
		t.Errorf("in_stock dtype = %q, want bool (nullable boolean relabeled)", got)
	}
	if got := byName["id"].NumDistinctValues; got != 20 {
		t.Errorf("id distinct = %d, want 20", got)
	}
	if got := len(byName["id"].DistinctValues); got != DefaultMaxDistinctValues {
		t.Errorf("id kept %d distinct values, want %d", got, DefaultMaxDistinctValues)
	}
	if got := byName["review"].DType; got != datasource.DTypeObject {
		t.Errorf("review dtype = %q, want %q (high cardinality text is not relabeled)", got, datasource.DTypeObject)
	}
	if byName["price"].AvgWords != nil {
		t.Error("numeric column should not have avg words")
	}
	if w := byName["review"].AvgWords; w == nil || *w != 8 {
		t.Errorf("review avg words = %v, want 8", w)
	}
	if got := byName["color"].DType; got != datasource.DTypeObject {
		t.Errorf("color dtype = %q, want object", got)
	}
}

func TestProfileExclude(t *testing.T) {
	p := New(Options{Exclude: []string{"review", "id"}})
	report, err := p.Profile(context.Background(), "products", testFrame(t))
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if len(report.Fields) != 3 || report.Fields[0].Name != "price" {
		t.Errorf("unexpected fields: %+v", report.Fields)
	}
}

func TestProfileRecordsColumnErrors(t *testing.T) {
	src := failingSource{DataSource: testFrame(t), column: "color"}
	report, err := New(Options{}).Profile(context.Background(), "products", src)
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "color" {
		t.Fatalf("Failed() = %+v, want only color", failed)
	}

	meta := Metadata(report, nil)
	for _, m := range meta {
		if m.Name == "color" && !m.Excluded {
			t.Error("failed column should be excluded")
		}
	}
}

func TestProfileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Profile(ctx, "products", testFrame(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Profile() error = %v, want context.Canceled", err)
	}
}

func TestMetadataEndToEnd(t *testing.T) {
	report, err := New(Options{}).Profile(context.Background(), "products", testFrame(t))
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	meta := Metadata(report, []string{"in_stock"})

	want := map[string]struct {
		ftype    schema.FeatureType
		excluded bool
		mode     Mode
	}{
		"id":       {schema.Number, true, ModeInput},
		"price":    {schema.Number, false, ModeInput},
		"in_stock": {schema.Binary, false, ModeOutput},
		"review":   {schema.Text, false, ModeInput},
		"color":    {schema.Category, false, ModeInput},
	}
	for _, m := range meta {
		w := want[m.Name]
		if m.Config.Type != w.ftype || m.Excluded != w.excluded || m.Mode != w.mode {
			t.Errorf("%s: got (%s, excluded=%v, %s), want (%s, excluded=%v, %s)",
				m.Name, m.Config.Type, m.Excluded, m.Mode, w.ftype, w.excluded, w.mode)
		}
	}
}
