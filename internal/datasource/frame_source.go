package datasource

import "context"

// FrameSource is the DataSource over an in-memory Frame.
type FrameSource struct {
	heuristics
	frame *Frame
}

var (
	_ DataSource  = (*FrameSource)(nil)
	_ MediaSource = (*FrameSource)(nil)
)

// NewFrameSource wraps a frame. The frame is referenced, not copied.
func NewFrameSource(f *Frame) *FrameSource {
	s := &FrameSource{frame: f}
	s.heuristics = newHeuristics(s)
	return s
}

func (s *FrameSource) series(column string) (*Series, error) {
	col, ok := s.frame.Column(column)
	if !ok {
		return nil, unknownColumn(column)
	}
	return col, nil
}

// Columns returns the frame's column names.
func (s *FrameSource) Columns() []string {
	return s.frame.Columns()
}

// DType returns the series dtype.
func (s *FrameSource) DType(column string) (string, error) {
	col, err := s.series(column)
	if err != nil {
		return "", err
	}
	return col.DType, nil
}

// DistinctValues returns distinct non-null values in order of first appearance.
func (s *FrameSource) DistinctValues(_ context.Context, column string, maxValues int) (DistinctSummary, error) {
	if err := checkMaxValues(maxValues); err != nil {
		return DistinctSummary{}, err
	}
	col, err := s.series(column)
	if err != nil {
		return DistinctSummary{}, err
	}
	return summarize(col.Values, maxValues), nil
}

// NonNullValues returns the length of the column's null mask, i.e. its row count.
func (s *FrameSource) NonNullValues(_ context.Context, column string) (int, error) {
	col, err := s.series(column)
	if err != nil {
		return 0, err
	}
	return len(col.Values), nil
}

// Len returns the number of rows in the frame.
func (s *FrameSource) Len() int {
	return s.frame.NumRows()
}

func (s *FrameSource) head(_ context.Context, column string, n int) ([]any, error) {
	col, err := s.series(column)
	if err != nil {
		return nil, err
	}
	if n > len(col.Values) {
		n = len(col.Values)
	}
	return col.Values[:n], nil
}

func (s *FrameSource) tokenCandidates(_ context.Context, column string) ([]any, error) {
	col, err := s.series(column)
	if err != nil {
		return nil, err
	}
	return col.Values, nil
}
