package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/ordercheck/internal/reference"
)

func testIndex(codes ...string) *reference.Index {
	records := make([]reference.Record, len(codes))
	for i, c := range codes {
		records[i] = reference.Record{Code: c}
	}
	return reference.NewIndex(records)
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ParsedRecord
	}{
		{
			name: "five fields",
			line: "A1,1,111,AR,OK",
			want: ParsedRecord{OrderRef: "A1", Sequence: "1", ISBN: "111", Response: "AR", Message: "OK"},
		},
		{
			name: "fields are trimmed",
			line: " A1 , 1 ,111 , AR,  OK ",
			want: ParsedRecord{OrderRef: "A1", Sequence: "1", ISBN: "111", Response: "AR", Message: "OK"},
		},
		{
			name: "missing trailing fields stay empty",
			line: "A1,1",
			want: ParsedRecord{OrderRef: "A1", Sequence: "1"},
		},
		{
			name: "extra fields are dropped",
			line: "A1,1,111,AR,OK,extra,more",
			want: ParsedRecord{OrderRef: "A1", Sequence: "1", ISBN: "111", Response: "AR", Message: "OK"},
		},
		{
			name: "comma in message shifts fields",
			line: "A1,1,111,AR,Out of stock, reorder",
			want: ParsedRecord{OrderRef: "A1", Sequence: "1", ISBN: "111", Response: "AR", Message: "Out of stock"},
		},
		{
			name: "no commas",
			line: "garbage",
			want: ParsedRecord{OrderRef: "garbage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseRecord(tt.line)); diff != "" {
				t.Errorf("ParseRecord(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	idx := testIndex("111", "222")

	tests := []struct {
		name      string
		line      string
		wantState Status
		wantOther bool
	}{
		{"known code with AR", "A1,1,111,AR,OK", StatusAvailable, false},
		{"AR is case insensitive", "A1,1,111,ar,OK", StatusAvailable, false},
		{"unknown code", "A2,2,999,IR,Not found", StatusNotAvailable, false},
		{"unknown code never other error", "A2,2,999,XX,Some error", StatusNotAvailable, false},
		{"known code with IR", "A3,3,222,IR,Whatever", StatusAvailable, true},
		{"known code with unexpected response", "A3,3,222,XX,Fine", StatusAvailable, true},
		{"AR with error message", "A4,4,111,AR,Processing ERROR", StatusAvailable, true},
		{"AR with unavailable message", "A4,4,111,AR,Temporarily Unavailable", StatusAvailable, true},
		{"AR with not available message", "A4,4,111,AR,Title not available", StatusAvailable, true},
		{"empty response", "A5,5,111,,OK", StatusAvailable, true},
		{"missing isbn", "A6,6", StatusNotAvailable, false},
		{"isbn match is exact", "A7,7,1111,AR,OK", StatusNotAvailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line, idx)
			if got.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantState)
			}
			if got.IsOtherError != tt.wantOther {
				t.Errorf("IsOtherError = %v, want %v", got.IsOtherError, tt.wantOther)
			}
		})
	}
}

func TestClassify_NilAndEmptyIndex(t *testing.T) {
	for name, idx := range map[string]Lookup{
		"nil lookup":  nil,
		"empty index": reference.Empty(),
		"nil index":   (*reference.Index)(nil),
	} {
		t.Run(name, func(t *testing.T) {
			got := Classify("A1,1,111,AR,OK", idx)
			if got.Status != StatusNotAvailable || got.IsOtherError {
				t.Errorf("Classify with %s = %+v, want not available", name, got)
			}
		})
	}
}

func TestClassifyAll_PreservesOrderAndLength(t *testing.T) {
	lines := []string{"A1,1,111,AR,OK", "A2,2,999,IR,Not found", "A3,3,222,XX,Some error"}
	got := ClassifyAll(lines, testIndex("111", "222"))

	if len(got) != len(lines) {
		t.Fatalf("len = %d, want %d", len(got), len(lines))
	}
	for i, r := range got {
		if r.OrderRef != ParseRecord(lines[i]).OrderRef {
			t.Errorf("record %d OrderRef = %q, out of order", i, r.OrderRef)
		}
		if r.IsOtherError && r.Status != StatusAvailable {
			t.Errorf("record %d is an other error without being available", i)
		}
	}

	if got := ClassifyAll(nil, testIndex("111")); len(got) != 0 {
		t.Errorf("ClassifyAll(nil) = %v, want empty", got)
	}
}
