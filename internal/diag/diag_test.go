package diag

import (
	"math"
	"slices"
	"strings"
	"testing"

	"astroid/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/short/sample.py", []byte("a\nb\n"), 0)
	vendored := fs.Add("/workspace/venv/lib/site-packages/six.py", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     AnaImportUnresolved,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynError,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: vendored, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	want := []string{
		"error SYN2001 testdata/short/sample.py:1:1 first line second",
		"note SYN2001 testdata/short/sample.py:2:1 note line",
		"warning ANA3002 testdata/short/sample.py:2:1 another",
	}
	got := FormatShort(diags, fs, ShortOpts{Notes: true, SkipInstalled: true})
	if !slices.Equal(got, want) {
		t.Fatalf("FormatShort:\nwant:\n%s\n\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}

	all := FormatShort(diags, fs, ShortOpts{Notes: true})
	if !slices.Contains(all, "note SYN2001 venv/lib/site-packages/six.py:1:1 skip me") {
		t.Fatalf("installed note dropped without SkipInstalled:\n%s", strings.Join(all, "\n"))
	}
	if got := FormatShort(diags, fs, ShortOpts{}); len(got) != 2 {
		t.Fatalf("without notes got %d lines", len(got))
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"info", SevInfo, false},
		{"Warning", SevWarning, false},
		{"warn", SevWarning, false},
		{" ERROR ", SevError, false},
		{"fatal", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestDedupReporterCountsSuppressed(t *testing.T) {
	bag := NewBag(10)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 5}
	for range 3 {
		ReportError(rep, SynError, sp, "invalid syntax").Emit()
	}
	ReportError(rep, SynError, source.Span{Start: 3, End: 6}, "invalid syntax").Emit()
	if bag.Len() != 2 || rep.Suppressed() != 2 {
		t.Fatalf("bag len = %d, suppressed = %d", bag.Len(), rep.Suppressed())
	}
}

func TestBagAndReporters(t *testing.T) {
	bag := NewBag(2)
	rep := NewDedupReporter(BagReporter{Bag: bag})

	sp := source.Span{File: 0, Start: 1, End: 4}
	ReportWarning(rep, AnaInferenceFailed, sp, "cannot infer").Emit()
	ReportWarning(rep, AnaInferenceFailed, sp, "cannot infer").Emit()
	ReportError(rep, SynError, sp, "bad").WithNote(sp, "here").Emit()
	ReportWarning(rep, AnaImportSelf, sp, "dropped by limit").Emit()

	if bag.Len() != 2 {
		t.Fatalf("bag len = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings in bag")
	}
	bag.Sort()
	if bag.Items()[0].Severity != SevError {
		t.Errorf("errors must sort first, got %v", bag.Items()[0].Severity)
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("note lost: %+v", bag.Items()[0])
	}

	other := NewBag(1)
	other.Add(NewError(SynError, sp, "bad"))
	bag.Merge(other)
	if bag.Len() != 3 {
		t.Errorf("after merge len = %d, want 3", bag.Len())
	}
}

func TestBuilderDoesNotShareNotes(t *testing.T) {
	base := NewWarning(AnaImportSelf, source.Span{}, "self").WithNote(source.Span{}, "first")
	a := base.WithNote(source.Span{}, "a")
	b := base.WithNote(source.Span{}, "b")
	if a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" || len(base.Notes) != 1 {
		t.Fatalf("notes aliased: a=%v b=%v base=%v", a.Notes, b.Notes, base.Notes)
	}
}

func TestWithFixKeepsReceiver(t *testing.T) {
	sp := source.Span{File: 1, Start: 0, End: 10}
	base := NewWarning(AnaImportSelf, sp, "self")
	fixed := base.WithFix("remove the import", FixEdit{Span: sp})
	if len(base.Fixes) != 0 {
		t.Fatalf("receiver gained fixes: %+v", base.Fixes)
	}
	if len(fixed.Fixes) != 1 || len(fixed.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", fixed.Fixes)
	}
	if e := fixed.Fixes[0].Edits[0]; e.Span != sp || e.NewText != "" {
		t.Errorf("edit = %+v, want a deletion of the statement span", e)
	}
}

func TestNewBagClampsLimit(t *testing.T) {
	if got := NewBag(-5); got.Add(NewError(SynError, source.Span{}, "x")) {
		t.Error("negative limit accepted a diagnostic")
	}
	big := NewBag(1 << 20)
	if big.max != math.MaxUint16 {
		t.Errorf("limit = %d, want %d", big.max, math.MaxUint16)
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SynError, "SYN2001"},
		{AnaImportSelf, "ANA3001"},
		{IOLoadFileError, "IO4001"},
		{ProjInvalidConfig, "PRJ5001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if Code(3999).Title() != "Unknown error" {
		t.Errorf("unregistered code title = %q", Code(3999).Title())
	}
}
