package extract

import (
	"context"
	"errors"
	"testing"
)

type fakeExtractor struct {
	kind Kind
	text string
	err  error
}

func (f *fakeExtractor) Supports(kind Kind) bool { return kind == f.kind }

func (f *fakeExtractor) Extract(_ context.Context, _ Kind, _ []byte) (string, error) {
	return f.text, f.err
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		want Kind
	}{
		{"chapter.pdf", KindPDF},
		{"Chapter.PDF", KindPDF},
		{"notes.docx", KindDOCX},
		{"plain.txt", KindTXT},
		{"readme.md", KindTXT},
	}
	for _, tc := range cases {
		got, err := KindOf(tc.name)
		if err != nil {
			t.Errorf("KindOf(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("KindOf(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}

	if _, err := KindOf("archive.zip"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("KindOf(zip): got %v, want ErrUnsupportedFormat", err)
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	chain := NewChain(
		&fakeExtractor{kind: KindPDF, err: errors.New("cannot parse")},
		&fakeExtractor{kind: KindPDF, text: "  chapter text  "},
	)
	text, err := chain.Extract(context.Background(), "book.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "chapter text" {
		t.Errorf("text = %q, want trimmed chapter text", text)
	}
}

func TestChain_AggregatesFailures(t *testing.T) {
	first := errors.New("first failed")
	second := errors.New("second failed")
	chain := NewChain(
		&fakeExtractor{kind: KindPDF, err: first},
		&fakeExtractor{kind: KindPDF, err: second},
	)
	_, err := chain.Extract(context.Background(), "book.pdf", nil)
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("got %v, want ExtractionError", err)
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("aggregated error lost a cause: %v", err)
	}
}

func TestChain_RejectsEmptyText(t *testing.T) {
	chain := NewChain(&fakeExtractor{kind: KindTXT, text: "   \n\t "})
	_, err := chain.Extract(context.Background(), "blank.txt", nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("got %v, want ErrEmptyDocument", err)
	}
}

func TestChain_NoExtractorForKind(t *testing.T) {
	chain := NewChain(NewPlainText())
	_, err := chain.Extract(context.Background(), "book.pdf", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestPlainText_RejectsInvalidUTF8(t *testing.T) {
	_, err := NewPlainText().Extract(context.Background(), KindTXT, []byte{0xff, 0xfe, 0x00})
	if err == nil {
		t.Fatal("invalid UTF-8 accepted")
	}
}

func TestPlainText_PassesContentThrough(t *testing.T) {
	text, err := NewPlainText().Extract(context.Background(), KindTXT, []byte("The chapter begins."))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "The chapter begins." {
		t.Errorf("text = %q", text)
	}
}
