package extract

import (
	"context"
	"errors"
	"unicode/utf8"
)

// PlainText handles .txt uploads. It validates encoding and passes the
// content through untouched.
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (PlainText) Supports(kind Kind) bool { return kind == KindTXT }

func (PlainText) Extract(_ context.Context, _ Kind, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}
