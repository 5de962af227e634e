//go:build !gosseract

package ocr

import (
	"context"
	"errors"
)

// ErrGosseractNotEnabled is returned when the gosseract engine is selected
// but the binary was built without -tags gosseract.
var ErrGosseractNotEnabled = errors.New("gosseract engine not enabled; rebuild with -tags gosseract")

type gosseractEngine struct{}

func newGosseractEngine(Config) recognizer { return gosseractEngine{} }

func (gosseractEngine) recognize(context.Context, []byte) (string, error) {
	return "", ErrGosseractNotEnabled
}
