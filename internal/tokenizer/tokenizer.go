package tokenizer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tokenizer is a demo vault stand-in: it mints opaque tokens, it does not
// store card data. Real PAN vaulting is out of scope.
type Tokenizer struct{}

func New() *Tokenizer { return &Tokenizer{} }

type Result struct {
	PanToken string
	IBAN     string
}

func (t *Tokenizer) Tokenize(payerID string) Result {
	id := uuid.New()
	raw := strings.ReplaceAll(id.String(), "-", "")
	return Result{
		PanToken: "tok_" + raw,
		IBAN:     fmt.Sprintf("DE%02d%s", len(payerID)%100, strings.ToUpper(raw[:18])),
	}
}
