package schema

import (
	_ "embed"
	"fmt"
	"pharmanet-service/internal/domain"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed operations.cue
var operationsSource string

// Validator checks request bodies against the CUE definition named after
// the operation. A cue.Context is not safe for concurrent use, so checks
// are serialised.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

func New() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(operationsSource, cue.Filename("operations.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate the JSON body of a call to operation. Operations without a
// definition pass. Violations fail with ErrInvalidArgument.
func (v *Validator) Validate(operation string, body []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	def := v.definition(operation)
	if !def.Exists() {
		return nil
	}

	data := v.ctx.CompileBytes(body, cue.Filename(operation+".json"))
	if err := data.Err(); err != nil {
		return fmt.Errorf("%s request: malformed body: %w", operation, domain.ErrInvalidArgument)
	}

	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s request: %s: %w", operation, firstLine(err), domain.ErrInvalidArgument)
	}
	return nil
}

func (v *Validator) definition(operation string) cue.Value {
	if operation == "" {
		return cue.Value{}
	}
	return v.schema.LookupPath(cue.ParsePath("#" + operation))
}

func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}
