package modelcfg

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// SchemaError is a structural schema violation with the offending path.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("model schema: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("model schema: %s", e.Message)
}

// validateSchema unifies the decoded document with the embedded schema and
// reports the first violation.
func validateSchema(doc any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling embedded schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encoding model document: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

func firstSchemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Message: err.Error()}
	}
	first := errs[0]
	path := ""
	if p := first.Path(); len(p) > 0 {
		for i, seg := range p {
			if i > 0 {
				path += "."
			}
			path += seg
		}
	}
	return &SchemaError{Path: path, Message: first.Error()}
}
