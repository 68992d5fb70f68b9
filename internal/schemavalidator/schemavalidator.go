// Package schemavalidator checks annotation data against the JSON-Schema
// documents defined on a collection.
package schemavalidator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// Cause is a single failed constraint.
type Cause struct {
	// JSON pointer into the validated document, "" for the root
	InstanceLocation string
	Message          string
}

// ValidationError lists every constraint the data violated.
type ValidationError struct {
	Causes []Cause
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		loc := c.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", loc, c.Message))
	}
	return strings.Join(msgs, "; ")
}

// Compile parses and compiles a schema document. Remote references are not resolved.
func Compile(document []byte) (*jsonschema.Schema, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return nil, apperror.BadRequest("schema", "schema document is required")
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.LoadURL = func(s string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("loading remote schema %s is not allowed", s)
	}

	if err := c.AddResource(resourceName, bytes.NewReader(document)); err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "schema", "schema document is not valid JSON", err)
	}

	sch, err := c.Compile(resourceName)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "schema", "schema document is not a valid JSON Schema", err)
	}

	return sch, nil
}

// Validate checks data against the schema document. A mismatch is reported
// as a bad request wrapping a *ValidationError.
func Validate(document, data []byte) error {
	sch, err := Compile(document)
	if err != nil {
		return err
	}

	return ValidateWith(sch, data)
}

func ValidateWith(sch *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return apperror.Wrap(apperror.KindBadRequest, "data", "annotation data is not valid JSON", err)
	}

	err := sch.Validate(v)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	verr := &ValidationError{Causes: leafCauses(ve)}
	return apperror.Wrap(apperror.KindBadRequest, "data", "annotation data does not match the schema", verr)
}

func leafCauses(ve *jsonschema.ValidationError) []Cause {
	var out []Cause

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Cause{InstanceLocation: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstanceLocation < out[j].InstanceLocation
	})
	return out
}
