package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const summarySchemaURL = "file:///schema/summary.schema.json"

//go:embed schema/summary.schema.json
var summarySchema []byte

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(summarySchemaURL, bytes.NewReader(summarySchema)); err != nil {
		loadErr = errors.Wrap(err, "add summary schema")
		return
	}
	s, err := c.Compile(summarySchemaURL)
	if err != nil {
		loadErr = errors.Wrap(err, "compile summary schema")
		return
	}
	schema = s
}

// Summary validates any JSON-marshalable summary document.
func Summary(doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal summary")
	}
	return validateJSON(b)
}

// ValidateMap validates a generic map against the summary schema.
func ValidateMap(m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal summary")
	}
	return validateJSON(b)
}

func validateJSON(b []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrap(err, "decode summary")
	}
	return schema.Validate(v)
}
