package tools

import _ "embed"

// questionBankYAML is the built-in assessment question bank, keyed by
// topic. Topics without an entry get a generic comprehension check.
//
//go:embed questions.yaml
var questionBankYAML []byte
