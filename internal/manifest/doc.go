// Package manifest handles parsing and validation of scaffolder manifests.
// It supports the root manifest (templates/template.yaml), which lists the
// templates and the language file groups, and per-template manifests
// (templates/<name>/template.yaml), whose files list is the authoritative
// membership of a template. JSON Schema linting against the embedded schemas
// is available separately from parsing.
package manifest
