// Package selection decides which declared template files belong to a
// language selection.
//
// Patterns from language_files are compiled once into a Matcher. A file is
// part of the plan when any applicable group matches it; files matching no
// applicable group are excluded. Required groups are checked against the
// resolved selection before any file is classified, so an unmet requirement
// never reaches the filesystem.
package selection
