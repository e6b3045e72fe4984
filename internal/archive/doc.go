// Package archive builds and extracts template archives.
//
// An archive is a zip stream whose entries are exactly the files a template
// manifest declares, in declaration order, with fixed metadata so the same
// input always produces the same bytes. The manifest itself is not packaged:
// it is published beside the archive as <name>/template.yaml. Extraction
// rejects any entry that would land outside the extraction root and never
// returns a partial file table.
package archive
