// Package scaffold runs the scaffolding pipeline: fetch the root manifest and
// template archive, extract the archive, select the files for the requested
// languages and materialize them into the target directory. Selection errors
// are reported before the filesystem is touched.
package scaffold
