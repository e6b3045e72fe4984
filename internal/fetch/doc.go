// Package fetch retrieves the root manifest, template manifests and template
// archives from a template source.
//
// A Source is either remote, served over unauthenticated HTTP GET from a base
// URL, or local, where archives are built in memory from a template tree so
// development exercises the same extraction path as production. Nothing is
// cached between calls.
package fetch
