// Package runtime checks that the toolchains a language selection needs are
// installed: Node.js or Bun for JavaScript and TypeScript, Python 3 for
// Python and Cargo for Rust.
package runtime
