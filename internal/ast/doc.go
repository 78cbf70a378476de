// Package ast defines the syntax tree for the ontology-transform DSL.
//
// A parsed source file becomes a Program: an ordered list of statements, one
// per top-level directive (LOAD_CSV, NORMALIZE, AGGREGATE, UNIT_CONVERT,
// ENRICH, COMPUTE, VALIDATE). Statement order is significant and is preserved
// through generation — the emitted Cypher blocks appear in declaration order.
//
// # Pure data
//
// Nodes carry no behavior. The parser constructs every node fully (all fields
// supplied at creation) and nothing mutates a node afterwards. Trees are
// strictly parent-owned: a Program owns its statements, a statement owns its
// clauses and expressions, and no node is shared between parents or across
// compiles.
//
// # Sealed interfaces
//
// Statement and Expr are sealed interfaces using the marker method pattern.
// Only types in this package can implement them.
//
// This enables:
//   - Exhaustive type switches in the generator
//   - Compile-time safety against external extensions
//   - A closed, reviewable variant set at every dispatch site
//
// Example:
//
//	switch s := stmt.(type) {
//	case *Load:
//	    // ...
//	case *Normalize:
//	    // ...
//	// remaining five variants
//	}
//
// # Ordered mappings
//
// Declaration-ordered mappings (column maps, normalization rules, enrich
// output fields) are slices of pair structs, not Go maps. Map iteration order
// would make output nondeterministic; the slice form keeps first-declaration
// position while the parser's upsert rule keeps the last-declared value for a
// repeated key.
package ast
