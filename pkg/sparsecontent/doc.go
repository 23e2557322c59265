// Package sparsecontent provides a reusable library for mutating named
// properties on nodes of a sparse (schema-less) content store, recording
// every mutation as an auditable change record, and running externally
// registered post-processors after entity lifecycle operations.
//
// It exposes a single Service interface that orchestrates property updates,
// node deletion, and authorizable (user/group) deletion. Store
// implementations (memory, Postgres) are provided under repo/ subpackages;
// post-processor implementations (logging, S3 archive) under postproc/.
//
// # Property Semantics
//
// Incoming property values are plain strings. A nil value slice deletes the
// property, an empty slice (or a single empty string) clears it to an empty
// stored value without removing it, and anything else replaces the stored
// value. Client-supplied type hints are never applied: the sparse store does
// not persist property types, so there is no way for a generic read to
// reverse a typed conversion. Hints are logged and otherwise ignored.
package sparsecontent
