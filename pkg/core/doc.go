// Package core defines the shared language of the LeapMeta system.
//
// This package contains:
//   - The field Variant tag set and its declaration defaults
//   - The error taxonomy (declaration, nullability, length, pattern,
//     adapter, resolution, target and binding errors)
//   - The code-object catalog contract (CodeObject, CodeResolver)
//   - Connection configuration types (AdapterConfig, Credentials)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
