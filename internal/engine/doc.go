// Package engine runs the build pipeline: discover, render, apply extensions,
// then preEmission, emit and postEmission. The same firing sequence is reused
// by the watch reconciler, either over the whole collection or scoped to one
// asset.
package engine
