// Package meshview normalizes the read-only view of a triangle mesh that
// the primitive detectors need: a plain vertex list, the axis-aligned
// bounds, and a nearest-surface-point query.
//
// Meshes arrive in different forms. A *kernel.Mesh stores its vertices as
// a flat attribute; an external collaborator may instead expose them
// through an accessor. New accepts either and converts the vertices to a
// []v3.Vec once. A value that cannot provide vertices, bounds, and the
// nearest-point query is a programming error at the integration boundary
// and is reported as a *CapabilityError.
package meshview
