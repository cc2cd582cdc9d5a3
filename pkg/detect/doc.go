// Package detect infers parametric primitives from a triangle mesh.
//
// Three independent passes run over the same mesh, in this order:
//
//  1. Cylinders: for each principal axis, the vertices are projected onto
//     the perpendicular plane. If their distances from the projected
//     centroid are near-uniform the axis is accepted.
//  2. Boxes: if enough vertices sit near the eight bounding-box corners the
//     whole mesh is reported as one axis-aligned box.
//  3. Spheres: if vertex distances from the 3D centroid are near-uniform
//     the mesh is reported as one sphere.
//
// The passes are mean/stddev heuristics, not least-squares fits. A single
// tolerance drives all three: the cylinder and sphere passes use it as a
// fraction of the mean distance, the box pass as an absolute distance.
// Every pass resolves degenerate input (no vertices, failed surface
// queries, non-finite statistics) to "nothing detected" rather than an
// error.
package detect
