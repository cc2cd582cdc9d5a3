// Package scene defines the CSG scene tree produced by evaluating a scene
// program. A Scene is built once per evaluation and is not mutated after.
package scene
