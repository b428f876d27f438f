// Package bpp defines the canonical in-memory model for 1-D bin-packing
// instances and the parser that normalizes the supported dataset layouts
// (simple single-instance files and BinPack multi-instance files) into it,
// including per-file decimal-to-integer scaling.
package bpp
