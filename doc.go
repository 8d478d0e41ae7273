// Package hypex is a Go implementation of the HyperLogLog algorithm from
// "HyperLogLog: the analysis of a near-optimal cardinality estimation
// algorithm" by Flajolet, Fusy, Gandouet and Meunier. This is a cardinality
// estimation algorithm: given a stream of input elements, it will estimate
// the number of unique items in the stream using a small, fixed amount of
// memory. The estimation error can be controlled by choosing the precision,
// which sets how many registers the sketch keeps.
//
// Sketches are plain values. Update and Merge never modify a sketch in
// place; they return a new one, so any number of goroutines can read the
// same sketch without locking. To ingest concurrently, give each worker its
// own sketch and Merge the shards afterwards.
//
// Register storage is pluggable. Two backends ship with the package: a
// dense bit-packed array (the default) and an auto-growing byte array.
// External code can add a backend by implementing the Registers and Backend
// interfaces; all backends produce bit-identical estimates for the same
// logical register contents.
//
// The HyperLogLog paper is available at
// http://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf
package hypex
