// Package sedes provides the byte-level codec primitives: fixed-width
// unsigned integers, booleans, byte vectors and lists, homogeneous
// lists, and the Container composite codec that the record layer
// composes per-field codecs into.
//
// Encodings are little-endian. Variable-sized encodings carry a 4-byte
// length prefix over their payload, so any value can be skipped or
// extracted without decoding it. Static containers are plain
// concatenations of their field encodings.
//
// Tree roots follow the SSZ merkleization shape: values pack into
// 32-byte chunks, chunks pad with zero chunks to a power of two and
// reduce pairwise with SHA-256, and variable-length values mix their
// length into the root.
package sedes
