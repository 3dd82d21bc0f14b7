package sedes

import (
	"crypto/sha256"
	"encoding/binary"
)

// BytesPerChunk is the merkle leaf width.
const BytesPerChunk = 32

// zeroHashes[i] is the root of a fully zero subtree of depth i.
// Precomputing the ladder keeps merkleization of padded trees cheap.
var zeroHashes [64][32]byte

func init() {
	for i := 1; i < len(zeroHashes); i++ {
		zeroHashes[i] = hashNodes(zeroHashes[i-1], zeroHashes[i-1])
	}
}

func hashNodes(left, right [32]byte) [32]byte {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// PackBytes splits b into 32-byte chunks, zero-padding the final
// chunk. Empty input packs to no chunks.
func PackBytes(b []byte) [][32]byte {
	if len(b) == 0 {
		return nil
	}
	n := (len(b) + BytesPerChunk - 1) / BytesPerChunk
	chunks := make([][32]byte, n)
	for i := range chunks {
		copy(chunks[i][:], b[i*BytesPerChunk:])
	}
	return chunks
}

// Merkleize computes the root of a binary tree over chunks, virtually
// padded with zero chunks to the next power of two. No chunks yields
// the zero chunk.
func Merkleize(chunks [][32]byte) [32]byte {
	if len(chunks) == 0 {
		return zeroHashes[0]
	}
	depth := 0
	for 1<<depth < len(chunks) {
		depth++
	}
	layer := make([][32]byte, len(chunks))
	copy(layer, chunks)
	for level := 0; level < depth; level++ {
		next := make([][32]byte, (len(layer)+1)/2)
		for i := range next {
			left := layer[2*i]
			right := zeroHashes[level]
			if 2*i+1 < len(layer) {
				right = layer[2*i+1]
			}
			next[i] = hashNodes(left, right)
		}
		layer = next
	}
	return layer[0]
}

// MixInLength commits a length alongside a root: hash(root ++
// little-endian(length) padded to 32 bytes).
func MixInLength(root [32]byte, length uint64) [32]byte {
	var lenChunk [32]byte
	binary.LittleEndian.PutUint64(lenChunk[:8], length)
	return hashNodes(root, lenChunk)
}
