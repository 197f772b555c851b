// Package vectorstore holds the shared pieces of the persisted index
// format: the embedding BLOB codec used by the SQLite store and the
// metadata recorded alongside the vectors.
package vectorstore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Meta describes a persisted index. The embedder model name is recorded
// so that queries can be refused when the configured embedder would not
// reproduce the stored embedding space.
type Meta struct {
	EmbedderModel string
	Dimension     int
	Chunks        int
}

// EncodeEmbedding encodes a vector as a little-endian sequence of IEEE 754
// float32 values without a length prefix; the length is derived from the
// BLOB size on decode.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeEmbedding decodes a BLOB produced by EncodeEmbedding.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
