package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/appellation/rhai/hash"
)

var (
	randomHash  = hash.Hash(0xce7c18df26a83cfe)
	randomHash2 = hash.Hash(0x5fe43098f155267a)
)

func TestEmptyInputHashNonZero(t *testing.T) {
	assert.NotEqual(t, hash.Bytes(nil), hash.Hash(0))
	assert.NotEqual(t, hash.String(""), hash.Hash(0))
}

func TestHashAdd(t *testing.T) {
	assert.Equal(t, hash.Hash(0).Add(randomHash), randomHash)
	assert.Equal(t, randomHash.Add(hash.Hash(0)), randomHash)
	assert.Equal(t, randomHash.Add(randomHash), hash.Hash(0))
	assert.Equal(t, randomHash.Add(randomHash2), randomHash2.Add(randomHash))
}

func TestHashMerge(t *testing.T) {
	assert.NotEqual(t, hash.Hash(0).Merge(randomHash), randomHash)
	assert.NotEqual(t, hash.Hash(0).Merge(randomHash), hash.Hash(0))
	assert.NotEqual(t, randomHash.Merge(hash.Hash(0)), randomHash)
	assert.NotEqual(t, randomHash.Merge(randomHash2), randomHash2.Merge(randomHash))
}

func BenchmarkHash(b *testing.B) {
	for i := 0; i < b.N; i++ {
		h := randomHash
		for j := 100; j < 200; j++ {
			h = h.Merge(hash.Uint64(uint64(j)))
		}
	}
}
