// Package cache provides the semantic response cache.
// Clean Architecture: Adapter implementing ports.ResponseCache.
// Entries are Redis hashes keyed by prompt digest; lookups scan stored
// embeddings and match on cosine similarity, so a paraphrased question can
// reuse an earlier answer without a generation round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"log"
	"math"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:"

// RedisCache implements ports.ResponseCache on a Redis hash per entry.
type RedisCache struct {
	rdb       *redis.Client
	threshold float32
}

// NewRedisCache connects to Redis at addr. threshold is the minimum cosine
// similarity for a lookup hit.
func NewRedisCache(addr string, threshold float32) (*RedisCache, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.95
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{rdb: rdb, threshold: threshold}, nil
}

// Lookup scans cached entries for the closest embedding at or above the
// threshold. Redis failures count as a miss.
func (c *RedisCache) Lookup(ctx context.Context, embedding []float32) (string, float32, bool) {
	keys, err := c.rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return "", 0, false
	}

	var bestResponse string
	var bestScore float32
	found := false

	for _, key := range keys {
		data, err := c.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			log.Printf("[DEBUG] Reading cache entry %s: %v", key, err)
			continue
		}
		stored := bytesToFloat32([]byte(data["vec"]))
		if len(stored) == 0 {
			continue
		}

		score := cosineSimilarity(embedding, stored)
		if score >= c.threshold && score > bestScore {
			bestScore = score
			bestResponse = data["res"]
			found = true
		}
	}

	return bestResponse, bestScore, found
}

// Store saves a generated response keyed by its prompt digest.
func (c *RedisCache) Store(ctx context.Context, embedding []float32, prompt, response string) error {
	digest := sha256.Sum256([]byte(prompt))
	key := keyPrefix + hex.EncodeToString(digest[:8])

	return c.rdb.HSet(ctx, key, map[string]interface{}{
		"vec": float32ToBytes(embedding),
		"p":   prompt,
		"res": response,
	}).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// float32ToBytes packs a vector as little-endian float32 bytes.
func float32ToBytes(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// bytesToFloat32 unpacks little-endian float32 bytes into a vector.
func bytesToFloat32(b []byte) []float32 {
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return vec
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
