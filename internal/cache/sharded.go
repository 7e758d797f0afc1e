package cache

import (
	"context"
	"encoding/binary"
	"hash/maphash"

	"github.com/hupe1980/rvec/resource"
)

const numShards = 16

// ShardedLRUBlockCache spreads keys over independent LRUs.
type ShardedLRUBlockCache struct {
	shards [numShards]*LRUBlockCache
	seed   maphash.Seed
}

// NewShardedLRUBlockCache divides capacity evenly across the shards.
func NewShardedLRUBlockCache(capacity int64, rc *resource.Controller) *ShardedLRUBlockCache {
	per := max(capacity/numShards, 1)
	s := &ShardedLRUBlockCache{seed: maphash.MakeSeed()}
	for i := range numShards {
		s.shards[i] = NewLRUBlockCache(per, rc)
	}
	return s
}

func (s *ShardedLRUBlockCache) shard(key Key) *LRUBlockCache {
	var h maphash.Hash
	h.SetSeed(s.seed)
	var buf [17]byte
	buf[0] = byte(key.Kind)
	binary.LittleEndian.PutUint64(buf[1:], key.Offset)
	binary.LittleEndian.PutUint64(buf[9:], key.Version)
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(key.Path)
	return s.shards[h.Sum64()%numShards]
}

func (s *ShardedLRUBlockCache) Get(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

func (s *ShardedLRUBlockCache) Set(ctx context.Context, key Key, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Invalidate visits every shard.
func (s *ShardedLRUBlockCache) Invalidate(predicate func(key Key) bool) {
	for _, sh := range s.shards {
		sh.Invalidate(predicate)
	}
}

func (s *ShardedLRUBlockCache) Close() error {
	for _, sh := range s.shards {
		if err := sh.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ShardedLRUBlockCache) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the cached bytes across all shards.
func (s *ShardedLRUBlockCache) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}
