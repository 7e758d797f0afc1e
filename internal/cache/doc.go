// Package cache provides byte-block caches for lazy-load databases.
//
// LRUBlockCache is a single-mutex LRU bounded in bytes. ShardedLRUBlockCache
// spreads keys over 16 LRUs so that concurrent fetches of different records
// do not contend. Both charge cached bytes to a resource.Controller when one
// is supplied and refuse to cache when it denies the reservation.
package cache
