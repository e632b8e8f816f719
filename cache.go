package iconstub

import (
	"sync"
)

var globalCache = &cache{}

type cache struct {
	m sync.Map
}

type cacheKey struct {
	width  uint32
	height uint32
	mode   CRCMode
}

func loadEncodedCache(width, height uint32, mode CRCMode) ([]byte, bool) {
	v, ok := globalCache.m.Load(cacheKey{width, height, mode})
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

func storeEncodedCache(width, height uint32, mode CRCMode, b []byte) {
	if len(b) == 0 {
		return
	}
	globalCache.m.Store(cacheKey{width, height, mode}, append([]byte(nil), b...))
}
