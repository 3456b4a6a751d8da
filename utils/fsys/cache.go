/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package fsys

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"dirpx.dev/autoload/apis"
)

// DefaultCleanupInterval is how often expired stat entries are purged.
const DefaultCleanupInterval = time.Minute

// StatCache memoizes IsRegularFile answers (positive and negative) for a
// fixed TTL. It is safe for concurrent use.
type StatCache struct {
	next  apis.FileSystem
	cache *gocache.Cache
}

// Ensure StatCache implements apis.FileSystem.
var _ apis.FileSystem = (*StatCache)(nil)

// NewStatCache puts a cache with the given ttl in front of next.
func NewStatCache(next apis.FileSystem, ttl time.Duration) *StatCache {
	return &StatCache{
		next:  next,
		cache: gocache.New(ttl, DefaultCleanupInterval),
	}
}

// IsRegularFile returns the cached answer for path or asks next.
func (c *StatCache) IsRegularFile(path string) bool {
	if v, found := c.cache.Get(path); found {
		if ok, isBool := v.(bool); isBool {
			return ok
		}
	}
	ok := c.next.IsRegularFile(path)
	c.cache.SetDefault(path, ok)
	return ok
}

// Forget drops the cached answer for path.
func (c *StatCache) Forget(path string) {
	c.cache.Delete(path)
}

// Flush drops every cached answer.
func (c *StatCache) Flush() {
	c.cache.Flush()
}

// Len returns the number of cached answers, expired ones included until
// the next cleanup.
func (c *StatCache) Len() int {
	return c.cache.ItemCount()
}
