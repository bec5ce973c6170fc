package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// dayExpireSeconds bounds how long a day record lives in memory without being touched.
const dayExpireSeconds = 60 * 60 * 24

// DayCache keeps resolved day records in process memory, keyed by user, domain and date.
// Values are stored as JSON, so callers always get their own copy.
type DayCache struct {
	cache *freecache.Cache

	mu       sync.Mutex
	userKeys map[string]map[string]struct{}
}

func NewDayCache(sizeMB int) *DayCache {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &DayCache{
		cache:    freecache.NewCache(sizeMB * megabyte),
		userKeys: make(map[string]map[string]struct{}),
	}
}

// DayKey builds the userID|domain|date key.
func DayKey(userID, domain, date string) string {
	return strings.Join([]string{userID, domain, date}, "|")
}

// Get decodes the cached value into dst, reporting whether it was found.
func (c *DayCache) Get(key string, dst any) bool {
	raw, err := c.cache.Get([]byte(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Errorf("day cache: unmarshal %s: %s", key, err)
		c.cache.Del([]byte(key))
		return false
	}
	return true
}

func (c *DayCache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if err := c.cache.Set([]byte(key), raw, dayExpireSeconds); err != nil {
		return fmt.Errorf("day cache set %s: %w", key, err)
	}

	userID, _, _ := strings.Cut(key, "|")
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, ok := c.userKeys[userID]
	if !ok {
		keys = make(map[string]struct{})
		c.userKeys[userID] = keys
	}
	keys[key] = struct{}{}
	return nil
}

func (c *DayCache) Delete(key string) {
	c.cache.Del([]byte(key))
}

// DeleteUser drops every entry that was cached for userID.
func (c *DayCache) DeleteUser(userID string) {
	c.mu.Lock()
	keys := c.userKeys[userID]
	delete(c.userKeys, userID)
	c.mu.Unlock()

	for key := range keys {
		c.cache.Del([]byte(key))
	}
}

func (c *DayCache) Clear() {
	c.cache.Clear()
	c.mu.Lock()
	c.userKeys = make(map[string]map[string]struct{})
	c.mu.Unlock()
}

func (c *DayCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
