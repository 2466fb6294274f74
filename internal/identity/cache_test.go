package identity

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_GetSetCaseInsensitive(t *testing.T) {
	c := NewCache(0, 0)
	c.Set("ABCDEF", AccountInfo{Name: "alice"})

	info, ok := c.Get("abcdef")
	if !ok || info.Name != "alice" {
		t.Fatalf("Get() = (%+v, %v)", info, ok)
	}
	if !c.Contains("AbCdEf") {
		t.Error("Contains() = false for cached key")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d, want 0", c.Len())
	}
}

func TestCache_Capacity(t *testing.T) {
	c := NewCache(0, 0)
	for i := 0; i < DefaultCacheSize+20; i++ {
		c.Set(fmt.Sprintf("%064x", i), AccountInfo{})
	}
	if c.Len() != DefaultCacheSize {
		t.Errorf("Len() = %d, want %d", c.Len(), DefaultCacheSize)
	}
	if c.Contains(fmt.Sprintf("%064x", 0)) {
		t.Error("oldest entry should have been evicted")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache(10, 20*time.Millisecond)
	c.Set("aa", AccountInfo{})
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("aa"); ok {
		t.Error("entry should expire after TTL")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(0, 0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d-%d", w, i%50)
				c.Set(key, AccountInfo{Name: key})
				c.Get(key)
			}
		}(w)
	}
	wg.Wait()
	if c.Len() > DefaultCacheSize {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
