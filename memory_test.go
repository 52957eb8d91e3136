package mcache

import (
	"context"
	"testing"
	"time"
)

// TestMemoryEngine 内存驱动上的引擎行为
func TestMemoryEngine(t *testing.T) {
	ctx := context.Background()

	c, err := NewWithOptions(
		WithMemory(DefaultMemoryConfig()),
		WithKeyPrefix("test:"),
	)
	if err != nil {
		t.Fatalf("failed to create memory cache: %v", err)
	}
	defer c.Close()

	// 测试 Set/Get
	t.Run("Set/Get", func(t *testing.T) {
		type User struct {
			ID   int64
			Name string
		}

		user := User{ID: 123, Name: "Alice"}
		if err := c.Set(ctx, "user:123", user, 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}

		item, err := c.Get(ctx, "user:123", nil)
		if err != nil {
			t.Fatalf("failed to get cache: %v", err)
		}
		if !item.Found {
			t.Fatal("expected cache hit")
		}

		var cachedUser User
		if err := item.Scan(&cachedUser); err != nil {
			t.Fatalf("failed to scan item: %v", err)
		}
		if cachedUser.ID != user.ID || cachedUser.Name != user.Name {
			t.Errorf("cached user mismatch: got %+v, want %+v", cachedUser, user)
		}
	})

	// 测试回退值
	t.Run("Get fallback", func(t *testing.T) {
		item, err := c.Get(ctx, "nonexistent", "default")
		if err != nil {
			t.Fatalf("failed to get cache: %v", err)
		}
		if item.Found {
			t.Error("expected cache miss")
		}

		var value string
		if err := item.Scan(&value); err != nil {
			t.Fatalf("failed to scan fallback: %v", err)
		}
		if value != "default" {
			t.Errorf("expected 'default', got %s", value)
		}
	})

	// 测试幂等删除：键存在与不存在都成功，删除后 Has 为 false
	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "key1", "value1", 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}
		if err := c.Delete(ctx, "key1"); err != nil {
			t.Fatalf("failed to delete cache: %v", err)
		}
		if err := c.Delete(ctx, "key1"); err != nil {
			t.Errorf("deleting absent key must succeed, got %v", err)
		}

		exists, err := c.Has(ctx, "key1")
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if exists {
			t.Error("expected key to be gone after delete")
		}
	})

	// 测试 Has：存储值为 0 或空字符串时依然命中
	t.Run("Has falsy values", func(t *testing.T) {
		if err := c.Set(ctx, "zero", 0, 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}
		if err := c.Set(ctx, "empty", "", 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}

		for _, key := range []string{"zero", "empty"} {
			exists, err := c.Has(ctx, key)
			if err != nil {
				t.Fatalf("failed to check existence: %v", err)
			}
			if !exists {
				t.Errorf("expected key %q to exist", key)
			}
		}
	})

	// 测试计数器
	t.Run("Incr/Decr", func(t *testing.T) {
		if err := c.Set(ctx, "counter", 5, 600); err != nil {
			t.Fatalf("failed to set counter seed: %v", err)
		}

		counter, err := c.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("failed to incr: %v", err)
		}
		if counter.Value != 6 {
			t.Errorf("expected 6, got %d", counter.Value)
		}

		counter, err = c.IncrBy(ctx, "counter", 10)
		if err != nil {
			t.Fatalf("failed to incrby: %v", err)
		}
		if counter.Value != 16 {
			t.Errorf("expected 16, got %d", counter.Value)
		}

		counter, err = c.Decr(ctx, "counter")
		if err != nil {
			t.Fatalf("failed to decr: %v", err)
		}
		if counter.Value != 15 {
			t.Errorf("expected 15, got %d", counter.Value)
		}

		// 自减在 0 处饱和
		counter, err = c.DecrBy(ctx, "counter", 100)
		if err != nil {
			t.Fatalf("failed to decrby: %v", err)
		}
		if counter.Value != 0 {
			t.Errorf("expected 0, got %d", counter.Value)
		}
	})

	// 测试计数器失败语义
	t.Run("Counter failures", func(t *testing.T) {
		if _, err := c.Incr(ctx, "no_such_counter"); err == nil {
			t.Error("expected incr on missing key to fail")
		}
		if _, err := c.Decr(ctx, "no_such_counter"); err == nil {
			t.Error("expected decr on missing key to fail")
		}

		if err := c.Set(ctx, "text", "abc", 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}
		if _, err := c.Incr(ctx, "text"); err == nil {
			t.Error("expected incr on non-numeric value to fail")
		}
	})

	// 测试批量操作
	t.Run("SetMultiple/GetMultiple/DeleteMultiple", func(t *testing.T) {
		items := map[string]any{
			"k1": "v1",
			"k2": "v2",
			"k3": "v3",
		}
		if err := c.SetMultiple(ctx, items, 600); err != nil {
			t.Fatalf("failed to set multiple: %v", err)
		}

		got, err := c.GetMultiple(ctx, []string{"k1", "k2", "missing"}, []any{nil, nil, "fallback"})
		if err != nil {
			t.Fatalf("failed to get multiple: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 items, got %d", len(got))
		}
		if !got["k1"].Found || !got["k2"].Found {
			t.Error("expected k1 and k2 to be found")
		}
		if got["missing"].Found {
			t.Error("expected 'missing' to fall back")
		}
		var fb string
		if err := got["missing"].Scan(&fb); err != nil || fb != "fallback" {
			t.Errorf("expected positional fallback, got %q (%v)", fb, err)
		}

		if err := c.DeleteMultiple(ctx, "k1", "k2", "k3"); err != nil {
			t.Fatalf("failed to delete multiple: %v", err)
		}
		// 再删一次：全部不存在同样成功
		if err := c.DeleteMultiple(ctx, "k1", "k2", "k3"); err != nil {
			t.Errorf("deleting absent keys must succeed, got %v", err)
		}
	})

	// 测试 Clear 清空整个存储
	t.Run("Clear", func(t *testing.T) {
		if err := c.Set(ctx, "stay", "v", 600); err != nil {
			t.Fatalf("failed to set cache: %v", err)
		}
		if err := c.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		exists, err := c.Has(ctx, "stay")
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if exists {
			t.Error("expected store to be empty after clear")
		}
	})
}

// TestMemoryExpiration 相对 TTL 在内存驱动上真实生效
func TestMemoryExpiration(t *testing.T) {
	ctx := context.Background()

	c, err := NewWithOptions(WithMemory(&MemoryConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   0,
	}))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", "v", 1); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}

	exists, _ := c.Has(ctx, "short")
	if !exists {
		t.Fatal("expected key to exist before expiration")
	}

	time.Sleep(1100 * time.Millisecond)

	exists, _ = c.Has(ctx, "short")
	if exists {
		t.Error("expected key to expire")
	}
}
