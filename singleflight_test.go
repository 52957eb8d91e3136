package mcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

// TestRemember 回源一次后命中缓存
func TestRemember(t *testing.T) {
	ctx := context.Background()

	c, err := NewWithOptions(WithMemory(DefaultMemoryConfig()))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	callCount := 0
	fn := func() (string, error) {
		callCount++
		return "computed_value", nil
	}

	// 第一次调用，应该执行函数
	val, err := Remember(ctx, c, "remember_key", 600, fn)
	if err != nil {
		t.Fatalf("failed to remember: %v", err)
	}
	if val != "computed_value" {
		t.Errorf("expected 'computed_value', got %s", val)
	}
	if callCount != 1 {
		t.Errorf("expected fn to be called once, got %d", callCount)
	}

	// 第二次调用，应该从缓存获取
	val, err = Remember(ctx, c, "remember_key", 600, fn)
	if err != nil {
		t.Fatalf("failed to remember: %v", err)
	}
	if val != "computed_value" {
		t.Errorf("expected 'computed_value', got %s", val)
	}
	if callCount != 1 {
		t.Errorf("expected fn to be called once, got %d", callCount)
	}
}

// TestRememberWithLock 并发回源只执行一次
func TestRememberWithLock(t *testing.T) {
	ctx := context.Background()

	c, err := NewWithOptions(WithMemory(DefaultMemoryConfig()))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	sf := NewSingleflightCache(c)

	var calls atomic.Int64
	block := make(chan struct{})
	fn := func() (string, error) {
		calls.Add(1)
		<-block
		return "hot_value", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err := RememberWithLock(ctx, sf, "hot_key", 600, fn)
			if err != nil {
				t.Errorf("failed to remember with lock: %v", err)
				return
			}
			results[i] = val
		}(i)
	}

	close(block)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected fn to be called once, got %d", got)
	}
	for i, val := range results {
		if val != "hot_value" {
			t.Errorf("result %d: expected 'hot_value', got %s", i, val)
		}
	}
}

// TestGetTyped 泛型 API
func TestGetTyped(t *testing.T) {
	ctx := context.Background()

	c, err := NewWithOptions(WithMemory(DefaultMemoryConfig()))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	type User struct {
		ID   int64
		Name string
	}

	user := User{ID: 456, Name: "Bob"}
	if err := SetTyped(ctx, c, "typed_user", user, 600); err != nil {
		t.Fatalf("failed to set typed: %v", err)
	}

	cachedUser, found, err := GetTyped[User](ctx, c, "typed_user")
	if err != nil {
		t.Fatalf("failed to get typed: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if cachedUser.ID != user.ID || cachedUser.Name != user.Name {
		t.Errorf("cached user mismatch: got %+v, want %+v", cachedUser, user)
	}

	_, found, err = GetTyped[User](ctx, c, "missing_user")
	if err != nil {
		t.Fatalf("failed to get typed: %v", err)
	}
	if found {
		t.Error("expected cache miss")
	}
}
