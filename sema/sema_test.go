package sema_test

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-threads/sema"
)

func TestTryWaitOnEmpty(t *testing.T) {
	s := sema.New()
	if !s.Usable() {
		t.Fatal("fresh semaphore must be usable")
	}
	if s.TryWait() {
		t.Error("TryWait on zero count must fail")
	}
	s.Post()
	if !s.TryWait() {
		t.Error("TryWait after Post must succeed")
	}
	if s.TryWait() {
		t.Error("count must be back to zero")
	}
}

func TestWaitBlocksUntilPost(t *testing.T) {
	s := sema.New()
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Wait returned before Post")
	case <-time.After(50 * time.Millisecond):
	}
	s.Post()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Post did not wake the waiter")
	}
}

func TestPostWaitBalanceAcrossGoroutines(t *testing.T) {
	const waiters = 8
	const rounds = 1000

	s := sema.New()
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				s.Wait()
			}
		}()
	}
	for i := 0; i < waiters*rounds; i++ {
		s.Post()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("waiters starved: posts and waits did not balance")
	}
	if s.TryWait() {
		t.Error("count must be exactly zero after balanced posts and waits")
	}
}
