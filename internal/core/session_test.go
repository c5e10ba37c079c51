package core

import (
	"errors"
	"sync"
	"testing"
)

func TestSession_ReplaceAndDiscard(t *testing.T) {
	s := NewSession()

	if _, err := s.Require(); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("Require() on empty session = %v, want ErrNoBatch", err)
	}

	first := sampleBatch()
	if prev := s.Replace(first); prev != nil {
		t.Errorf("first Replace returned %v, want nil", prev)
	}

	second := NewBatch(Tables{}, "empty")
	if prev := s.Replace(second); prev != first {
		t.Error("Replace did not return the previous batch")
	}

	cur, ok := s.Current()
	if !ok || cur != second {
		t.Error("Current() is not the replacing batch")
	}

	// the discarded snapshot stays readable
	if got := first.Count(TableItems); got != 5 {
		t.Errorf("old batch items = %d, want 5", got)
	}

	if got := s.Discard(); got != second {
		t.Error("Discard did not return the active batch")
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() reports a batch after Discard")
	}
}

func TestSession_ConcurrentReaders(t *testing.T) {
	s := NewSession()
	s.Replace(sampleBatch())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if b, ok := s.Current(); ok {
				_ = b.Validate()
			}
		}()
		go func() {
			defer wg.Done()
			s.Replace(sampleBatch())
		}()
	}
	wg.Wait()
}
