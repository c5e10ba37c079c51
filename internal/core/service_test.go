package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu          sync.Mutex
	loads       []string
	loadErrs    int
	active      []*Batch
	validations int
	tools       []string
}

func (o *recordingObserver) ObserveLoad(kind string, _ time.Duration, _ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads = append(o.loads, kind)
	if err != nil {
		o.loadErrs++
	}
}

func (o *recordingObserver) SetActiveBatch(b *Batch) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = append(o.active, b)
}

func (o *recordingObserver) ObserveValidation(ValidationReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.validations++
}

func (o *recordingObserver) ObserveTool(name string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tools = append(o.tools, name)
}

func staticLoad(t Tables) LoadFunc {
	return func(context.Context) (Tables, int, error) { return t, 3, nil }
}

func TestService_LoadReplacesBatch(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(ServiceOptions{Observer: obs})

	if _, ok := svc.Current(); ok {
		t.Fatal("new service has a batch")
	}

	first, err := svc.Load(context.Background(), "dir", "/data", staticLoad(sampleTables()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first.Source() != "/data" {
		t.Errorf("Source() = %q", first.Source())
	}

	second, err := svc.Load(context.Background(), "upload", "upload", staticLoad(sampleTables()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cur, ok := svc.Current()
	if !ok || cur != second {
		t.Fatal("Current() is not the latest batch")
	}
	if first.Count(TableItems) != 5 {
		t.Errorf("previous snapshot changed: %d items", first.Count(TableItems))
	}
	if len(obs.loads) != 2 || len(obs.active) != 2 {
		t.Errorf("observer saw loads=%v active=%d", obs.loads, len(obs.active))
	}
}

func TestService_FailedLoadKeepsBatch(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(ServiceOptions{Observer: obs})

	b, err := svc.Load(context.Background(), "dir", "/data", staticLoad(sampleTables()))
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("missing required column: CFOP")
	_, err = svc.Load(context.Background(), "zip", "upload.zip", func(context.Context) (Tables, int, error) {
		return Tables{}, 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want wrapping %v", err, boom)
	}

	cur, _ := svc.Current()
	if cur != b {
		t.Error("failed load replaced the active batch")
	}
	if obs.loadErrs != 1 {
		t.Errorf("loadErrs = %d, want 1", obs.loadErrs)
	}
}

func TestService_LoadTimeout(t *testing.T) {
	svc := NewService(ServiceOptions{LoadTimeout: 10 * time.Millisecond})

	_, err := svc.Load(context.Background(), "postgres", "postgres", func(ctx context.Context) (Tables, int, error) {
		<-ctx.Done()
		return Tables{}, 0, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Load() error = %v, want deadline exceeded", err)
	}
}

func TestService_Discard(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(ServiceOptions{Observer: obs})

	if svc.Discard(context.Background()) {
		t.Error("Discard() on empty session = true")
	}

	if _, err := svc.Load(context.Background(), "dir", "/data", staticLoad(sampleTables())); err != nil {
		t.Fatal(err)
	}
	if !svc.Discard(context.Background()) {
		t.Error("Discard() = false with a batch loaded")
	}
	if _, err := svc.Batch(); !errors.Is(err, ErrNoBatch) {
		t.Errorf("Batch() error = %v, want ErrNoBatch", err)
	}
	if last := obs.active[len(obs.active)-1]; last != nil {
		t.Error("observer not told about discard")
	}
}

func TestService_Validate(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(ServiceOptions{Observer: obs})

	if _, _, err := svc.Validate(); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("Validate() error = %v, want ErrNoBatch", err)
	}

	if _, err := svc.Load(context.Background(), "dir", "/data", staticLoad(sampleTables())); err != nil {
		t.Fatal(err)
	}
	r, b, err := svc.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if b == nil || r.TotalAnalyzed != 5 || r.DiscrepancyCount != 2 {
		t.Errorf("Validate() = %+v", r)
	}
	if obs.validations != 1 {
		t.Errorf("validations = %d", obs.validations)
	}
}

func TestService_InvokeTool(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(ServiceOptions{Observer: obs})

	if _, err := svc.InvokeTool("summary", nil); !errors.Is(err, ErrNoBatch) {
		t.Errorf("InvokeTool() error = %v, want ErrNoBatch", err)
	}

	if _, err := svc.Load(context.Background(), "dir", "/data", staticLoad(sampleTables())); err != nil {
		t.Fatal(err)
	}

	res, err := svc.InvokeTool("count_items", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Total de itens: 5" {
		t.Errorf("Text = %q", res.Text)
	}

	if _, err := svc.InvokeTool("drop_tables", nil); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("error = %v, want ErrUnknownTool", err)
	}

	want := []string{"summary", "count_items", "unknown"}
	if len(obs.tools) != len(want) {
		t.Fatalf("tools = %v, want %v", obs.tools, want)
	}
	for i := range want {
		if obs.tools[i] != want[i] {
			t.Errorf("tools[%d] = %q, want %q", i, obs.tools[i], want[i])
		}
	}
}

func TestService_ConcurrentLoadsBounded(t *testing.T) {
	svc := NewService(ServiceOptions{MaxConcurrentLoads: 1, LoadWait: 20 * time.Millisecond})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := svc.Load(context.Background(), "dir", "a", func(context.Context) (Tables, int, error) {
			close(started)
			<-release
			return sampleTables(), 0, nil
		})
		done <- err
	}()
	<-started

	if got := svc.LoadStatus().Active; got != 1 {
		t.Errorf("Active = %d, want 1", got)
	}

	_, err := svc.Load(context.Background(), "dir", "b", staticLoad(sampleTables()))
	if !errors.Is(err, ErrTooManyLoads) {
		t.Errorf("second Load() error = %v, want ErrTooManyLoads", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.WaitForLoads(ctx); err != nil {
		t.Errorf("WaitForLoads() error = %v", err)
	}
}
