package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, "citation", 100)
	p.OnBuildComplete(ctx, "citation", 80, 120, time.Second, nil)
	p.OnSampleStart(ctx, "random", "modularity", 500)
	p.OnSampleProgress(ctx, "random", "modularity", 100, 500)
	p.OnSampleComplete(ctx, "random", "modularity", 500, time.Second, nil)
	p.OnAnalyzeStart(ctx, "citations", 80, 120)
	p.OnAnalyzeComplete(ctx, "citations", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "sample")
	c.OnCacheMiss(ctx, "sample")
	c.OnCacheSet(ctx, "graph", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/reports")
	h.OnResponse(ctx, "GET", "/reports", 200, time.Millisecond)
	h.OnError(ctx, "GET", "/reports", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testPipelineHooks{}
	SetPipelineHooks(h)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Pipeline().OnSampleProgress(context.Background(), "random", "insularity", 1, 8)
		}()
	}
	wg.Wait()

	if got := h.count(); got != 8 {
		t.Errorf("received %d progress events, want 8", got)
	}
}

type testPipelineHooks struct {
	NoopPipelineHooks
	mu       sync.Mutex
	progress int
}

func (h *testPipelineHooks) OnSampleProgress(context.Context, string, string, int, int) {
	h.mu.Lock()
	h.progress++
	h.mu.Unlock()
}

func (h *testPipelineHooks) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
