package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "en", "zh-CN", srv.Client())
}

func TestTranslateConcatenatesSegments(t *testing.T) {
	var gotQuery atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(`[[["你好，","Hello, ",null,null,1],["世界","world",null,null,1]],null,"en"]`))
	})

	out, err := client.Translate(context.Background(), "Hello, world")
	require.NoError(t, err)
	require.Equal(t, "你好，世界", out)

	q := gotQuery.Load().(url.Values)
	require.Equal(t, "gtx", q["client"][0])
	require.Equal(t, "en", q["sl"][0])
	require.Equal(t, "zh-CN", q["tl"][0])
	require.Equal(t, "t", q["dt"][0])
	require.Equal(t, "Hello, world", q["q"][0])
}

func TestTranslateEmptyText(t *testing.T) {
	client := NewClient("http://unused.invalid", "en", "zh-CN", nil)
	_, err := client.Translate(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestTranslateBadShapeNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"unexpected": true}`))
	})

	_, err := client.Translate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrBadResponse)
	require.EqualValues(t, 1, calls.Load(), "malformed body must not be retried")
}

func TestTranslateServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Translate(context.Background(), "hello")
	require.Error(t, err)
	require.EqualValues(t, 3, calls.Load(), "transient failures retry up to the attempt limit")
}

func TestTranslateRecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[[["好","good",null,null,1]]]`))
	})

	out, err := client.Translate(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, "好", out)
	require.EqualValues(t, 2, calls.Load())
}

func TestTranslateContextCancel(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Translate(ctx, "hello")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Translate did not return after cancel")
	}
}

func TestServiceCancelAbortsInflight(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	svc := NewService(client)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Translate(context.Background(), "card-1", "hello")
		done <- err
	}()

	// Wait for the request to register before cancelling.
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.inflight) == 1
	}, 5*time.Second, 10*time.Millisecond)

	svc.Cancel("card-1")

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Translate did not return after Cancel")
	}

	svc.mu.Lock()
	require.Empty(t, svc.inflight)
	svc.mu.Unlock()
}

func TestServiceNewerRequestSupersedesOlder(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			<-release
			return
		}
		w.Write([]byte(`[[["第二","second",null,null,1]]]`))
	})
	t.Cleanup(func() { close(release) })

	svc := NewService(client)

	first := make(chan error, 1)
	go func() {
		_, err := svc.Translate(context.Background(), "card-1", "first")
		first <- err
	}()

	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	out, err := svc.Translate(context.Background(), "card-1", "second")
	require.NoError(t, err)
	require.Equal(t, "第二", out)

	select {
	case err := <-first:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request did not return")
	}
}

func TestServiceCancelUnknownCardIsNoOp(t *testing.T) {
	svc := NewService(NewClient("http://unused.invalid", "en", "zh-CN", nil))
	svc.Cancel("never-started")
}

func TestCancelAll(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	svc := NewService(client)

	errs := make(chan error, 2)
	for _, id := range []string{"card-1", "card-2"} {
		go func(id string) {
			_, err := svc.Translate(context.Background(), id, "hello "+id)
			errs <- err
		}(id)
	}

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.inflight) == 2
	}, 5*time.Second, 10*time.Millisecond)

	svc.CancelAll()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("in-flight request did not return after CancelAll")
		}
	}
}
