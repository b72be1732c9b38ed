package paginate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pages(all [][]string) (FetchFunc[string], *int) {
	calls := 0
	return func(_ context.Context, token *string) ([]string, *string, error) {
		idx := calls
		calls++
		if idx > 0 && (token == nil || *token != tokenFor(idx)) {
			return nil, nil, errors.New("unexpected token")
		}
		var next *string
		if idx < len(all)-1 {
			value := tokenFor(idx + 1)
			next = &value
		}
		return all[idx], next, nil
	}, &calls
}

func tokenFor(idx int) string {
	return string(rune('a' + idx))
}

func TestCollectConcatenatesPagesInOrder(t *testing.T) {
	fetch, calls := pages([][]string{{"a", "b"}, {"c"}, {}, {"d", "a"}})
	got, err := Collect(context.Background(), 10, fetch)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "a"}, got); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}
	if *calls != 4 {
		t.Fatalf("expected 4 fetches, got %d", *calls)
	}
}

func TestCollectSinglePage(t *testing.T) {
	fetch, calls := pages([][]string{{"only"}})
	got, err := Collect(context.Background(), 0, fetch)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 1 || *calls != 1 {
		t.Fatalf("unexpected result %v after %d calls", got, *calls)
	}
}

func TestCollectEmptyTokenStops(t *testing.T) {
	calls := 0
	empty := ""
	got, err := Collect(context.Background(), 5, func(context.Context, *string) ([]int, *string, error) {
		calls++
		return []int{1}, &empty, nil
	})
	if err != nil || calls != 1 || len(got) != 1 {
		t.Fatalf("expected single page, got %v %d %v", got, calls, err)
	}
}

func TestCollectFirstErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	got, err := Collect(context.Background(), 5, func(context.Context, *string) ([]int, *string, error) {
		calls++
		return nil, nil, boom
	})
	if !errors.Is(err, boom) || err != boom {
		t.Fatalf("expected the fetch error unchanged, got %v", err)
	}
	if got != nil || calls != 1 {
		t.Fatalf("expected no items after one call, got %v after %d", got, calls)
	}
}

func TestCollectLaterErrorDiscardsPartialResults(t *testing.T) {
	boom := errors.New("throttled")
	calls := 0
	next := "more"
	got, err := Collect(context.Background(), 5, func(context.Context, *string) ([]int, *string, error) {
		calls++
		if calls == 2 {
			return nil, nil, boom
		}
		return []int{calls}, &next, nil
	})
	if err != boom || got != nil || calls != 2 {
		t.Fatalf("unexpected result %v %v after %d calls", got, err, calls)
	}
}

func TestCollectLimitExceeded(t *testing.T) {
	calls := 0
	next := "again"
	_, err := Collect(context.Background(), 3, func(context.Context, *string) ([]int, *string, error) {
		calls++
		return []int{calls}, &next, nil
	})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 fetches before giving up, got %d", calls)
	}
}

func TestCollectHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := Collect(ctx, 1, func(context.Context, *string) ([]int, *string, error) {
		called = true
		return nil, nil, nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected canceled before any fetch, got %v called=%v", err, called)
	}
}
