package a

import (
	"context"
	"fmt"
)

type KnowledgeBase interface {
	Ask(ctx context.Context, query string) (bool, error)
	Select(ctx context.Context, query string) ([]string, error)
}

type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (int, error)) (int, error)
}

func bad(ctx context.Context, ids []string, kb KnowledgeBase, c Cache) {
	for _, id := range ids {
		kb.Ask(ctx, id)              // want "Ask called inside loop"
		c.GetOrCompute(ctx, id, nil) // want "GetOrCompute called inside loop"
	}
}

func paging(ctx context.Context, kb KnowledgeBase) {
	//placefolk:sequential
	for offset := 0; ; offset += 12 {
		rows, _ := kb.Select(ctx, fmt.Sprint("page ", offset))
		if len(rows) < 12 {
			return
		}
	}
}

func deferred(ctx context.Context, ids []string, kb KnowledgeBase) []func() {
	var fns []func()
	for _, id := range ids {
		fns = append(fns, func() { kb.Ask(ctx, id) })
	}
	return fns
}

func good(ctx context.Context, ids []string, kb KnowledgeBase) {
	kb.Select(ctx, "all")
	for _, id := range ids {
		_ = len(id)
	}
}
