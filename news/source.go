package news

import "context"

// Source fetches articles for a search topic. The returned slice preserves
// fetch order: downstream text generation numbers citations by appearance
// order, so two fetches against unchanged source data must yield the same
// articles in the same order.
type Source interface {
	Fetch(ctx context.Context, topic string, limit int) ([]Article, error)
}
