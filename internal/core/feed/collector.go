package feed

import "context"

// Page fetches one batch of raw provider items. cursor is empty on the first
// call; next must be returned empty when the provider has no further pages.
type Page[R any] func(ctx context.Context, cursor string) (items []R, next string, err error)

// Collect drives a Page function until target accepted items have been
// gathered or pagination is exhausted. Each raw item is passed through
// normalize (a false second return marks the item invalid and skips it) and
// then through accept (nil accepts everything). Collection stops mid-page
// the moment the target is met, so the result never exceeds target.
//
// Pages are fetched strictly sequentially with no retries. When a fetch
// fails, Collect returns everything accumulated so far together with the
// error. Exhaustion before the target — an empty page, or a page with no
// next cursor even if it was non-empty — is not an error: the shorter
// result is returned as-is.
func Collect[R, T any](ctx context.Context, fetch Page[R], normalize func(R) (T, bool), accept func(T) bool, target int) ([]T, error) {
	if target <= 0 {
		return nil, nil
	}

	var out []T
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return out, err
		}

		for _, raw := range items {
			item, ok := normalize(raw)
			if !ok {
				continue
			}
			if accept != nil && !accept(item) {
				continue
			}
			out = append(out, item)
			if len(out) == target {
				return out, nil
			}
		}

		if len(items) == 0 || next == "" {
			return out, nil
		}
		cursor = next
	}
}
