// Package mocks provides in-memory test doubles for the store and auth
// interfaces.
//
// Each mock keeps a small in-memory model so a test can exercise a service
// or handler end to end without a database. Any method can be overridden by
// setting the matching Fn field:
//
//	terms := mocks.NewMockTermStore(categories)
//	terms.CreateFn = func(ctx context.Context, t *domain.Term) error {
//	    return store.ErrTermExists
//	}
//
// WithTx returns the mock itself, so code running inside
// store.RunInTransaction sees the same data.
package mocks
