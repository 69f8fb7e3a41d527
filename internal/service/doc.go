// Package service holds the application use cases: owner-scoped CRUD over
// terms, phrases and categories, admin user management, bulk import and
// database seeding.
//
// Services receive store interfaces and a *sql.DB through their
// constructors. Operations that touch more than one table run inside
// store.RunInTransaction with transaction-bound stores obtained via WithTx.
//
// Expected conditions are reported with the sentinels from internal/store
// and internal/domain (ErrTermNotFound, ErrTermExists, ErrValidation, ...),
// so callers check them with errors.Is. Unexpected failures are wrapped in a
// ServiceError naming the service and operation.
package service
