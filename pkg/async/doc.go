// Package async provides a minimal futures primitive for running independent
// I/O-bound operations concurrently and collecting their results.
//
// The usage counter uses it to fire the per-resource aggregate queries in
// parallel; the counts carry no snapshot-consistency guarantee between each
// other, so unordered concurrent execution is safe there:
//
//	recipes := async.Async(ctx, businessID, countRecipes)
//	orders := async.Async(ctx, businessID, countOrders)
//
//	results, err := async.WaitAll(recipes, orders)
package async
