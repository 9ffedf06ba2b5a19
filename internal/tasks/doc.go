// Package tasks loads the dashboard: it fans out the analytics catalog and builds a snapshot.
//
// # Catalog
//
// [DefaultCatalog] is the fixed ordered list of eleven [RequestSpec] values. Order defines the
// position of each [FetchOutcome]; it is not a display order.
//
// # Fetching
//
// [FetchEngine.Run] starts one goroutine per entry through an [errgroup.Group] and waits for all of
// them. The join is all-or-nothing:
//
//  1. Every request must return 2xx with a JSON body
//  2. The first failure is returned as a [*BatchFailure] wrapping a [*NetworkError], an [*HTTPError]
//     or [shared.ErrMalformedResponse]
//  3. Siblings are not cancelled and their outcomes are dropped
//
// There are no retries. An optional [rate.Limiter] spaces request starts and an optional timeout
// bounds each request.
//
// # Progress Reporting
//
// Progress is reported on a caller-supplied channel using select with default, so a slow reader
// never blocks the batch.
//
// # Snapshot Building
//
// [Build] maps each outcome by name to its snapshot field. Missing, null or wrongly shaped fields keep
// the default: empty lists, nil objects and zero scalars.
package tasks
