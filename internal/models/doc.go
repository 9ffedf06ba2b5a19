// Package models defines the dashboard view model and the archive entity built around it.
//
// The package contains two categories of types:
//
// 1. View model: immutable values produced by one successful load
//   - [DashboardSnapshot] : every analytics panel of the dashboard
//   - [Track], [RankedTrack], [RecentPlay], [TrackPopularity], [PopularityDistribution] : panel records
//
// 2. Persistent entities: database-backed models with lifecycle timestamps
//   - [PersistedSnapshot] : an archived snapshot with ID, sequence and soft delete support
//
// Persistent entities implement the [Model] interface; [Repository] defines the data access operations.
package models
