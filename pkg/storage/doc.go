/*
Package storage provides the pluggable archive abstraction for historian
samples.

Two backends implement the Storage interface:

  - memory: in-memory slice, for tests and ephemeral development use
  - badger: BadgerDB (LSM tree) for persistent archives

Queries are interval-oriented rather than (start, end)-oriented: the request
carries a timerange.Interval whose direction controls result ordering. A
forward interval returns samples oldest first, a backward interval newest
first. Within a single timestamp the archive (insertion) order is preserved,
which keeps partitioned fetches deterministic when they are concatenated.

Usage:

	store, err := badger.New(badger.Config{Path: "./data"})
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	err = store.Write(ctx, []historian.Sample{
	    {Tag: "boiler.temp", Value: 75.5, Good: true, Timestamp: time.Now()},
	})

	results, err := store.Query(ctx, storage.QueryRequest{
	    Interval: timerange.New(time.Now().Add(-time.Hour), time.Now()),
	    Tags:     []string{"boiler.temp"},
	    GoodOnly: true,
	})

Always call Close when done, and use context.WithTimeout to bound slow
queries against large archives.
*/
package storage
