// Package search implements the game search panel: a debounced search
// input backed by the catalog, a result list, and the selection panel that
// replaces the input once a game is picked.
//
// Superseding a query aborts its in-flight request and every response is
// tagged with the ID of the request that produced it; responses for
// requests no longer pending are dropped. Only the latest issued query can
// ever reach the result list.
package search
