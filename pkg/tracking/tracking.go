package tracking

import "github.com/craftmandi/craft-finder/pkg/types"

// Tracker receives listing behaviour events. The engine never depends
// on delivery; a nil or noop tracker is always valid.
type Tracker interface {
	TrackListingView(sessionId int, category types.CategoryRef)
	TrackFilterChange(sessionId int, category types.CategoryRef, filters *types.FilterState, sort types.SortOrder)
	Close() error
}

type NoopTracker struct{}

func (NoopTracker) TrackListingView(int, types.CategoryRef) {}
func (NoopTracker) TrackFilterChange(int, types.CategoryRef, *types.FilterState, types.SortOrder) {
}
func (NoopTracker) Close() error { return nil }
