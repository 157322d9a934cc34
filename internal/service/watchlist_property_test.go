package service

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any sequence of add and remove operations, Contains agrees with a
// plain set computed from the same sequence, and the list never holds
// duplicates.
func TestWatchlistSetSemanticsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	env := newTestEnv(t)
	svc := NewWatchlistService(env.watchlistRepo, env.catalogRepo)

	user := env.seedUser(t, 123)

	itemIDs := make([]int64, 5)
	for i := range itemIDs {
		item := env.seedItem(t, 1000+i, "Item")
		itemIDs[i] = item.ID
	}

	properties := gopter.NewProperties(parameters)

	properties.Property("add/remove sequences behave as a set", prop.ForAll(
		func(ops []int) bool {
			// Reset to a known empty state for this case.
			for _, id := range itemIDs {
				if err := svc.Remove(user.ID, id); err != nil {
					t.Logf("reset remove failed: %v", err)
					return false
				}
			}

			expected := make(map[int64]bool)
			for _, op := range ops {
				idx := op % len(itemIDs)
				if idx < 0 {
					idx = -idx
				}
				id := itemIDs[idx]

				if op%2 == 0 {
					if _, err := svc.Add(user.ID, id); err != nil {
						t.Logf("add failed: %v", err)
						return false
					}
					expected[id] = true
				} else {
					if err := svc.Remove(user.ID, id); err != nil {
						t.Logf("remove failed: %v", err)
						return false
					}
					delete(expected, id)
				}
			}

			for _, id := range itemIDs {
				got, err := svc.Contains(user.ID, id)
				if err != nil {
					t.Logf("contains failed: %v", err)
					return false
				}
				if got != expected[id] {
					t.Logf("membership mismatch for item %d", id)
					return false
				}
			}

			entries, err := svc.ListForUser(user.ID)
			if err != nil {
				t.Logf("list failed: %v", err)
				return false
			}
			if len(entries) != len(expected) {
				t.Logf("list length %d, want %d", len(entries), len(expected))
				return false
			}
			seen := make(map[int64]bool)
			for _, e := range entries {
				if seen[e.Entry.ItemID] {
					t.Logf("duplicate entry for item %d", e.Entry.ItemID)
					return false
				}
				seen[e.Entry.ItemID] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 99)),
	))

	properties.TestingRun(t)
}

// Bookmarks and watchlist membership reject items the catalog never stored.
func TestUnknownItemRejectedProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	env := newTestEnv(t)
	watchlistSvc := NewWatchlistService(env.watchlistRepo, env.catalogRepo)
	progressSvc := NewProgressService(env.progressRepo, env.catalogRepo)

	user := env.seedUser(t, 123)

	properties := gopter.NewProperties(parameters)

	properties.Property("writes against absent items fail with not found", prop.ForAll(
		func(itemID int64) bool {
			if _, err := watchlistSvc.Add(user.ID, itemID); err == nil {
				return false
			}
			if _, err := progressSvc.Upsert(user.ID, itemID, 1, 2, false); err == nil {
				return false
			}
			return true
		},
		gen.Int64Range(100000, 200000),
	))

	properties.TestingRun(t)
}
