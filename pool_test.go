package findpeaks

import (
	"math/rand"
	"sync"
	"testing"
)

func TestPool_QueryResultsUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	tree, _ := NewKDTree(2)
	points := make([][]float64, 100)
	for i := range points {
		points[i] = randomPoint(rng, 2)
		tree.Insert(points[i], i)
	}
	query := []float64{50, 50}

	baseline, _ := tree.Range(query, 30)
	want := collectIDs(baseline)

	UsePool(true)
	defer UsePool(false)

	// Run the same query repeatedly so released entries get recycled.
	for round := 0; round < 5; round++ {
		res, err := tree.Range(query, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := collectIDs(res)
		if len(got) != len(want) {
			t.Fatalf("round %d: got %d results, want %d", round, len(got), len(want))
		}
		gotSet := make(map[int]bool, len(got))
		for _, id := range got {
			gotSet[id] = true
		}
		for _, id := range want {
			if !gotSet[id] {
				t.Fatalf("round %d: missing id %d", round, id)
			}
		}
		res.Release()
	}
}

func TestPool_ReusesReleasedEntries(t *testing.T) {
	UsePool(true)
	defer UsePool(false)

	res := newResults()
	res.insert(&treeNode{id: 1}, 1.0, false)
	res.Release()

	poolMu.Lock()
	freed := poolFree
	poolMu.Unlock()
	if freed == nil {
		t.Fatal("released entry not on the free list")
	}

	e := allocEntry()
	if e != freed {
		t.Error("allocEntry did not reuse the released entry")
	}
	if e.node != nil || e.next != nil {
		t.Error("recycled entry not cleared")
	}
}

func TestPool_DisableDropsFreeList(t *testing.T) {
	UsePool(true)
	res := newResults()
	res.insert(&treeNode{id: 1}, 1.0, false)
	res.Release()

	UsePool(false)
	poolMu.Lock()
	defer poolMu.Unlock()
	if poolFree != nil {
		t.Error("free list not dropped on disable")
	}
}

// Separate trees queried from separate goroutines share only the entry
// pool, which its mutex must make safe.
func TestPool_ConcurrentQueries(t *testing.T) {
	UsePool(true)
	defer UsePool(false)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			tree, _ := NewKDTree(2)
			for i := 0; i < 50; i++ {
				tree.Insert(randomPoint(rng, 2), i)
			}
			for q := 0; q < 100; q++ {
				res, err := tree.Range(randomPoint(rng, 2), 25)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				res.Release()
			}
		}(int64(w))
	}
	wg.Wait()
}
