package findpeaks

import "testing"

func collectIDs(r *Results) []int {
	var ids []int
	for r.Rewind(); !r.End(); r.Next() {
		ids = append(ids, r.ItemID())
	}
	return ids
}

func TestResults_CursorSemantics(t *testing.T) {
	tree, _ := NewKDTree(2)
	tree.Insert([]float64{0, 0}, 0)
	tree.Insert([]float64{1, 0}, 1)
	tree.Insert([]float64{2, 0}, 2)

	res, _ := tree.Range([]float64{0, 0}, 10)
	if res.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", res.Size())
	}

	// Queries hand the set back already rewound.
	if res.End() {
		t.Fatal("cursor at end on fresh result set")
	}

	count := 1
	for res.Next() {
		count++
	}
	if count != 3 {
		t.Errorf("iterated %d entries, want 3", count)
	}
	if !res.End() {
		t.Error("End() = false after exhausting the cursor")
	}
	if res.Next() {
		t.Error("Next() = true after exhaustion")
	}
	if id := res.ItemID(); id != -1 {
		t.Errorf("ItemID() after exhaustion = %d, want -1", id)
	}

	// Rewind supports a second full pass.
	if ids := collectIDs(res); len(ids) != 3 {
		t.Errorf("second pass saw %d entries, want 3", len(ids))
	}
}

func TestResults_OrderedInsert(t *testing.T) {
	res := newResults()
	nodes := []*treeNode{
		{id: 0}, {id: 1}, {id: 2}, {id: 3},
	}
	res.insert(nodes[0], 9.0, true)
	res.insert(nodes[1], 1.0, true)
	res.insert(nodes[2], 4.0, true)
	res.insert(nodes[3], 4.0, true) // tie goes after the existing equal entry

	res.Rewind()
	var dists []float64
	for ; !res.End(); res.Next() {
		dists = append(dists, res.ItemDistSq())
	}
	want := []float64{1, 4, 4, 9}
	if len(dists) != len(want) {
		t.Fatalf("got %d entries, want %d", len(dists), len(want))
	}
	for i := range want {
		if dists[i] != want[i] {
			t.Errorf("entry %d: distSq = %f, want %f", i, dists[i], want[i])
		}
	}
}

func TestResults_UnorderedInsertPrepends(t *testing.T) {
	res := newResults()
	res.insert(&treeNode{id: 0}, 1.0, false)
	res.insert(&treeNode{id: 1}, 2.0, false)

	res.Rewind()
	if id := res.ItemID(); id != 1 {
		t.Errorf("first entry id = %d, want 1 (last inserted)", id)
	}
}

func TestResults_Release(t *testing.T) {
	tree, _ := NewKDTree(2)
	for i := 0; i < 5; i++ {
		tree.Insert([]float64{float64(i), 0}, i)
	}

	res, _ := tree.Range([]float64{0, 0}, 100)
	res.Release()
	if res.Size() != 0 {
		t.Errorf("Size() = %d after Release, want 0", res.Size())
	}
	if !res.End() {
		t.Error("cursor not at end after Release")
	}
}

func TestResults_ItemPosition(t *testing.T) {
	tree, _ := NewKDTree(2)
	tree.Insert([]float64{3, 4}, 42)

	res, _ := tree.Nearest([]float64{0, 0})
	id, pos := res.Item()
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if len(pos) != 2 || pos[0] != 3 || pos[1] != 4 {
		t.Errorf("pos = %v, want [3 4]", pos)
	}
}
