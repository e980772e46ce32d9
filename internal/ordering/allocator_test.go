package ordering

import "testing"

func f(v float64) *float64 { return &v }

func TestAllocate_BetweenAnchors(t *testing.T) {
	moved := []Item{
		{ID: "a", Key: 10.0},
		{ID: "b", Key: 20.0},
	}

	got := Allocate(f(1.0), f(2.0), moved)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	// Порядок блока сохраняется, ключи строго между якорями и возрастают
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("block order not preserved: %v", got)
	}
	if !(got[0].Key > 1.0 && got[0].Key < 2.0) {
		t.Errorf("first key %v not strictly inside (1, 2)", got[0].Key)
	}
	if !(got[1].Key > got[0].Key && got[1].Key < 2.0) {
		t.Errorf("second key %v not strictly between %v and 2", got[1].Key, got[0].Key)
	}
}

func TestAllocate_EvenSubdivision(t *testing.T) {
	moved := []Item{{ID: "x", Key: 100}}

	got := Allocate(f(1.0), f(2.0), moved)
	if got[0].Key != 1.5 {
		t.Errorf("expected midpoint 1.5, got %v", got[0].Key)
	}

	got = Allocate(f(0.0), f(4.0), []Item{
		{ID: "a", Key: 7}, {ID: "b", Key: 8}, {ID: "c", Key: 9},
	})
	want := []float64{1.0, 2.0, 3.0}
	for i, w := range want {
		if got[i].Key != w {
			t.Errorf("item %d: expected %v, got %v", i, w, got[i].Key)
		}
	}
}

func TestAllocate_PrevOnly(t *testing.T) {
	got := Allocate(f(5.0), nil, []Item{{ID: "a", Key: 1}})
	if got[0].Key != 6.0 {
		t.Errorf("expected 6.0, got %v", got[0].Key)
	}

	got = Allocate(f(5.0), nil, []Item{
		{ID: "a", Key: 2}, {ID: "b", Key: 1},
	})
	// b шёл раньше a, поэтому получает меньший ключ
	if got[0].ID != "b" || got[0].Key != 6.0 {
		t.Errorf("expected b at 6.0, got %v", got[0])
	}
	if got[1].ID != "a" || got[1].Key != 7.0 {
		t.Errorf("expected a at 7.0, got %v", got[1])
	}
}

func TestAllocate_NextOnly(t *testing.T) {
	got := Allocate(nil, f(10.0), []Item{
		{ID: "a", Key: 1}, {ID: "b", Key: 2}, {ID: "c", Key: 3},
	})

	want := []float64{7.0, 8.0, 9.0}
	for i, w := range want {
		if got[i].Key != w {
			t.Errorf("item %d: expected %v, got %v", i, w, got[i].Key)
		}
	}
	// Последний элемент блока заканчивается на next-1
	if got[2].Key != 9.0 {
		t.Errorf("last item should end at next-1, got %v", got[2].Key)
	}
}

func TestAllocate_NoAnchors(t *testing.T) {
	got := Allocate(nil, nil, []Item{
		{ID: "b", Key: 20}, {ID: "a", Key: 10},
	})
	if got[0].ID != "a" || got[0].Key != 1.0 {
		t.Errorf("expected a at 1.0, got %v", got[0])
	}
	if got[1].ID != "b" || got[1].Key != 2.0 {
		t.Errorf("expected b at 2.0, got %v", got[1])
	}
}

// next <= prev не должен давать NaN или отрицательный шаг:
// ветвь деградирует до "известен только prev".
func TestAllocate_InvertedAnchors(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		next float64
	}{
		{name: "equal anchors", prev: 3.0, next: 3.0},
		{name: "inverted anchors", prev: 5.0, next: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(f(tt.prev), f(tt.next), []Item{{ID: "a", Key: 1}})
			if got[0].Key != tt.prev+1 {
				t.Errorf("expected %v, got %v", tt.prev+1, got[0].Key)
			}
		})
	}
}

func TestAllocate_Empty(t *testing.T) {
	if got := Allocate(f(1.0), f(2.0), nil); got != nil {
		t.Errorf("expected nil for empty block, got %v", got)
	}
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	moved := []Item{{ID: "b", Key: 20}, {ID: "a", Key: 10}}
	Allocate(f(1.0), f(2.0), moved)
	if moved[0].ID != "b" || moved[0].Key != 20 {
		t.Error("input slice was mutated")
	}
}

func TestBisect(t *testing.T) {
	// Дубликат между 3.0 и 4.0 встаёт на 3.5
	if got := Bisect(3.0, f(4.0)); got != 3.5 {
		t.Errorf("expected 3.5, got %v", got)
	}
	// Дубликат последнего элемента встаёт на current+1
	if got := Bisect(3.0, nil); got != 4.0 {
		t.Errorf("expected 4.0, got %v", got)
	}
}
