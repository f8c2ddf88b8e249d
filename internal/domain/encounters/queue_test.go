package encounters

import (
	"testing"
	"time"
)

func waiting(id string, prio Priority, arrived time.Time) Encounter {
	return Encounter{
		ID:        id,
		ClinicID:  "clinic-1",
		State:     StateWaiting,
		Priority:  prio,
		ArrivedAt: arrived,
	}
}

func TestSortWaiting_PriorityThenArrival(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	items := []Encounter{
		waiting("d", PriorityLow, t0),
		waiting("c", PriorityNormal, t0.Add(2*time.Minute)),
		waiting("b", PriorityNormal, t0.Add(1*time.Minute)),
		waiting("a", PriorityUrgent, t0.Add(30*time.Minute)),
		waiting("e", PriorityHigh, t0.Add(10*time.Minute)),
	}

	SortWaiting(items)

	// urgent gana aunque haya llegado último dentro de su franja.
	want := []string{"a", "e", "b", "c", "d"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestSortWaiting_TieBreaksByID(t *testing.T) {
	t0 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	// Misma prioridad y mismo instante de llegada (colisión sub-segundo):
	// el orden tiene que seguir siendo total y reproducible.
	items := []Encounter{
		waiting("zzz", PriorityNormal, t0),
		waiting("aaa", PriorityNormal, t0),
		waiting("mmm", PriorityNormal, t0),
	}

	SortWaiting(items)

	want := []string{"aaa", "mmm", "zzz"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}

	// Reordenar la entrada no cambia la salida.
	items2 := []Encounter{
		waiting("mmm", PriorityNormal, t0),
		waiting("zzz", PriorityNormal, t0),
		waiting("aaa", PriorityNormal, t0),
	}
	SortWaiting(items2)
	for i := range items {
		if items[i].ID != items2[i].ID {
			t.Fatalf("ordering is not deterministic at %d", i)
		}
	}
}
