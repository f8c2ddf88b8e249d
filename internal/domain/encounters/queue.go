package encounters

import "sort"

// SortWaiting ordena la sala de espera in place:
// 1. prioridad (urgent > high > normal > low)
// 2. llegada ascendente (primero en llegar, primero en atenderse)
// 3. id ascendente, para que el orden sea total aunque dos llegadas
//    caigan en el mismo instante.
//
// Es una proyección de lectura: se recalcula en cada query en vez de
// mantener una cola aparte que pueda desincronizarse del store.
func SortWaiting(items []Encounter) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := a.Priority.rank(), b.Priority.rank(); ra != rb {
			return ra > rb
		}
		if !a.ArrivedAt.Equal(b.ArrivedAt) {
			return a.ArrivedAt.Before(b.ArrivedAt)
		}
		return a.ID < b.ID
	})
}
