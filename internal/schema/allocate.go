package schema

// AllocateSlots derives one internal storage slot per field name,
// disjoint from every name already in use anywhere in the type's
// ancestry. Each slot is the field name prefixed with underscores,
// repeated until it collides with nothing. Deterministic: the same
// inputs always yield the same slots, so descriptors are reproducible
// across processes.
func AllocateSlots(fieldNames []string, reserved map[string]bool) []string {
	namespace := make(map[string]bool, len(fieldNames)+len(reserved))
	for _, n := range fieldNames {
		namespace[n] = true
	}
	for n := range reserved {
		namespace[n] = true
	}
	slots := make([]string, len(fieldNames))
	for i, name := range fieldNames {
		slot := name
		for {
			slot = "_" + slot
			if !namespace[slot] {
				namespace[slot] = true
				slots[i] = slot
				break
			}
		}
	}
	return slots
}
