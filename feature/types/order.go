package types

// SortByParent returns defs ordered so that a parent declared in the same
// batch precedes its children. Otherwise the input order is kept.
func SortByParent(defs []TypeDefinition) ([]TypeDefinition, error) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.ID] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(defs))
	out := make([]TypeDefinition, 0, len(defs))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fieldErr("sort", defs[i].ID+".parentId", "parent cycle through %q", defs[i].ParentTypeID)
		}
		state[i] = visiting
		if p, ok := index[defs[i].ParentTypeID]; ok {
			if err := visit(p); err != nil {
				return err
			}
		}
		state[i] = done
		out = append(out, defs[i])
		return nil
	}

	for i := range defs {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}
