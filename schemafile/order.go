package schemafile

import (
	"errors"
	"fmt"
	"slices"

	"datakit/internal/common"
)

// classOrder returns class indices so that every class comes after the
// classes it nests. Among classes that are ready at the same time the one
// listed first wins. A nesting cycle is an error naming a class on it.
func classOrder(f *File) ([]int, error) {
	index := make(map[string]int, len(f.Classes))
	for i, c := range f.Classes {
		index[c.Name] = i
	}

	order, err := common.TopoSort(len(f.Classes), func(i int) []int {
		var deps []int

		for _, field := range f.Classes[i].Fields {
			if d, ok := index[field.NestedClass()]; ok && !slices.Contains(deps, d) {
				deps = append(deps, d)
			}
		}

		return deps
	})
	if errors.Is(err, common.ErrCycle) {
		for i, c := range f.Classes {
			if !slices.Contains(order, i) {
				return nil, fmt.Errorf("nesting cycle detected at class %q", c.Name)
			}
		}
	}

	return order, err
}
