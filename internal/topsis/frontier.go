package topsis

// Frontier returns the row indices of the non-dominated alternatives.
// Alternative a dominates b when a is >= b on every benefit criterion, <= on
// every cost criterion, and strictly better on at least one.
// O(n^2 * m) dominance check, fine for the candidate set sizes ranked here.
func Frontier(m *Matrix) []int {
	rows := m.Rows()
	out := make([]int, 0, rows)
	if rows <= 1 {
		for i := 0; i < rows; i++ {
			out = append(out, i)
		}
		return out
	}

	for i := 0; i < rows; i++ {
		dominated := false
		for j := 0; j < rows; j++ {
			if i == j {
				continue
			}
			if m.dominates(j, i) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, i)
		}
	}
	return out
}

func (m *Matrix) dominates(a, b int) bool {
	strictly := false
	for j, c := range m.criteria {
		va, vb := m.At(a, j), m.At(b, j)
		if c.Orientation == Cost {
			va, vb = -va, -vb
		}
		if va < vb {
			return false
		}
		if va > vb {
			strictly = true
		}
	}
	return strictly
}
