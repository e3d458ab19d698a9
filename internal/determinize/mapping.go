package determinize

// mappingInstructions linearizes a history renaming into reorder
// instructions ordered so that no instruction overwrites a cell a later one
// still reads.
//
// The mapping is a restricted DAG: bijectivity gives every node at most one
// incoming and one outgoing edge, so it decomposes into simple chains (plus
// trivial self-loops, which need no instruction). Each chain is walked from
// its first reached node toward its sink, stacking every node on the way and
// marking destinations visited, then unwound from the sink backward emitting
// one reorder per edge. Unwinding from the sink guarantees a cell's value is
// read before any later instruction overwrites it.
func mappingInstructions(m *historyMapping) []Instruction {
	ret := make([]Instruction, 0, m.size())
	visited := make(map[*History]bool, m.size())
	var stack []*History

	for _, source := range m.order {
		if visited[source] {
			continue
		}
		visited[source] = true

		stack = append(stack[:0], source)
		cur := source
		for {
			next, ok := m.forward[cur]
			if !ok || visited[next] {
				break
			}
			stack = append(stack, next)
			visited[next] = true
			cur = next
		}

		for len(stack) > 0 {
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if target, ok := m.forward[cur]; ok && target != cur {
				ret = append(ret, reorder(target, cur))
			}
		}
	}
	return ret
}
