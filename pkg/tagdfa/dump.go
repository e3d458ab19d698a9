package tagdfa

// Dump compiles a pattern and renders its transition table in a stable,
// human-readable form: states, accept slot vectors, edges and the
// instruction list attached to each edge. Useful for debugging and for
// comparing two compilations structurally.
func Dump(pattern string) (string, error) {
	return DumpWithLimit(pattern, 0)
}

// DumpWithLimit is Dump with an explicit DFA state cap.
func DumpWithLimit(pattern string, maxStates int) (string, error) {
	tbl, err := compileTable(pattern, maxStates, false)
	if err != nil {
		return "", err
	}
	return tbl.Dump(), nil
}
