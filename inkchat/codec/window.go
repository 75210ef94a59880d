package codec

// ApplyWindow truncates a decoded turn sequence to at most max turns.
// System turns are retained unconditionally up to max; the remaining slots
// hold the most recent non-system turns. Both groups keep their original
// relative order, system turns first. max <= 0 disables windowing.
func ApplyWindow(turns []Turn, max int) []Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	var system, rest []Turn
	for _, t := range turns {
		if t.Role == RoleSystem {
			system = append(system, t)
		} else {
			rest = append(rest, t)
		}
	}
	if len(system) >= max {
		return system[:max]
	}
	keep := max - len(system)
	return append(system, rest[len(rest)-keep:]...)
}
