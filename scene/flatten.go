package scene

// Flatten returns the drawable elements of s in scene order.
//
// Hidden elements and their children are skipped. Group children inherit
// the group's window: their spawn time is the later of the two and their
// kill time the earlier. Returned elements are copies with Children
// cleared; Moves and Keyframes are shared with s.
func (s Scene) Flatten() []Element {
	out := make([]Element, 0, len(s))
	return flatten(out, s, 0, 0, false)
}

func flatten(out []Element, elems []Element, parentSpawn, parentKill float32, parentHasKill bool) []Element {
	for i := range elems {
		e := elems[i]
		if e.Hidden {
			continue
		}
		e.SpawnTime = max(e.SpawnTime, parentSpawn)
		switch {
		case parentHasKill && e.HasKill:
			e.KillTime = min(e.KillTime, parentKill)
		case parentHasKill:
			e.KillTime = parentKill
			e.HasKill = true
		}

		if e.Kind == Group {
			out = flatten(out, e.Children, e.SpawnTime, e.KillTime, e.HasKill)
			continue
		}
		e.Children = nil
		out = append(out, e)
	}
	return out
}
