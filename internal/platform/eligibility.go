package platform

// IsTaskbarEligible reports whether the window would be listed by the task
// switcher. Checks run in a fixed order and stop at the first decision; a
// query failure fails closed.
func IsTaskbarEligible(q Querier, id WindowID) bool {
	if !q.Visible(id) {
		return false
	}

	if cloaked, err := q.Cloaked(id); err != nil || cloaked {
		return false
	}

	// App windows always show, even with the tool window or no-activate bit.
	ex, err := q.ExtendedStyle(id)
	if err != nil {
		return false
	}
	if ex&ExStyleAppWindow != 0 {
		return true
	}
	if ex&(ExStyleToolWindow|ExStyleNoActivate) != 0 {
		return false
	}

	style, err := q.Style(id)
	if err != nil || style&StyleChild != 0 {
		return false
	}

	if q.Owner(id) != 0 {
		return false
	}

	title, err := q.TitleBar(id)
	if err != nil || title&TitleBarInvisible != 0 {
		return false
	}

	return true
}
