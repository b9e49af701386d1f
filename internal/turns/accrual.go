package turns

// Accrue applies one generation tick to a single turn balance: the grant
// is added and the result clamped at the cap, and a balance already at or
// above the cap is left alone. Generate implements the same rule
// set-based in SQL for a whole universe; player creation uses it to keep
// configured starting turns inside the cap.
func Accrue(turns, cap, grant int) int {
	if turns >= cap {
		return turns
	}
	next := turns + grant
	if next > cap {
		next = cap
	}
	return next
}
