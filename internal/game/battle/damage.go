package battle

// Damage computes the damage attacker deals to defender with action.
//
//	base      = max(floor(attackStat/2), 1)
//	base      = floor(base*1.5)              when countered is true
//	reduction = floor(defenseStat/4)
//	damage    = max(base-reduction, 1)
//
// Postcondition: Returns >= 1 for any stat values.
func Damage(attacker, defender Combatant, action Action, countered bool) int {
	base := max(floorDiv(attacker.Stat(action.AttackStat()), 2), 1)
	if countered {
		base = floorDiv(base*3, 2)
	}
	reduction := floorDiv(defender.Stat(action.DefenseStat()), 4)
	return max(base-reduction, 1)
}

// floorDiv divides rounding toward negative infinity so negative stats floor
// the same way a float floor would.
//
// Precondition: d > 0.
func floorDiv(n, d int) int {
	q := n / d
	if n%d != 0 && n < 0 {
		q--
	}
	return q
}
