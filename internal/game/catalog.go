package game

// Default capability data for the built-in roster. This is plain data behind
// the Ruleset interface; mod-loaded tables can replace it wholesale.

var (
	stepAll  = Pattern{Steps: Surrounding}
	stepOrth = Pattern{Steps: Orthogonal}
	stepDiag = Pattern{Steps: Diagonal}

	knightJumps = Pattern{Steps: []Offset{
		{-2, -1}, {-2, 1}, {-1, 2}, {1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2},
	}}
	leapTwo = Pattern{Steps: []Offset{
		{-2, 0}, {2, 0}, {0, -2}, {0, 2}, {-2, -2}, {-2, 2}, {2, -2}, {2, 2},
	}}

	slideOrth3 = Pattern{Slides: Orthogonal, Range: 3}
	slideDiag2 = Pattern{Slides: Diagonal, Range: 2}
	slideAll2  = Pattern{Slides: Surrounding, Range: 2}
)

// DefaultRuleset builds the capability table for the standard roster.
func DefaultRuleset() Ruleset {
	return Ruleset{
		"villager": {
			Name: "Villager", Cost: 0, AttackCost: 1, Core: true,
			Move: stepAll,
		},
		"zombie": {
			Name: "Zombie", Cost: 1, AttackCost: 1,
			AbilityID: "raise_dead", AbilityCost: 2,
			Move: stepOrth,
		},
		"creeper": {
			Name: "Creeper", Cost: 2, AttackCost: 1, AreaEffect: true,
			Move: stepAll,
		},
		"pig": {
			Name: "Pig", Cost: 1, AttackCost: 1,
			Move: stepOrth,
		},
		"rabbit": {
			Name: "Rabbit", Cost: 1, AttackCost: 1, MovesToAttack: true,
			Move: knightJumps,
		},
		"pufferfish": {
			Name: "Pufferfish", Cost: 2, AttackCost: 1,
			Move: stepDiag,
		},
		"iron_golem": {
			Name: "Iron Golem", Cost: 4, AttackCost: 1,
			Move: stepAll,
		},
		"frog": {
			Name: "Frog", Cost: 2, AttackCost: 1, MovesToAttack: true,
			Move: leapTwo,
		},
		"skeleton": {
			Name: "Skeleton", Cost: 2, AttackCost: 1,
			Move:   stepOrth,
			Attack: &slideOrth3,
		},
		"blaze": {
			Name: "Blaze", Cost: 3, AttackCost: 1,
			Move: slideDiag2,
		},
		"phantom": {
			Name: "Phantom", Cost: 3, AttackCost: 1,
			AbilityID: "sweep", AbilityCost: 2,
			Move: stepDiag,
		},
		"enderman": {
			Name: "Enderman", Cost: 3, AttackCost: 1,
			AbilityID: "blink", AbilityCost: 1,
			Move: stepAll,
		},
		"slime": {
			Name: "Slime", Cost: 2, AttackCost: 1,
			Move: stepAll,
		},
		"shulker_box": {
			Name: "Shulker Box", Cost: 3, AttackCost: 1,
			Move: stepOrth,
			OnSpawn: func(m *Minion, s *State) {
				s.Draw(m.Owner)
			},
		},
		"parrot": {
			Name: "Parrot", Cost: 1, AttackCost: 1,
			Move: slideDiag2,
		},
		"cat": {
			Name: "Cat", Cost: 1, AttackCost: 1, MovesToAttack: true,
			Move: stepAll,
		},
		"sniffer": {
			Name: "Sniffer", Cost: 4, AttackCost: 1,
			Move: stepOrth,
			OnSpawn: func(m *Minion, s *State) {
				s.Players[m.Owner].Mana++
			},
		},
		"wither": {
			Name: "Wither", Cost: 6, AttackCost: 1,
			AbilityID: "wither_pulse", AbilityCost: 3,
			Move:   stepAll,
			Attack: &slideAll2,
		},
	}
}
