package roster

import "github.com/cory-johannsen/trinity/internal/game/battle"

// DemoPlayers is the line-up offered when the owner has no stored monsters.
var DemoPlayers = []battle.Combatant{
	{ID: "demo-aegis-hatchling", Name: "Aegis Hatchling", Strength: 40, Agility: 35, Intelligence: 30, Level: 2, Origin: battle.OriginDemo},
	{ID: "demo-cobalt-runner", Name: "Cobalt Runner", Strength: 30, Agility: 52, Intelligence: 28, Level: 3, Origin: battle.OriginDemo},
	{ID: "demo-psi-seer", Name: "Psi Seer", Strength: 24, Agility: 32, Intelligence: 56, Level: 4, Origin: battle.OriginDemo},
}

// DemoOpponents is the scripted sparring line-up.
var DemoOpponents = []battle.Combatant{
	{ID: "demo-onyx-warden", Name: "Onyx Warden", Strength: 48, Agility: 28, Intelligence: 32, Level: 3, Origin: battle.OriginDemo},
	{ID: "demo-neon-wisp", Name: "Neon Wisp", Strength: 32, Agility: 55, Intelligence: 26, Level: 2, Origin: battle.OriginDemo},
	{ID: "demo-crimson-oracle", Name: "Crimson Oracle", Strength: 26, Agility: 30, Intelligence: 52, Level: 4, Origin: battle.OriginDemo},
}

// Demo returns the built-in roster.
func Demo() *Roster {
	r, _ := New(DemoPlayers, DemoOpponents)
	return r
}
