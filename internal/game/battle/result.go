package battle

// TurnLog records one resolved turn.
type TurnLog struct {
	Turn              int    `json:"turn"`
	PlayerAction      Action `json:"playerAction"`
	OpponentAction    Action `json:"opponentAction"`
	DamageToOpponent  int    `json:"damageToOpponent"`
	DamageToPlayer    int    `json:"damageToPlayer"`
	PlayerHP          int    `json:"playerHp"`
	OpponentHP        int    `json:"opponentHp"`
	PlayerCountered   bool   `json:"playerCountered"`
	OpponentCountered bool   `json:"opponentCountered"`
}

// Result is the complete outcome of one battle.
//
// Invariant: TotalTurns == len(Turns); 1 <= TotalTurns <= MaxTurns.
// Invariant: WinnerID != LoserID and both are one of the input ids.
type Result struct {
	ID              string    `json:"id"`
	WinnerID        string    `json:"winnerId"`
	LoserID         string    `json:"loserId"`
	XPGain          int       `json:"xpGain"`
	Turns           []TurnLog `json:"turns"`
	WinnerFinalHP   int       `json:"winnerFinalHp"`
	TotalTurns      int       `json:"totalTurns"`
	PlayerFinalHP   int       `json:"playerFinalHp"`
	OpponentFinalHP int       `json:"opponentFinalHp"`
	StrategyNote    string    `json:"strategyNote"`
}

// Knockout reports whether the battle ended before the turn cap.
func (r Result) Knockout() bool {
	return r.PlayerFinalHP == 0 || r.OpponentFinalHP == 0
}
