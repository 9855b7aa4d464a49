// Package narration turns a battle result into a short recap for players.
package narration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// Narrator writes a recap of a finished battle. Recap never fails; a narrator
// that cannot produce text returns the result's strategy note.
type Narrator interface {
	Recap(ctx context.Context, res battle.Result, player, opponent battle.Combatant) string
}

// StaticNarrator returns the strategy note unchanged.
type StaticNarrator struct{}

// Recap implements Narrator.
func (StaticNarrator) Recap(_ context.Context, res battle.Result, _, _ battle.Combatant) string {
	return res.StrategyNote
}

var systemPrompt = "You are the arena announcer for Trinity Tactics, a monster battle game where " +
	counterRules() + ". Write a vivid recap of at most three sentences. Only use facts from the battle log."

// counterRules renders the counter cycle from battle.CounterOf.
func counterRules() string {
	rules := make([]string, 0, len(battle.Actions))
	for _, a := range battle.Actions {
		rules = append(rules, battle.CounterOf(a).String()+" beats "+a.String())
	}
	last := len(rules) - 1
	return strings.Join(rules[:last], ", ") + " and " + rules[last]
}

// ClaudeNarrator asks the Anthropic Messages API for a recap.
type ClaudeNarrator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// New returns a ClaudeNarrator when narration is enabled and an API key is
// configured, and a StaticNarrator otherwise.
//
// Precondition: logger must be non-nil.
func New(cfg config.NarrationConfig, logger *zap.Logger, opts ...option.RequestOption) Narrator {
	if !cfg.Enabled || cfg.APIKey == "" {
		if cfg.Enabled {
			logger.Warn("narration enabled without api key, using strategy notes")
		}
		return StaticNarrator{}
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)
	return &ClaudeNarrator{
		client:    anthropic.NewClient(reqOpts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Recap implements Narrator.
func (n *ClaudeNarrator) Recap(ctx context.Context, res battle.Result, player, opponent battle.Combatant) string {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Summarize(res, player, opponent))),
		},
	})
	if err != nil {
		n.logger.Warn("narration request failed, using strategy note",
			zap.String("battle_id", res.ID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return res.StrategyNote
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			n.logger.Debug("narration received",
				zap.String("battle_id", res.ID),
				zap.Duration("elapsed", time.Since(start)),
			)
			return strings.TrimSpace(block.Text)
		}
	}
	n.logger.Warn("narration returned no text, using strategy note", zap.String("battle_id", res.ID))
	return res.StrategyNote
}

// Summarize renders the battle log as compact plain text for a prompt.
func Summarize(res battle.Result, player, opponent battle.Combatant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s (STR %d, AGI %d, INT %d, level %d)\n",
		player.Name, player.Strength, player.Agility, player.Intelligence, player.Level)
	fmt.Fprintf(&b, "Opponent: %s (STR %d, AGI %d, INT %d, level %d)\n",
		opponent.Name, opponent.Strength, opponent.Agility, opponent.Intelligence, opponent.Level)
	for _, t := range res.Turns {
		fmt.Fprintf(&b, "Turn %d: %s vs %s, dealt %d%s, took %d%s, hp %d-%d\n",
			t.Turn, t.PlayerAction, t.OpponentAction,
			t.DamageToOpponent, counterMark(t.PlayerCountered),
			t.DamageToPlayer, counterMark(t.OpponentCountered),
			t.PlayerHP, t.OpponentHP)
	}
	winner := opponent.Name
	if res.WinnerID == player.ID {
		winner = player.Name
	}
	fmt.Fprintf(&b, "Winner: %s after %d turns, +%d XP.\n", winner, res.TotalTurns, res.XPGain)
	fmt.Fprintf(&b, "Analyst note: %s", res.StrategyNote)
	return b.String()
}

func counterMark(countered bool) string {
	if countered {
		return " (counter)"
	}
	return ""
}
