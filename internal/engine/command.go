package engine

import "github.com/hexfront/hexfront-backend/internal/board"

type CommandType string

const (
	CmdDraft                CommandType = "draft"
	CmdPlace                CommandType = "place"
	CmdMove                 CommandType = "move"
	CmdAttack               CommandType = "attack"
	CmdDeploy               CommandType = "deploy"
	CmdAbility              CommandType = "ability"
	CmdEndTurn              CommandType = "endTurn"
	CmdInterstitialContinue CommandType = "interstitialContinue"
)

// Command is one gameplay intent, already bound to a seat by the room
// layer. Only the fields the given type needs are set.
type Command struct {
	Type        CommandType
	PlayerIndex int
	CardIDs     []string
	CardID      string
	From        *board.HexCoord
	To          *board.HexCoord
	Position    *board.HexCoord
	Target      *board.HexCoord
}

// Apply routes a command to the matching engine operation. On failure the
// input state comes back untouched.
func Apply(s State, cmd Command) (State, error) {
	if s.Phase == PhaseVictory {
		return s, ErrGameCompleted
	}

	switch cmd.Type {
	case CmdDraft:
		return CompleteDraft(s, cmd.PlayerIndex, cmd.CardIDs)
	case CmdPlace:
		if cmd.Position == nil {
			return s, ErrInvalidPlacement
		}
		return PlaceChampion(s, cmd.PlayerIndex, cmd.CardID, *cmd.Position)
	case CmdMove:
		if cmd.From == nil || cmd.To == nil {
			return s, ErrInvalidMove
		}
		return MoveChampion(s, *cmd.From, *cmd.To)
	case CmdAttack:
		if cmd.From == nil || cmd.To == nil {
			return s, ErrInvalidAttack
		}
		return ResolveAttack(s, *cmd.From, *cmd.To)
	case CmdDeploy:
		if cmd.Position == nil {
			return s, ErrInvalidPlacement
		}
		return PlayChampionFromHand(s, cmd.CardID, *cmd.Position)
	case CmdAbility:
		if cmd.From == nil {
			return s, ErrInvalidAbilityUsage
		}
		return ResolveAbility(s, *cmd.From, cmd.Target)
	case CmdEndTurn:
		return EndTurn(s)
	case CmdInterstitialContinue:
		return InterstitialContinue(s)
	default:
		return s, ErrUnsupportedCommand
	}
}
