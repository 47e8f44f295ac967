package chat

import "flight-assistant/internal/types"

// Transcript is the ordered, append-only log of chat turns. Order of
// insertion is the display order.
type Transcript []types.Turn

// Append returns a new transcript with turn at the end. The receiver is
// left untouched, so older snapshots stay valid.
func (t Transcript) Append(turn types.Turn) Transcript {
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, turn)
}

func BotTurn(text string) types.Turn  { return types.Turn{Speaker: types.SpeakerBot, Text: text} }
func UserTurn(text string) types.Turn { return types.Turn{Speaker: types.SpeakerUser, Text: text} }
