package gamebridge

import (
	"errors"
	"strconv"
	"strings"
)

// Errors
var (
	ErrMalformedMessage   = errors.New("malformed game message")
	ErrCreditLimit        = errors.New("credit exceeds the per-message limit")
	ErrUnknownGameSession = errors.New("unknown or closed game session")
	ErrSessionMismatch    = errors.New("game session belongs to another account")
)

// MessageKind identifies a game event
type MessageKind string

const (
	MessageAddCoins  MessageKind = "add_coins"
	MessageCloseGame MessageKind = "close_game"
)

const (
	addCoinsPrefix   = "ADD_COINS|"
	closeGameMessage = "CLOSE_GAME"
)

// Message is a parsed event from the embedded game
type Message struct {
	Kind   MessageKind
	Amount int // Set for MessageAddCoins only
}

// ParseMessage decodes the game's text protocol.
// ADD_COINS carries a positive integer amount; CLOSE_GAME has no payload.
func ParseMessage(raw string) (Message, error) {
	raw = strings.TrimSpace(raw)

	if raw == closeGameMessage {
		return Message{Kind: MessageCloseGame}, nil
	}

	payload, ok := strings.CutPrefix(raw, addCoinsPrefix)
	if !ok {
		return Message{}, ErrMalformedMessage
	}
	amount, err := strconv.Atoi(payload)
	if err != nil || amount <= 0 {
		return Message{}, ErrMalformedMessage
	}
	return Message{Kind: MessageAddCoins, Amount: amount}, nil
}

// String encodes the message back into the wire format
func (m Message) String() string {
	if m.Kind == MessageCloseGame {
		return closeGameMessage
	}
	return addCoinsPrefix + strconv.Itoa(m.Amount)
}
