package arena

import (
	"errors"
	"strings"
)

// FailureKind is the closed set of user-facing failure categories.
type FailureKind int

const (
	FailTransport FailureKind = iota
	FailUserRejected
	FailInsufficientGasFunds
	FailInvalidPoolConfig
	FailAlreadyJoined
	FailPoolFull
	FailStartDeadlinePassed
	FailNotWinner
	FailNothingToClaim
	FailAlreadySubmitted
	FailRoundDeadlinePassed
	FailMinPlayersNotMet
	FailInsufficientCreatorStake
)

func (k FailureKind) String() string {
	switch k {
	case FailTransport:
		return "transport"
	case FailUserRejected:
		return "user_rejected"
	case FailInsufficientGasFunds:
		return "insufficient_gas_funds"
	case FailInvalidPoolConfig:
		return "invalid_pool_config"
	case FailAlreadyJoined:
		return "already_joined"
	case FailPoolFull:
		return "pool_full"
	case FailStartDeadlinePassed:
		return "start_deadline_passed"
	case FailNotWinner:
		return "not_winner"
	case FailNothingToClaim:
		return "nothing_to_claim"
	case FailAlreadySubmitted:
		return "already_submitted"
	case FailRoundDeadlinePassed:
		return "round_deadline_passed"
	case FailMinPlayersNotMet:
		return "min_players_not_met"
	case FailInsufficientCreatorStake:
		return "insufficient_creator_stake"
	}
	return "transport"
}

// Failure is a classified ledger or transport failure. Message is safe to
// show to a user; Raw preserves the original text verbatim.
type Failure struct {
	Kind    FailureKind
	Message string
	Raw     string
}

func (f *Failure) Error() string {
	return f.Message
}

type classifyRule struct {
	needle  string
	kind    FailureKind
	message string
}

// Rules match revert identifiers emitted by the ArenaManager contract plus
// the wallet/transport failure strings surfaced by nodes and signers.
var classifyRules = []classifyRule{
	{"User rejected", FailUserRejected, "Transaction rejected in wallet."},
	{"user rejected", FailUserRejected, "Transaction rejected in wallet."},
	{"insufficient funds", FailInsufficientGasFunds, "Insufficient funds for gas."},
	{"InvalidConfig", FailInvalidPoolConfig, "Invalid pool configuration: check fee and player limits."},
	{"AlreadyJoined", FailAlreadyJoined, "You have already joined this pool."},
	{"PoolFull", FailPoolFull, "This pool is full."},
	{"StartDeadlinePassed", FailStartDeadlinePassed, "The pool start deadline has passed."},
	{"NotWinner", FailNotWinner, "Only the winner can claim winnings."},
	{"NothingToClaim", FailNothingToClaim, "Nothing left to claim."},
	{"AlreadySubmitted", FailAlreadySubmitted, "You already submitted a choice this round."},
	{"RoundDeadlinePassed", FailRoundDeadlinePassed, "The round deadline has passed. Wait for round resolution."},
	{"MinPlayersNotMet", FailMinPlayersNotMet, "Not enough players to start the game."},
	{"InsufficientCreatorStake", FailInsufficientCreatorStake, "You need more creator stake to create pools. Deposit first."},
}

// Classify maps a raw failure into a fixed category. Unmatched failures fall
// through to the transport category with the original message preserved.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	msg := err.Error()
	for _, rule := range classifyRules {
		if strings.Contains(msg, rule.needle) {
			return &Failure{Kind: rule.kind, Message: rule.message, Raw: msg}
		}
	}
	return &Failure{Kind: FailTransport, Message: msg, Raw: msg}
}
