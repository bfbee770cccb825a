package model

// CompleteOutcome reports what a task completion attempt did.
type CompleteOutcome int

const (
	CompleteNewlyDone CompleteOutcome = iota
	CompleteAlreadyDone
)

// LinkOutcome reports what a referral link attempt did.
type LinkOutcome int

const (
	// LinkEstablished means referred_by was set and the referrer credited.
	LinkEstablished LinkOutcome = iota
	// LinkNotApplicable covers unknown codes, self-referral, and users
	// who already have a referrer. Not an error; nothing changed.
	LinkNotApplicable
)

// ClaimOutcome reports what an airdrop claim attempt did.
type ClaimOutcome int

const (
	ClaimGranted ClaimOutcome = iota
	ClaimAlreadyClaimed
	ClaimIncomplete
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimGranted:
		return "granted"
	case ClaimAlreadyClaimed:
		return "already_claimed"
	case ClaimIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}
