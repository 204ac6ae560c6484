package conversation

// State is the step a conversation is at. The set is closed; anything else read from
// storage is treated as welcome.
type State string

const (
	StateWelcome           State = "welcome"
	StateMenu              State = "menu"
	StateCollectName       State = "collect_name"
	StateCollectEmail      State = "collect_email"
	StateCollectPhone      State = "collect_phone"
	StateCollectAddress    State = "collect_address"
	StateCollectSummary    State = "collect_summary"
	StateCollectExperience State = "collect_experience"
	StateCollectEducation  State = "collect_education"
	StateCollectSkills     State = "collect_skills"
	StateProfilePhoto      State = "profile_photo"
	StateSelectTemplate    State = "select_template"
	StateSelectColor       State = "select_color"
	StatePremiumUpgrade    State = "premium_upgrade"
	StatePayment           State = "payment"
)

// States lists every state in flow order.
var States = []State{
	StateWelcome,
	StateMenu,
	StateCollectName,
	StateCollectEmail,
	StateCollectPhone,
	StateCollectAddress,
	StateCollectSummary,
	StateCollectExperience,
	StateCollectEducation,
	StateCollectSkills,
	StateProfilePhoto,
	StateSelectTemplate,
	StateSelectColor,
	StatePremiumUpgrade,
	StatePayment,
}

type payloadKind int

const (
	kindNone payloadKind = iota
	kindDraft
	kindPayment
)

// kind reports which payload a state carries. Unknown states carry none.
func (s State) kind() payloadKind {
	switch s {
	case StateCollectName, StateCollectEmail, StateCollectPhone, StateCollectAddress,
		StateCollectSummary, StateCollectExperience, StateCollectEducation, StateCollectSkills,
		StateProfilePhoto, StateSelectTemplate, StateSelectColor:
		return kindDraft
	case StatePayment:
		return kindPayment
	default:
		return kindNone
	}
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}
