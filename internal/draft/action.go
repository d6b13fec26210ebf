package draft

import "fmt"

// Action is the stance a generated reply takes.
type Action int

// The zero Action is invalid; values follow catalog order.
const (
	ActionSupport Action = iota + 1
	ActionThanks
	ActionOppose
	ActionNewProposal
	ActionAgree
	ActionAcceptPending
	ActionRequestReschedule
)

var actionLabels = map[Action]string{
	ActionSupport:           "賛成",
	ActionThanks:            "感謝",
	ActionOppose:            "反対",
	ActionNewProposal:       "新しい提案",
	ActionAgree:             "同意",
	ActionAcceptPending:     "承諾するけれど確定まで待ってほしい",
	ActionRequestReschedule: "その日時だと都合が悪いので別の日時を提案してほしい",
}

var catalog = []Action{
	ActionSupport,
	ActionThanks,
	ActionOppose,
	ActionNewProposal,
	ActionAgree,
	ActionAcceptPending,
	ActionRequestReschedule,
}

// Catalog returns the supported actions in display order.
func Catalog() []Action {
	return append([]Action(nil), catalog...)
}

// Labels returns the catalog labels in display order.
func Labels() []string {
	labels := make([]string, 0, len(catalog))
	for _, a := range catalog {
		labels = append(labels, a.String())
	}
	return labels
}

// ParseAction maps a label to its Action.
func ParseAction(label string) (Action, error) {
	for _, a := range catalog {
		if actionLabels[a] == label {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, label)
}

// Valid reports whether a belongs to the catalog.
func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

func (a Action) String() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
