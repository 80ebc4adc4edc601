package promo

// ActionType tags the mutation the host must perform to keep exactly one
// complimentary ticket unit in the cart.
type ActionType string

const (
	// ActionNone means the cart already satisfies the complimentary rule.
	ActionNone ActionType = "none"
	// ActionAdd means the host should add one complimentary ticket unit.
	ActionAdd ActionType = "add_complimentary"
	// ActionCap means the host should reduce the ticket line to one unit.
	ActionCap ActionType = "cap_complimentary"
	// ActionRemove means the host should remove the ticket line entirely.
	ActionRemove ActionType = "remove_complimentary"
)

// Action describes a single cart mutation for the host to apply. The
// calculator itself never mutates anything; the host applies the action
// exactly once per triggering event, which keeps hook-style recalculation
// from cascading.
type Action struct {
	Type ActionType
	// TargetQuantity is the ticket quantity after applying an add or cap
	// action. Zero for none and remove.
	TargetQuantity int
}

// Reconcile decides which mutation keeps exactly one complimentary ticket
// unit present if and only if at least one other product is in the cart.
// It is idempotent: applying the returned action and reconciling the result
// always yields ActionNone.
func (r Rules) Reconcile(snap Snapshot) (Action, error) {
	stats, err := r.scan(snap)
	if err != nil {
		return Action{}, err
	}
	return r.reconcile(stats), nil
}

// reconcile evaluates the complimentary rule against precomputed counters.
// The branches are logically disjoint, so their order does not matter.
func (r Rules) reconcile(stats cartStats) Action {
	switch {
	case stats.hasOtherProduct && stats.ticketQuantity == 0:
		return Action{Type: ActionAdd, TargetQuantity: 1}
	case stats.hasOtherProduct && stats.ticketQuantity > 1:
		return Action{Type: ActionCap, TargetQuantity: 1}
	case !stats.hasOtherProduct && stats.ticketQuantity > 0:
		return Action{Type: ActionRemove}
	default:
		return Action{Type: ActionNone}
	}
}

// ApplyAction returns a new snapshot with the given action applied, leaving
// the input untouched. Hosts own the real cart mutation; this exists so the
// resulting cart state can be simulated and re-evaluated.
func (r Rules) ApplyAction(snap Snapshot, act Action) Snapshot {
	switch act.Type {
	case ActionAdd:
		out := make(Snapshot, len(snap), len(snap)+1)
		copy(out, snap)
		return append(out, LineItem{
			ProductID:    r.TicketProductID,
			Quantity:     act.TargetQuantity,
			PriceUnknown: true,
		})
	case ActionCap:
		out := make(Snapshot, 0, len(snap))
		capped := false
		for _, li := range snap {
			if li.ProductID == r.TicketProductID {
				if capped {
					continue
				}
				li.Quantity = act.TargetQuantity
				capped = true
			}
			out = append(out, li)
		}
		return out
	case ActionRemove:
		out := make(Snapshot, 0, len(snap))
		for _, li := range snap {
			if li.ProductID == r.TicketProductID {
				continue
			}
			out = append(out, li)
		}
		return out
	default:
		out := make(Snapshot, len(snap))
		copy(out, snap)
		return out
	}
}
