package fog

// Ledger collapses at-least-once delivery to exactly-once application by
// remembering the ids it has already accepted. One ledger guards one log.
type Ledger struct {
	seen map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Apply appends the action unless its id was already applied or is missing.
// It returns the (possibly unchanged) log and whether the action was applied.
func (ld *Ledger) Apply(l Log, a Action) (Log, bool) {
	if a.ID == "" {
		return l, false
	}
	if _, dup := ld.seen[a.ID]; dup {
		return l, false
	}
	ld.seen[a.ID] = struct{}{}
	return Append(l, a), true
}

// Seed marks every action of an existing log as applied, so a snapshot
// followed by replayed live events does not double-apply.
func (ld *Ledger) Seed(l Log) {
	for _, a := range l {
		if a.ID != "" {
			ld.seen[a.ID] = struct{}{}
		}
	}
}

// Reset forgets all applied ids; used when switching maps.
func (ld *Ledger) Reset() {
	ld.seen = make(map[string]struct{})
}
