package obligations

// Kind classifies where an obligation came from.
type Kind string

const (
	KindAxiom          Kind = "axiom"
	KindTheorem        Kind = "theorem"
	KindDefinition     Kind = "definition"
	KindProof          Kind = "proof"
	KindConstraint     Kind = "constraint"
	KindInitialization Kind = "initialization"
	KindRequires       Kind = "requires"
	KindEnsures        Kind = "ensures"
	KindConvention     Kind = "convention"
	KindCorrespondence Kind = "correspondence"
	KindInvariant      Kind = "maintaining"
	KindProgress       Kind = "decreasing"
	KindConfirm        Kind = "confirm"
	KindAssume         Kind = "assume"
)

// Obligation is a fully typed assertion handed to the proof checker.
type Obligation struct {
	RunID  string
	Module string
	Kind   Kind
	Name   string
	Text   string
	Type   string
	File   string
	Line   int
	Column int
}

// Handoff receives obligations as the analyzer produces them.
type Handoff interface {
	Submit(Obligation)
}

// Collector keeps obligations in memory in submission order.
type Collector struct {
	items []Obligation
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Submit(o Obligation) {
	c.items = append(c.items, o)
}

// Items returns the collected obligations.
func (c *Collector) Items() []Obligation {
	return c.items
}

func (c *Collector) Len() int {
	return len(c.items)
}

// ByModule returns the obligations of one module.
func (c *Collector) ByModule(module string) []Obligation {
	var out []Obligation
	for _, o := range c.items {
		if o.Module == module {
			out = append(out, o)
		}
	}
	return out
}

// Discard is a Handoff that drops everything.
type Discard struct{}

func (Discard) Submit(Obligation) {}
