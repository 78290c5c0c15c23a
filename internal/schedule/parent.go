package schedule

// ParentKind discriminates the linkage a node has to its parent.
type ParentKind uint8

const (
	// ParentNone marks a hierarchy root.
	ParentNone ParentKind = iota
	// ParentSameType links a node to a parent in its own hierarchy
	// (subproject to project, subproduct to product, task to project,
	// value chain to product).
	ParentSameType
	// ParentContainer links a root product to the project that contains it.
	ParentContainer
)

func (k ParentKind) String() string {
	switch k {
	case ParentSameType:
		return "same-type"
	case ParentContainer:
		return "container"
	}
	return "none"
}

// ParentRef is the single parent of a node. The zero value is a root.
type ParentRef struct {
	Kind ParentKind
	ID   string
}

// SameType returns a same-hierarchy parent reference, or a root when id is empty.
func SameType(id string) ParentRef {
	if id == "" {
		return ParentRef{}
	}
	return ParentRef{Kind: ParentSameType, ID: id}
}

// Container returns a container parent reference, or a root when id is empty.
func Container(id string) ParentRef {
	if id == "" {
		return ParentRef{}
	}
	return ParentRef{Kind: ParentContainer, ID: id}
}

// ParentFromColumns builds a reference from the two nullable foreign keys a
// row carries. A same-type parent wins if both are set.
func ParentFromColumns(sameType, container *string) ParentRef {
	if sameType != nil && *sameType != "" {
		return SameType(*sameType)
	}
	if container != nil {
		return Container(*container)
	}
	return ParentRef{}
}

// IsRoot reports whether the reference points nowhere.
func (p ParentRef) IsRoot() bool {
	return p.Kind == ParentNone || p.ID == ""
}

// Equal compares two references; all roots are equal.
func (p ParentRef) Equal(o ParentRef) bool {
	if p.IsRoot() || o.IsRoot() {
		return p.IsRoot() && o.IsRoot()
	}
	return p.Kind == o.Kind && p.ID == o.ID
}

func (p ParentRef) String() string {
	if p.IsRoot() {
		return "root"
	}
	return p.Kind.String() + ":" + p.ID
}
