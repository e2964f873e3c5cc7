package domain

// Person represents a student on the home board
type Person struct {
	ID        int    `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	PhotoURL  string `json:"photo_url,omitempty" yaml:"photo_url,omitempty"`
}

// FullName returns "First Last", skipping empty parts
func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// StudentsPayload is the decoded body of the home board students endpoint
type StudentsPayload struct {
	Students []Person `json:"students" yaml:"students"`
}

// LoadState tracks the lifecycle of a fetch
type LoadState string

const (
	LoadNotStarted LoadState = "not_started"
	LoadLoading    LoadState = "loading"
	LoadLoaded     LoadState = "loaded"
	LoadError      LoadState = "error"
)

// SortKey selects the Person field used to order the roster
type SortKey string

const (
	SortFirstName SortKey = "first_name"
	SortLastName  SortKey = "last_name"
)

// Field returns the value of the field this key sorts on.
// Unknown keys fall back to the first name.
func (k SortKey) Field(p Person) string {
	switch k {
	case SortLastName:
		return p.LastName
	default:
		return p.FirstName
	}
}

// Label returns the toolbar label for the key
func (k SortKey) Label() string {
	switch k {
	case SortLastName:
		return "Last Name"
	default:
		return "First Name"
	}
}

// Valid reports whether k is one of the known sort keys
func (k SortKey) Valid() bool {
	return k == SortFirstName || k == SortLastName
}
