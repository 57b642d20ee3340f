package models

// UIMode is the view a request is served for
type UIMode int

const (
	ModeStudent UIMode = iota
	ModeAdmin
)

func (m UIMode) String() string {
	switch m {
	case ModeAdmin:
		return "admin"
	default:
		return "student"
	}
}

// ParseUIMode maps a role name to a mode; anything unknown is a student
func ParseUIMode(s string) UIMode {
	if s == "admin" {
		return ModeAdmin
	}
	return ModeStudent
}
