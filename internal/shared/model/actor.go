package model

// SystemActorID is recorded when a change is made without an authenticated user.
const SystemActorID = "System"

// Actor identifies who performs a mutation. It is passed explicitly down to the
// unit of work instead of being read from request state.
type Actor struct {
	ID            string
	Authenticated bool
}

// NewActor returns an authenticated actor for the given user id.
func NewActor(id string) Actor {
	return Actor{ID: id, Authenticated: id != ""}
}

// SystemActor returns the actor used by seeders and background jobs.
func SystemActor() Actor {
	return Actor{}
}

// Identity returns the value stamped into the audit columns.
func (a Actor) Identity() string {
	if !a.Authenticated || a.ID == "" {
		return SystemActorID
	}
	return a.ID
}
