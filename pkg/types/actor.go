package types

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRegistrar Role = "registrar"
)

// Actor is the already-authenticated identity behind a request. The service
// never authenticates; the auth middleware builds an Actor from verified JWT
// claims and every audit entry records it.
type Actor struct {
	ID   string
	Name string
	Role Role
}

func (a Actor) IsRegistrar() bool {
	return a.Role == RoleRegistrar
}
