package webpath

const (
	Home = "/"

	Auth       = "/auth"
	AuthLogout = Auth + "/logout"

	Users = "/users"
	Notes = "/notes"
)
