package user

// User is the owner of study plans. Read-only for this service.
type User struct {
	ID    string
	Name  string
	Email string
}
