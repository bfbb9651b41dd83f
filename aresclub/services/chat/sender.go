package chat

import "aresclub/aresclub/sources/psql/models"

// AnonymousName is used when a visitor does not give a display name.
const AnonymousName = "Usuario Anónimo"

// Sender is who a message is attributed to: Anonymous or Admin.
type Sender interface {
	DisplayName() string
	IsAdmin() bool
	UserID() *int
}

// Anonymous is a visitor identified only by a self-declared display name.
type Anonymous struct {
	Name string
}

func (a Anonymous) DisplayName() string {
	if a.Name == "" {
		return AnonymousName
	}
	return a.Name
}

func (Anonymous) IsAdmin() bool { return false }
func (Anonymous) UserID() *int  { return nil }

// Admin is an account whose admin flag was verified through the guard.
type Admin struct {
	User *models.User
}

func (a Admin) DisplayName() string { return a.User.Username }
func (Admin) IsAdmin() bool         { return true }
func (a Admin) UserID() *int {
	id := a.User.ID
	return &id
}
