package web

import (
	"errors"

	"github.com/goserg/technotes/internal/domain"

	"github.com/google/uuid"
)

var (
	errMissingField = errors.New("missing required field")
	errMissingID    = errors.New("missing id")
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errMissingField
	}
	return nil
}

type createUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (r createUserRequest) Validate() error {
	var err error
	if r.Username == "" {
		err = errors.Join(err, errMissingField)
	}
	if r.Password == "" {
		err = errors.Join(err, errMissingField)
	}
	if _, rolesErr := domain.ParseRoles(r.Roles); rolesErr != nil {
		err = errors.Join(err, rolesErr)
	}
	return err
}

func (r createUserRequest) roles() []domain.Role {
	roles, _ := domain.ParseRoles(r.Roles)
	return roles
}

type updateUserRequest struct {
	ID       string   `json:"_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	// Active is a pointer so a missing field fails validation instead
	// of defaulting to false.
	Active   *bool  `json:"active"`
	Password string `json:"password"`
}

func (r updateUserRequest) Validate() error {
	var err error
	if _, idErr := uuid.Parse(r.ID); idErr != nil {
		err = errors.Join(err, errMissingID)
	}
	if r.Username == "" {
		err = errors.Join(err, errMissingField)
	}
	if _, rolesErr := domain.ParseRoles(r.Roles); rolesErr != nil {
		err = errors.Join(err, rolesErr)
	}
	if r.Active == nil {
		err = errors.Join(err, errMissingField)
	}
	return err
}

func (r updateUserRequest) id() uuid.UUID {
	id, _ := uuid.Parse(r.ID)
	return id
}

func (r updateUserRequest) roles() []domain.Role {
	roles, _ := domain.ParseRoles(r.Roles)
	return roles
}

type deleteUserRequest struct {
	ID string `json:"_id"`
}

func (r deleteUserRequest) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return errMissingID
	}
	return nil
}

func (r deleteUserRequest) id() uuid.UUID {
	id, _ := uuid.Parse(r.ID)
	return id
}

type createNoteRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (r createNoteRequest) Validate() error {
	var err error
	if _, userErr := uuid.Parse(r.User); userErr != nil {
		err = errors.Join(err, errMissingField)
	}
	if r.Title == "" {
		err = errors.Join(err, errMissingField)
	}
	if r.Text == "" {
		err = errors.Join(err, errMissingField)
	}
	return err
}

func (r createNoteRequest) userID() uuid.UUID {
	id, _ := uuid.Parse(r.User)
	return id
}

type updateNoteRequest struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
	// Completed is a pointer so a missing field fails validation
	// instead of defaulting to false.
	Completed *bool `json:"completed"`
}

func (r updateNoteRequest) Validate() error {
	var err error
	if _, idErr := uuid.Parse(r.ID); idErr != nil {
		err = errors.Join(err, errMissingID)
	}
	if _, userErr := uuid.Parse(r.User); userErr != nil {
		err = errors.Join(err, errMissingField)
	}
	if r.Title == "" {
		err = errors.Join(err, errMissingField)
	}
	if r.Text == "" {
		err = errors.Join(err, errMissingField)
	}
	if r.Completed == nil {
		err = errors.Join(err, errMissingField)
	}
	return err
}

func (r updateNoteRequest) id() uuid.UUID {
	id, _ := uuid.Parse(r.ID)
	return id
}

func (r updateNoteRequest) userID() uuid.UUID {
	id, _ := uuid.Parse(r.User)
	return id
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

func (r deleteNoteRequest) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return errMissingID
	}
	return nil
}

func (r deleteNoteRequest) id() uuid.UUID {
	id, _ := uuid.Parse(r.ID)
	return id
}
