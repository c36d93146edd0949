package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Contact is a person tasks can be assigned to. Phone and email are unique in
// the store.
type Contact struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"    validate:"required,max=100"`
	Phone   string `json:"phone"   validate:"required,len=10,numeric,startsnotwith=0"`
	Email   string `json:"email"   validate:"required,email,max=100"`
	Address string `json:"address"`
}

var contactValidator = validator.New(validator.WithRequiredStructEnabled())

// NewContact trims and validates the supplied fields and returns a contact
// ready to be stored. The ID is assigned by the store.
func NewContact(name, phone, email, address string) (*Contact, error) {
	c := &Contact{
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Email:   strings.TrimSpace(email),
		Address: strings.TrimSpace(address),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports every field that violates the contact rules.
func (c *Contact) Validate() error {
	err := contactValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeContactField(fe))
	}

	return fmt.Errorf("%w: %s", ErrInvalidContact, strings.Join(problems, "; "))
}

func describeContactField(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len", "numeric", "startsnotwith":
		return field + " must be 10 digits"
	case "email":
		return field + " is not a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
