package enums

import "fmt"

// ContactMethod records how an owner-outreach attempt was made.
type ContactMethod string

const (
	ContactMethodSMS      ContactMethod = "sms"
	ContactMethodPhone    ContactMethod = "phone"
	ContactMethodEmail    ContactMethod = "email"
	ContactMethodInPerson ContactMethod = "in_person"
)

var validContactMethods = []ContactMethod{
	ContactMethodSMS,
	ContactMethodPhone,
	ContactMethodEmail,
	ContactMethodInPerson,
}

// String implements fmt.Stringer.
func (m ContactMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ContactMethod.
func (m ContactMethod) IsValid() bool {
	for _, candidate := range validContactMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseContactMethod converts raw input into a ContactMethod.
func ParseContactMethod(value string) (ContactMethod, error) {
	for _, candidate := range validContactMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact method %q", value)
}
