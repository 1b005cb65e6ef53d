package pet

import (
	"encoding/json"
	"fmt"
)

// Gender is the closed set of pet genders. The zero value is Unknown, so a
// field absent from a request body deserializes to UNKNOWN.
type Gender int

const (
	Unknown Gender = iota
	Male
	Female
)

var genderNames = map[Gender]string{
	Unknown: "UNKNOWN",
	Male:    "MALE",
	Female:  "FEMALE",
}

// ParseGender converts a symbolic name to a Gender. The match is
// case-sensitive: anything other than MALE, FEMALE or UNKNOWN is rejected.
func ParseGender(name string) (Gender, error) {
	for g, n := range genderNames {
		if n == name {
			return g, nil
		}
	}
	return Unknown, fmt.Errorf("invalid gender: %q", name)
}

// String returns the symbolic name of the gender.
func (g Gender) String() string {
	if n, ok := genderNames[g]; ok {
		return n
	}
	return genderNames[Unknown]
}

// MarshalJSON serializes the gender as its symbolic name.
func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON rejects any value that is not one of the symbolic names.
func (g *Gender) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("gender must be a string: %w", err)
	}
	parsed, err := ParseGender(name)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
