package validator

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

var (
	ErrInvalidUsername  = errors.New("username must be 3-20 characters of letters, digits or underscore")
	ErrInvalidPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidMachineID = errors.New("machine id must be at most 64 characters")
)

const MaxMachineIDLength = 64

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateCredentials(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateMachineID(machineID string) error {
	if utf8.RuneCountInString(machineID) > MaxMachineIDLength {
		return ErrInvalidMachineID
	}
	return nil
}
