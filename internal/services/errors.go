package services

import "errors"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotDemo            = errors.New("account is not a demo account")
	ErrDemoCreationFailed = errors.New("could not allocate a demo account")
	ErrAlreadyClaimed     = errors.New("check-in already claimed today")
	ErrCooldownActive     = errors.New("prize wheel is cooling down")
)
