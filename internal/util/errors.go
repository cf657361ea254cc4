package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTokenRevoked        = errors.New("session has been logged out")
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrGenerationLockTaken = errors.New("guidance generation already in progress")
)
