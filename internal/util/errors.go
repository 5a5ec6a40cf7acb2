package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserDisabled         = errors.New("user is disabled")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrModuleNotFound       = errors.New("module not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrInvalidModule        = errors.New("invalid module")
	ErrInvalidQuiz          = errors.New("invalid quiz")
	ErrInvalidContentRef    = errors.New("progress must reference a module or a quiz")
	ErrInvalidDifficulty    = errors.New("difficulty must be one of easy, medium, hard")
	ErrRecommendationFailed = errors.New("failed to generate adaptive recommendation")
)
