package usecasecontract

import (
	"context"
	"time"
)

// IAppLogger is the logging surface used by use cases and handlers.
type IAppLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// IConfigProvider exposes the settings use cases depend on.
type IConfigProvider interface {
	GetAppBaseURL() string
	GetUserSessionTTL() time.Duration
	GetAdminSessionTTL() time.Duration
	GetResetSessionTTL() time.Duration
	GetOTPTTL() time.Duration
	GetDefaultPhotoURL() string
	GetOrgNotificationEmail() string
	GetChatHistoryLimit() int
}

type IValidator interface {
	ValidateEmail(email string) error
	ValidatePassword(password string) error
	ValidatePasswordStrength(password string) error
}

// IAIService generates text from a prompt.
type IAIService interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
