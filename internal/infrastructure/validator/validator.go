package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

const minStrongPasswordLen = 8

const passwordSymbols = "!@#$%^&*()_+-=[]{};:'\\|,.<>/?"

// passwordRule is one character class a strong password must contain.
type passwordRule struct {
	message string
	match   func(r rune) bool
}

var passwordRules = []passwordRule{
	{"password must contain at least one uppercase letter", unicode.IsUpper},
	{"password must contain at least one lowercase letter", unicode.IsLower},
	{"password must contain at least one number", unicode.IsNumber},
	{"password must contain at least one special character", func(r rune) bool {
		return strings.ContainsRune(passwordSymbols, r)
	}},
}

// AppValidator implements usecasecontract.IValidator.
type AppValidator struct {
	validate *validator.Validate
}

func NewValidator() usecasecontract.IValidator {
	return &AppValidator{validate: validator.New()}
}

func (av *AppValidator) ValidateEmail(email string) error {
	return av.validate.Var(email, "required,email")
}

// ValidatePassword accepts any non-empty password bcrypt can hash in full.
func (av *AppValidator) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is required")
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// ValidatePasswordStrength is used for admin accounts. The first unmet rule is reported.
func (av *AppValidator) ValidatePasswordStrength(password string) error {
	if err := av.ValidatePassword(password); err != nil {
		return err
	}
	if len(password) < minStrongPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minStrongPasswordLen)
	}
	missing := missingRules(password)
	if len(missing) > 0 {
		return errors.New(missing[0].message)
	}
	return nil
}

// missingRules returns the rules s does not satisfy, in rule order.
func missingRules(s string) []passwordRule {
	seen := make([]bool, len(passwordRules))
	for _, r := range s {
		for i, rule := range passwordRules {
			if !seen[i] && rule.match(r) {
				seen[i] = true
			}
		}
	}
	var missing []passwordRule
	for i, ok := range seen {
		if !ok {
			missing = append(missing, passwordRules[i])
		}
	}
	return missing
}
