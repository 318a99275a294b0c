// Package usecase holds the application services sitting between the HTTP
// handlers and the repositories. The user service is the single authority on
// what constitutes a valid new account.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirsasha78/AdMarketplace/internal/model"
	"github.com/sirsasha78/AdMarketplace/internal/repository"
	"github.com/sirsasha78/AdMarketplace/pkg/password"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken surfaces a uniqueness conflict on the email column.
	ErrEmailTaken = errors.New("a user with this email already exists")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationKind classifies a provisioning failure.
type ValidationKind string

const (
	KindMissingField    ValidationKind = "missing_field"
	KindInvalidFormat   ValidationKind = "invalid_format"
	KindWeakPassword    ValidationKind = "weak_password"
	KindPolicyViolation ValidationKind = "policy_violation"
)

// ValidationError is a provisioning failure the caller can correct and
// resubmit. The message is safe to show to the user.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// CreateOptions enumerates every legal override when provisioning a user.
// AccountType defaults to BUYER; the staff and superuser flags default to
// false for regular users and to true for superusers. Pointers distinguish
// "not supplied" from an explicit false, which matters for the superuser
// policy check.
type CreateOptions struct {
	AccountType string
	PhoneNumber string
	IsStaff     *bool
	IsSuperuser *bool
}

// UserUsecase is the provisioning and authentication pipeline for accounts.
type UserUsecase struct {
	users    *repository.SoftDeleteRepository[model.User]
	validate *validator.Validate
}

// NewUserUsecase builds the service around the user repository.
func NewUserUsecase(users *repository.SoftDeleteRepository[model.User]) *UserUsecase {
	return &UserUsecase{
		users:    users,
		validate: validator.New(),
	}
}

// NormalizeEmail lowercases the domain portion of the address, the standard
// email normalization applied before validation, storage and lookup.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// ValidateUser runs the ordered pre-flight checks for a new account and
// returns the normalized email. It stops at the first failing check and
// touches no persistent state.
func (u *UserUsecase) ValidateUser(firstName, lastName, email, pw string) (string, error) {
	if firstName == "" {
		return "", &ValidationError{KindMissingField, "users must supply a first name"}
	}
	if lastName == "" {
		return "", &ValidationError{KindMissingField, "users must supply a last name"}
	}
	if email == "" {
		return "", &ValidationError{KindMissingField, "users must have an email address"}
	}

	email = NormalizeEmail(email)
	if err := u.validate.Var(email, "required,email"); err != nil {
		return "", &ValidationError{KindInvalidFormat, "you must provide a valid email address"}
	}

	if pw == "" {
		return "", &ValidationError{KindMissingField, "users must have a password"}
	}
	local, _, _ := strings.Cut(email, "@")
	if violations := password.Validate(pw, firstName, lastName, local); len(violations) > 0 {
		return "", &ValidationError{
			KindWeakPassword,
			fmt.Sprintf("Password is invalid: %s", strings.Join(violations, "; ")),
		}
	}

	return email, nil
}

// CreateUser validates the input, hashes the password and persists exactly
// one new account. A validation failure leaves no artifact behind.
func (u *UserUsecase) CreateUser(ctx context.Context, firstName, lastName, email, pw string, opts CreateOptions) (*model.User, error) {
	normalized, err := u.ValidateUser(firstName, lastName, email, pw)
	if err != nil {
		return nil, err
	}

	accountType := opts.AccountType
	if accountType == "" {
		accountType = model.AccountTypeBuyer
	}
	if accountType != model.AccountTypeBuyer && accountType != model.AccountTypeSeller {
		return nil, &ValidationError{KindInvalidFormat, "account type must be SELLER or BUYER"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        normalized,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  opts.PhoneNumber,
		AccountType:  accountType,
		IsStaff:      boolValue(opts.IsStaff),
		IsSuperuser:  boolValue(opts.IsSuperuser),
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// ValidateSuperuserOptions fills in the mandatory superuser flags and rejects
// an explicit false on either: an administrator account cannot be created
// without both.
func ValidateSuperuserOptions(opts CreateOptions) (CreateOptions, error) {
	if opts.IsStaff == nil {
		opts.IsStaff = boolPtr(true)
	}
	if opts.IsSuperuser == nil {
		opts.IsSuperuser = boolPtr(true)
	}

	if !*opts.IsStaff {
		return opts, &ValidationError{KindPolicyViolation, "superusers must have is_staff=true"}
	}
	if !*opts.IsSuperuser {
		return opts, &ValidationError{KindPolicyViolation, "superusers must have is_superuser=true"}
	}
	return opts, nil
}

// CreateSuperuser provisions an administrator account. It applies the
// superuser flag policy and then runs the exact same pipeline as CreateUser.
func (u *UserUsecase) CreateSuperuser(ctx context.Context, firstName, lastName, email, pw string, opts CreateOptions) (*model.User, error) {
	opts, err := ValidateSuperuserOptions(opts)
	if err != nil {
		return nil, err
	}
	return u.CreateUser(ctx, firstName, lastName, email, pw, opts)
}

// Authenticate verifies the credentials against the active account with the
// given email. The raw password is never stored or logged.
func (u *UserUsecase) Authenticate(ctx context.Context, email, pw string) (*model.User, error) {
	user, err := u.users.GetOrNone(ctx, "email = ?", NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pw)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

func boolPtr(b bool) *bool {
	return &b
}
