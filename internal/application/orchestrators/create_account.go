package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gymroster/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount registers an admin account (console signup).
// PRE: Valid email, password >= 12 chars
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return account.Account{}, ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email)
	return acct, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is migrated
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{Email: email, Password: password}, deps); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
