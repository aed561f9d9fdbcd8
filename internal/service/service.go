package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fareaz/eTuitionBd-Server/internal/ctxdata"
	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

// requesterEmail reads the verified subject email the auth middleware
// put on the context.
func requesterEmail(ctx context.Context) (string, error) {
	email, ok := ctxdata.GetUserEmail(ctx)
	if !ok || email == "" {
		return "", fmt.Errorf("no verified identity on request: %w", errdefs.ErrAuthentication)
	}
	return model.NormalizeEmail(email), nil
}

// lookupRole resolves the requester's role from the user store. An
// identity with no user record gets the empty role, never a default:
// authorization decisions must not assume "student".
func lookupRole(ctx context.Context, users UserRepository, email string) (model.Role, error) {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Role, nil
}

func requireAdmin(ctx context.Context, users UserRepository) (string, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return "", err
	}
	role, err := lookupRole(ctx, users, email)
	if err != nil {
		return "", err
	}
	if role != model.RoleAdmin {
		return "", fmt.Errorf("admin only: %w", errdefs.ErrPermissionDenied)
	}
	return email, nil
}
