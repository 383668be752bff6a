package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"statuspage_backend/platform/apperr"
	"statuspage_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	EventUserCreated = "user.created"

	slugAttempts  = 3
	slugPrefixMax = 24
)

// UserProvisioner stores new users.
type UserProvisioner interface {
	CreateUserWithWorkspace(ctx context.Context, user NewUser, slug string) (Onboarded, error)
}

// Service handles identity-provider events.
type Service struct {
	users UserProvisioner
	log   *logger.Logger
	slug  func(hint string) string
}

// NewService creates the webhook service.
func NewService(users UserProvisioner, log *logger.Logger) *Service {
	return &Service{users: users, log: log, slug: GenerateSlug}
}

// Handle processes one event. Unknown event types are acknowledged and ignored.
func (s *Service) Handle(ctx context.Context, event Event) (*Onboarded, error) {
	if event.Type != EventUserCreated {
		s.log.Debug("ignoring webhook event", "type", event.Type)
		return nil, nil
	}
	if strings.TrimSpace(event.Data.ID) == "" {
		return nil, apperr.Validation("user id is required")
	}

	user := NewUser{
		TenantID:  event.Data.ID,
		Email:     event.Data.PrimaryEmail(),
		FirstName: event.Data.FirstName,
		LastName:  event.Data.LastName,
	}

	hint := ""
	if user.Email != nil {
		hint = strings.SplitN(*user.Email, "@", 2)[0]
	}

	for attempt := 1; attempt <= slugAttempts; attempt++ {
		onboarded, err := s.users.CreateUserWithWorkspace(ctx, user, s.slug(hint))
		if errors.Is(err, ErrSlugTaken) {
			continue
		}
		if err != nil {
			s.log.DatabaseError("provision user", err)
			return nil, fmt.Errorf("provision user: %w", err)
		}
		if onboarded.Created {
			s.log.Info("user provisioned", "tenantId", user.TenantID, "workspace", onboarded.WorkspaceSlug)
		}
		return &onboarded, nil
	}
	return nil, apperr.Conflict("could not allocate a workspace slug")
}

// GenerateSlug derives a URL-safe workspace slug from hint with a random
// suffix, e.g. "jane-doe-3f9a1c".
func GenerateSlug(hint string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(hint) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= slugPrefixMax {
			break
		}
	}

	prefix := strings.Trim(b.String(), "-")
	if prefix == "" {
		prefix = "workspace"
	}
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
