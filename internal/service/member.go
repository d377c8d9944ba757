package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

// MemberService lists and invites the members of the session's project.
type MemberService struct {
	gateway   repo.MemberGateway
	projectID string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewMemberService(gateway repo.MemberGateway, projectID string, timeout time.Duration, logger *zap.Logger) *MemberService {
	return &MemberService{
		gateway:   gateway,
		projectID: projectID,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *MemberService) List(ctx context.Context) ([]model.Membership, error) {
	var members []model.Membership
	err := gatewayCall(ctx, s.timeout, s.logger, "list_members", func(ctx context.Context) error {
		var err error
		members, err = s.gateway.ListMembers(ctx, s.projectID)
		return err
	}, zap.String("project_id", s.projectID))
	return members, err
}

// Invite adds the user registered under email to the project and returns the
// reloaded member list. An unknown email is reported as not found rather
// than as a gateway failure.
func (s *MemberService) Invite(ctx context.Context, email string) ([]model.Membership, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email %q is not valid", email)
	}

	var user model.User
	err := gatewayCall(ctx, s.timeout, s.logger, "find_user", func(ctx context.Context) error {
		var err error
		user, err = s.gateway.FindUserByEmail(ctx, email)
		return err
	}, zap.String("project_id", s.projectID))
	if errors.Is(err, repo.ErrorNotFound) {
		return nil, fmt.Errorf("user not found: %s: %w", email, repo.ErrorNotFound)
	}
	if err != nil {
		return nil, err
	}

	err = gatewayCall(ctx, s.timeout, s.logger, "insert_membership", func(ctx context.Context) error {
		return s.gateway.InsertMembership(ctx, s.projectID, user.ID)
	}, zap.String("project_id", s.projectID), zap.String("user_id", user.ID))
	if err != nil {
		return nil, err
	}

	s.logger.Info("member invited", zap.String("project_id", s.projectID), zap.String("user_id", user.ID))
	return s.List(ctx)
}
