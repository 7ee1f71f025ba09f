package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"moija/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxInvitationBatch bounds one invitation request.
const maxInvitationBatch = 20

type invitationService struct {
	sessionRepo    domain.SessionRepository
	mailer         domain.Mailer
	baseURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewInvitationService wires share-link invitation emails. baseURL is the
// public origin the share links point at, without a trailing slash.
func NewInvitationService(sessionRepo domain.SessionRepository, mailer domain.Mailer, baseURL string, logger *slog.Logger, timeout time.Duration) domain.InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invitationService{
		sessionRepo:    sessionRepo,
		mailer:         mailer,
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *invitationService) SendInvitations(ctx context.Context, shareID, inviterName string, emails []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(emails) == 0 {
		return 0, fmt.Errorf("no recipients: %w", domain.ErrInvalidInput)
	}
	if len(emails) > maxInvitationBatch {
		return 0, fmt.Errorf("at most %d recipients per request: %w", maxInvitationBatch, domain.ErrInvalidInput)
	}
	for _, email := range emails {
		if !emailRegexp.MatchString(email) {
			return 0, fmt.Errorf("invalid email address %q: %w", email, domain.ErrInvalidInput)
		}
	}

	session, err := s.sessionRepo.GetByShareID(ctx, shareID)
	if err != nil {
		if err == domain.ErrNotFound {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	link := fmt.Sprintf("%s/s/%s", s.baseURL, session.ShareID)
	inviter := strings.TrimSpace(inviterName)
	if inviter == "" {
		inviter = "모임 주최자"
	}
	subject := fmt.Sprintf("%s님이 모임 시간 투표에 초대했어요", inviter)
	htmlBody := fmt.Sprintf(
		"<p>%s님이 모임 시간을 정하고 있어요.</p><p><a href=\"%s\">여기</a>에서 안 되는 시간을 표시해 주세요.</p><p>%s ~ %s</p>",
		inviter, link, session.StartDate.Format(domain.DayFormat), session.EndDate.Format(domain.DayFormat),
	)
	textBody := fmt.Sprintf(
		"%s님이 모임 시간을 정하고 있어요.\n%s 에서 안 되는 시간을 표시해 주세요.\n기간: %s ~ %s\n",
		inviter, link, session.StartDate.Format(domain.DayFormat), session.EndDate.Format(domain.DayFormat),
	)

	sent := 0
	var lastErr error
	for _, email := range emails {
		if err := s.mailer.Send(email, subject, htmlBody, textBody); err != nil {
			s.logger.Error("invitation email failed", "to", email, "err", err)
			lastErr = err
			continue
		}
		sent++
	}
	if sent == 0 && lastErr != nil {
		return 0, fmt.Errorf("send invitations: %w", lastErr)
	}
	return sent, nil
}
