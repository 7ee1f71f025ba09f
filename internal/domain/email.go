package domain

import "context"

// Mailer sends a single email.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}

// InvitationService sends session share links by email.
type InvitationService interface {
	// SendInvitations emails the session's share link to each address.
	// Returns the number of emails sent.
	SendInvitations(ctx context.Context, shareID, inviterName string, emails []string) (int, error)
}
