package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	args := m.Called(ctx, toEmail, fullName)
	return args.Error(0)
}

func (m *EmailService) SendInterestEmail(ctx context.Context, toEmail, recipientName, senderName, listingTitle, message string) error {
	args := m.Called(ctx, toEmail, recipientName, senderName, listingTitle, message)
	return args.Error(0)
}
