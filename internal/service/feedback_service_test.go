package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestCreateFeedback(t *testing.T) {
	t.Parallel()

	env := newTicketTestEnv(t)
	feedbackRepo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(feedbackRepo, env.tickets)
	ticket := env.createTicket(t, "Broken laptop")

	stranger := &domain.User{FirstName: "Eve", LastName: "Other", Email: "eve@example.com", Role: domain.RoleUser}
	if err := env.users.Create(context.Background(), stranger); err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	_, err := svc.CreateFeedback(context.Background(), env.submitter, ticket.ID, "amazing", "")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("got %v, want VALIDATION_FAILED for unknown rating", err)
	}

	// Still pending: not ratable yet.
	_, err = svc.CreateFeedback(context.Background(), env.submitter, ticket.ID, domain.FeedbackPositive, "great")
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("got %v, want VALIDATION_FAILED before resolution", err)
	}

	if _, err := env.svc.UpdateStatus(context.Background(), env.firstAgent, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	_, err = svc.CreateFeedback(context.Background(), stranger, ticket.ID, domain.FeedbackPositive, "great")
	assertNotFound(t, err)

	fb, err := svc.CreateFeedback(context.Background(), env.submitter, ticket.ID, domain.FeedbackPositive, "great service")
	if err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	if fb.AgentID != env.firstAgent.ID {
		t.Errorf("agent = %s, want assigned agent %s", fb.AgentID, env.firstAgent.ID)
	}
	if fb.SubmitterID != env.submitter.ID {
		t.Errorf("submitter = %s, want %s", fb.SubmitterID, env.submitter.ID)
	}

	// One shot per ticket.
	_, err = svc.CreateFeedback(context.Background(), env.submitter, ticket.ID, domain.FeedbackNegative, "changed my mind")
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("got %v, want CONFLICT on repeat feedback", err)
	}

	listed, err := svc.ListAgentFeedback(context.Background(), env.firstAgent.ID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Rating != domain.FeedbackPositive {
		t.Errorf("listed = %+v, want the single positive rating", listed)
	}
}
