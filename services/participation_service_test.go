package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

func TestParticipationRequest(t *testing.T) {
	env := newTestEnv()
	tournament := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationOpen)
	team := &models.Team{ID: 1, Name: "Team 01", CaptainID: captainPrincipal.UserID}
	env.teams.teams[team.ID] = team

	participation, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, captainPrincipal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if participation.Status != models.ParticipationPending {
		t.Errorf("status = %s, want %s", participation.Status, models.ParticipationPending)
	}

	// Повторная заявка той же команды — конфликт.
	if _, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, captainPrincipal); !errors.Is(err, ErrDuplicateParticipation) {
		t.Errorf("duplicate: want ErrDuplicateParticipation, got %v", err)
	}
}

func TestParticipationRequest_Gates(t *testing.T) {
	env := newTestEnv()
	team := &models.Team{ID: 1, Name: "Team 01", CaptainID: captainPrincipal.UserID}
	env.teams.teams[team.ID] = team

	closed := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationClosed)
	if _, err := env.participationSvc.Request(context.Background(), closed.ID, team.ID, captainPrincipal); !errors.Is(err, ErrRegistrationNotOpen) {
		t.Errorf("closed registration: want ErrRegistrationNotOpen, got %v", err)
	}

	open := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationOpen)

	stranger := models.Principal{UserID: 555, Role: models.RoleCaptain}
	if _, err := env.participationSvc.Request(context.Background(), open.ID, team.ID, stranger); !errors.Is(err, ErrCaptainActionForbidden) {
		t.Errorf("non-captain: want ErrCaptainActionForbidden, got %v", err)
	}

	if _, err := env.participationSvc.Request(context.Background(), open.ID, 42, captainPrincipal); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("unknown team: want ErrTeamNotFound, got %v", err)
	}

	if _, err := env.participationSvc.Request(context.Background(), 999, team.ID, captainPrincipal); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament: want ErrTournamentNotFound, got %v", err)
	}
}

func TestParticipationRequest_RejectedTeamMayReapply(t *testing.T) {
	env := newTestEnv()
	tournament := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationOpen)
	team := &models.Team{ID: 1, Name: "Team 01", CaptainID: captainPrincipal.UserID}
	env.teams.teams[team.ID] = team

	first, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, captainPrincipal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reason := "roster incomplete"
	if _, err := env.participationSvc.Review(context.Background(), first.ID, adminPrincipal, ReviewParticipationInput{
		Decision: DecisionReject,
		Reason:   &reason,
	}); err != nil {
		t.Fatalf("unexpected review error: %v", err)
	}

	// После отказа команда может подать заявку снова.
	if _, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, captainPrincipal); err != nil {
		t.Fatalf("re-application after rejection failed: %v", err)
	}
}

func TestParticipationReview(t *testing.T) {
	env := newTestEnv()
	tournament := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationOpen)
	team := &models.Team{ID: 1, Name: "Team 01", CaptainID: captainPrincipal.UserID}
	env.teams.teams[team.ID] = team

	participation, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, captainPrincipal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Капитан не может ревьюить.
	if _, err := env.participationSvc.Review(context.Background(), participation.ID, captainPrincipal, ReviewParticipationInput{Decision: DecisionApprove}); !errors.Is(err, ErrAdminRoleRequired) {
		t.Errorf("captain review: want ErrAdminRoleRequired, got %v", err)
	}

	// Отказ без причины не принимается.
	if _, err := env.participationSvc.Review(context.Background(), participation.ID, adminPrincipal, ReviewParticipationInput{Decision: DecisionReject}); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Errorf("reject without reason: want ErrRejectionReasonRequired, got %v", err)
	}

	// Неизвестное решение.
	if _, err := env.participationSvc.Review(context.Background(), participation.ID, adminPrincipal, ReviewParticipationInput{Decision: "maybe"}); !errors.Is(err, ErrUnknownReviewDecision) {
		t.Errorf("unknown decision: want ErrUnknownReviewDecision, got %v", err)
	}

	reviewed, err := env.participationSvc.Review(context.Background(), participation.ID, adminPrincipal, ReviewParticipationInput{Decision: DecisionApprove})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reviewed.Status != models.ParticipationApproved {
		t.Errorf("status = %s, want %s", reviewed.Status, models.ParticipationApproved)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != adminPrincipal.UserID {
		t.Errorf("reviewer not recorded")
	}

	// Повторное ревью той же заявки.
	if _, err := env.participationSvc.Review(context.Background(), participation.ID, adminPrincipal, ReviewParticipationInput{Decision: DecisionApprove}); !errors.Is(err, ErrParticipationAlreadyReviewed) {
		t.Errorf("second review: want ErrParticipationAlreadyReviewed, got %v", err)
	}
}

func TestParticipationReview_CapacityEnforcedAtApproval(t *testing.T) {
	env := newTestEnv()
	tournament := env.seedTournament(models.FormatRoundRobin, models.StatusRegistrationOpen)
	env.tournaments.tournaments[tournament.ID].MaxTeams = 2

	// Три pending-заявки на два места: pending сверх лимита допустимы.
	pendingIDs := make([]int, 0, 3)
	for i := 1; i <= 3; i++ {
		team := &models.Team{ID: i, Name: fmt.Sprintf("Team %02d", i), CaptainID: 200 + i}
		env.teams.teams[team.ID] = team
		p, err := env.participationSvc.Request(context.Background(), tournament.ID, team.ID, models.Principal{UserID: 200 + i, Role: models.RoleCaptain})
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		pendingIDs = append(pendingIDs, p.ID)
	}

	for _, id := range pendingIDs[:2] {
		if _, err := env.participationSvc.Review(context.Background(), id, adminPrincipal, ReviewParticipationInput{Decision: DecisionApprove}); err != nil {
			t.Fatalf("approval %d failed: %v", id, err)
		}
	}

	// Третье одобрение упирается в вместимость.
	if _, err := env.participationSvc.Review(context.Background(), pendingIDs[2], adminPrincipal, ReviewParticipationInput{Decision: DecisionApprove}); !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("want ErrTournamentFull, got %v", err)
	}

	// Но отказ третьей заявки всё ещё возможен.
	reason := "no slots left"
	if _, err := env.participationSvc.Review(context.Background(), pendingIDs[2], adminPrincipal, ReviewParticipationInput{Decision: DecisionReject, Reason: &reason}); err != nil {
		t.Fatalf("rejection after capacity reached failed: %v", err)
	}
}
