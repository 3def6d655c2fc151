package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации входных данных
	ErrValidationFailed        = errors.New("validation failed")
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrTournamentInvalidDates  = errors.New("tournament dates must satisfy registration_deadline <= start_date <= end_date")
	ErrTournamentInvalidCap    = errors.New("tournament max teams must be at least 2")
	ErrTournamentInvalidFormat = errors.New("unknown tournament format")
	ErrInvalidScore            = errors.New("match score must be non-negative integers")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrUnknownReviewDecision   = errors.New("review decision must be approve or reject")

	// Ошибки состояний и бизнес-правил
	ErrInvalidStatusTransition      = errors.New("invalid tournament status transition")
	ErrRegistrationNotOpen          = errors.New("tournament registration is not open")
	ErrDuplicateParticipation       = errors.New("team already holds an active participation for this tournament")
	ErrParticipationAlreadyReviewed = errors.New("participation has already been reviewed")
	ErrMatchAlreadyPlayed           = errors.New("match is not awaiting a result")
	ErrMatchTeamsNotDecided         = errors.New("match participants are not decided yet")
	ErrKnockoutDrawNotAllowed       = errors.New("knockout match cannot end in a draw")
	ErrDrawNotAllowed               = errors.New("draw is not allowed in the current tournament state")
	ErrInsufficientTeams            = errors.New("not enough approved teams for a draw")
	ErrNoDrawGenerated              = errors.New("tournament cannot start before a draw has been generated")
	ErrTournamentNotDeletable       = errors.New("tournament can only be deleted in preparation or cancelled state")
	ErrQualifiersNotAvailable       = errors.New("qualifiers are only defined for the groups format")
	ErrRedrawTokenInvalid           = errors.New("redraw confirmation token is invalid")
	ErrRedrawTokenExpired           = errors.New("redraw confirmation token has expired")

	// Ошибки вместимости и конфликтов данных
	ErrTournamentFull         = errors.New("tournament has no remaining approved slots")
	ErrTournamentNameConflict = errors.New("tournament with this name already exists for the creator")
	ErrTournamentInUse        = errors.New("tournament has participations or matches and cannot be removed")

	// Ошибки авторизации
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrAdminRoleRequired      = errors.New("administrator role is required for this action")
	ErrCaptainActionForbidden = errors.New("only the team captain can perform this action")

	// Ошибки, специфичные для сущностей (дублируют ErrNotFound, но дают больше контекста)
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrFieldNotFound         = errors.New("field not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrMatchNotFound         = errors.New("match not found")
)
