package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/live"
	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/Mas2205/UrbanFootCenter-sub000/repositories"
)

// In-memory реализации репозиториев. Параметр exec игнорируется:
// конкурентный доступ в юнит-тестах не моделируется.

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeHub struct {
	mu     sync.Mutex
	events []live.Event
	rooms  []string
}

func (h *fakeHub) BroadcastToRoom(roomID string, event live.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	h.rooms = append(h.rooms, roomID)
}

func (h *fakeHub) eventTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, 0, len(h.events))
	for _, e := range h.events {
		types = append(types, e.Type)
	}
	return types
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int

	// onExpiredList вызывается после выборки просроченных турниров.
	// Позволяет смоделировать конкурентное изменение между чтением и записью.
	onExpiredList func()
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) put(t *models.Tournament) *models.Tournament {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	} else if t.ID >= r.nextID {
		r.nextID = t.ID + 1
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return t
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	t.CreatedAt = time.Now()
	r.put(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.FieldID != nil && t.FieldID != *filter.FieldID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateStatusIfCurrent(ctx context.Context, exec repositories.SQLExecutor, id int, from, to models.TournamentStatus) (bool, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return false, repositories.ErrTournamentNotFound
	}
	if t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

func (r *fakeTournamentRepo) UpdateChampion(ctx context.Context, exec repositories.SQLExecutor, id int, championTeamID *int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ChampionTeamID = championTeamID
	return nil
}

func (r *fakeTournamentRepo) SetRedrawToken(ctx context.Context, exec repositories.SQLExecutor, id int, tokenHash string, expiresAt time.Time) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.RedrawTokenHash = &tokenHash
	t.RedrawTokenExpiresAt = &expiresAt
	return nil
}

func (r *fakeTournamentRepo) ClearRedrawToken(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.RedrawTokenHash = nil
	t.RedrawTokenExpiresAt = nil
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *fakeTournamentRepo) ListWithExpiredRegistration(ctx context.Context, exec repositories.SQLExecutor, now time.Time) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.Status == models.StatusRegistrationOpen && !t.RegistrationDeadline.After(now) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if r.onExpiredList != nil {
		r.onExpiredList()
	}
	return out, nil
}

type fakeParticipationRepo struct {
	participations map[int]*models.Participation
	teams          *fakeTeamRepo
	nextID         int
}

func newFakeParticipationRepo(teams *fakeTeamRepo) *fakeParticipationRepo {
	return &fakeParticipationRepo{
		participations: make(map[int]*models.Participation),
		teams:          teams,
		nextID:         1,
	}
}

func (r *fakeParticipationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participation) error {
	for _, existing := range r.participations {
		if existing.TeamID == p.TeamID && existing.TournamentID == p.TournamentID &&
			existing.Status != models.ParticipationRejected {
			return repositories.ErrParticipationConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	r.participations[p.ID] = &cp
	return nil
}

func (r *fakeParticipationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Participation, error) {
	p, ok := r.participations[id]
	if !ok {
		return nil, repositories.ErrParticipationNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipationRepo) FindActiveByTeamAndTournament(ctx context.Context, exec repositories.SQLExecutor, teamID, tournamentID int) (*models.Participation, error) {
	for _, p := range r.participations {
		if p.TeamID == teamID && p.TournamentID == tournamentID && p.Status != models.ParticipationRejected {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipationRepo) CountApproved(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, p := range r.participations {
		if p.TournamentID == tournamentID && p.Status == models.ParticipationApproved {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipationRepo) UpdateReview(ctx context.Context, exec repositories.SQLExecutor, id int, status models.ParticipationStatus, reason *string, reviewerID int, reviewedAt time.Time) error {
	p, ok := r.participations[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	p.Status = status
	p.RejectionReason = reason
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &reviewedAt
	return nil
}

func (r *fakeParticipationRepo) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipationStatus, includeTeam bool) ([]*models.Participation, error) {
	out := make([]*models.Participation, 0)
	for _, p := range r.participations {
		if p.TournamentID != tournamentID {
			continue
		}
		if statusFilter != nil && p.Status != *statusFilter {
			continue
		}
		cp := *p
		if includeTeam {
			cp.Team = r.teams.teams[p.TeamID]
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipationRepo) ListApprovedTeams(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Team, error) {
	approved, _ := r.ListByTournament(ctx, tournamentID, statusPtr(models.ParticipationApproved), false)
	teams := make([]*models.Team, 0, len(approved))
	for _, p := range approved {
		if team, ok := r.teams.teams[p.TeamID]; ok {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (r *fakeTeamRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) (map[int]*models.Team, error) {
	out := make(map[int]*models.Team, len(ids))
	for _, id := range ids {
		if team, ok := r.teams[id]; ok {
			out[id] = team
		}
	}
	return out, nil
}

type fakeFieldRepo struct {
	fields map[int]*models.Field
}

func newFakeFieldRepo() *fakeFieldRepo {
	return &fakeFieldRepo{fields: make(map[int]*models.Field)}
}

func (r *fakeFieldRepo) GetByID(ctx context.Context, id int) (*models.Field, error) {
	field, ok := r.fields[id]
	if !ok {
		return nil, repositories.ErrFieldNotFound
	}
	return field, nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, filter repositories.ListMatchesFilter) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if filter.GroupLabel != nil && (m.GroupLabel == nil || *m.GroupLabel != *filter.GroupLabel) {
			continue
		}
		if filter.Round != nil && (m.Round == nil || *m.Round != *filter.Round) {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, id int, homeGoals, awayGoals int, status models.MatchStatus, winnerTeamID *int, recordedBy int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeGoals = &homeGoals
	m.AwayGoals = &awayGoals
	m.Status = status
	m.WinnerTeamID = winnerTeamID
	m.RecordedBy = &recordedBy
	return nil
}

func (r *fakeMatchRepo) UpdateNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, matchID int, nextMatchID *int, nextMatchSlot *int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextMatchID
	m.NextMatchSlot = nextMatchSlot
	return nil
}

func (r *fakeMatchRepo) SetTeamIntoSlot(ctx context.Context, exec repositories.SQLExecutor, matchID, slot, teamID int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	switch slot {
	case 1:
		m.HomeTeamID = &teamID
	case 2:
		m.AwayTeamID = &teamID
	default:
		return repositories.ErrMatchInvalidSlot
	}
	return nil
}

func (r *fakeMatchRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	return nil
}

type fakeStandingRepo struct {
	rows   map[int]*models.StandingRow
	nextID int
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{rows: make(map[int]*models.StandingRow), nextID: 1}
}

func (r *fakeStandingRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, rows []*models.StandingRow) error {
	for _, row := range rows {
		row.ID = r.nextID
		r.nextID++
		cp := *row
		r.rows[row.ID] = &cp
	}
	return nil
}

func (r *fakeStandingRepo) GetByTournamentAndTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (*models.StandingRow, error) {
	for _, row := range r.rows {
		if row.TournamentID == tournamentID && row.TeamID == teamID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrStandingNotFound
}

func (r *fakeStandingRepo) Update(ctx context.Context, exec repositories.SQLExecutor, row *models.StandingRow) error {
	if _, ok := r.rows[row.ID]; !ok {
		return repositories.ErrStandingNotFound
	}
	cp := *row
	r.rows[row.ID] = &cp
	return nil
}

func (r *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, includeTeam bool) ([]*models.StandingRow, error) {
	out := make([]*models.StandingRow, 0)
	for _, row := range r.rows {
		if row.TournamentID == tournamentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStandingRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, row := range r.rows {
		if row.TournamentID == tournamentID {
			delete(r.rows, id)
		}
	}
	return nil
}

func statusPtr(s models.ParticipationStatus) *models.ParticipationStatus {
	return &s
}
