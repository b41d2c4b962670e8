package service

import (
	"context"
	"fmt"
	"time"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

// stubUserRepo keeps users in memory keyed by id.
type stubUserRepo struct {
	users         map[string]*domain.User
	statBumps     map[string]int
	failIncrement error
	lastLoginIDs  []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		statBumps: make(map[string]int),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByRole(_ context.Context, role domain.Role) (bool, error) {
	for _, u := range r.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserListFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.AssignedAdminID != "" && u.AssignedAdminID != filter.AssignedAdminID {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ActiveStatus = active
	return nil
}

func (r *stubUserRepo) StampLastLogin(_ context.Context, id string) error {
	r.lastLoginIDs = append(r.lastLoginIDs, id)
	return nil
}

func (r *stubUserRepo) IncrementStat(_ context.Context, id, stat string, delta int) error {
	if r.failIncrement != nil {
		return r.failIncrement
	}
	r.statBumps[id+"/"+stat] += delta
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// stubVoterRepo records calls and serves voters from memory.
type stubVoterRepo struct {
	voters     map[string]*domain.Voter
	seq        int
	lastFilter domain.VoterFilter
	lastPage   int
	lastLimit  int
	lastFields map[string]any
	assigned   []string
	visitedIDs []string
	votedIDs   []string
	appended   map[string][]string
	insertErr  error
	insertHook func(*domain.Voter) error
	appendErr  error
	visitErr   error
}

func newStubVoterRepo() *stubVoterRepo {
	return &stubVoterRepo{
		voters:   make(map[string]*domain.Voter),
		appended: make(map[string][]string),
	}
}

func cloneVoter(v *domain.Voter) *domain.Voter {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func (r *stubVoterRepo) add(v *domain.Voter) *domain.Voter {
	r.voters[v.ID] = cloneVoter(v)
	return cloneVoter(v)
}

func (r *stubVoterRepo) Insert(_ context.Context, v *domain.Voter) (*domain.Voter, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if r.insertHook != nil {
		if err := r.insertHook(v); err != nil {
			return nil, err
		}
	}
	copy := cloneVoter(v)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("voter-%d", r.seq)
	}
	r.voters[copy.ID] = cloneVoter(copy)
	return cloneVoter(copy), nil
}

func (r *stubVoterRepo) FindByID(_ context.Context, id string) (*domain.Voter, error) {
	v, ok := r.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return cloneVoter(v), nil
}

func (r *stubVoterRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.Voter, error) {
	v, ok := r.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	r.lastFields = fields
	return cloneVoter(v), nil
}

func (r *stubVoterRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.voters[id]; !ok {
		return domain.ErrVoterNotFound
	}
	delete(r.voters, id)
	return nil
}

func (r *stubVoterRepo) List(_ context.Context, filter domain.VoterFilter, page, limit int) ([]*domain.Voter, int64, error) {
	r.lastFilter = filter
	r.lastPage = page
	r.lastLimit = limit
	var out []*domain.Voter
	for _, v := range r.voters {
		out = append(out, cloneVoter(v))
	}
	return out, int64(len(out)), nil
}

func (r *stubVoterRepo) FindAll(_ context.Context, filter domain.VoterFilter, limit int) ([]*domain.Voter, error) {
	r.lastFilter = filter
	r.lastLimit = limit
	var out []*domain.Voter
	for _, v := range r.voters {
		out = append(out, cloneVoter(v))
	}
	return out, nil
}

func (r *stubVoterRepo) Assign(_ context.Context, voterIDs []string, karyakartaID, assignedBy string, at time.Time) (int64, error) {
	r.assigned = append(r.assigned, voterIDs...)
	for _, id := range voterIDs {
		if v, ok := r.voters[id]; ok {
			v.AssignedTo = karyakartaID
			v.AssignedBy = assignedBy
		}
	}
	return int64(len(voterIDs)), nil
}

func (r *stubVoterRepo) UpdateMany(_ context.Context, voterIDs []string, fields map[string]any) (int64, error) {
	r.lastFields = fields
	return int64(len(voterIDs)), nil
}

func (r *stubVoterRepo) MarkVisited(_ context.Context, id, visitedBy string, at time.Time) error {
	if r.visitErr != nil {
		return r.visitErr
	}
	v, ok := r.voters[id]
	if !ok {
		return domain.ErrVoterNotFound
	}
	v.VisitedStatus = true
	v.VisitedBy = visitedBy
	v.VisitCount++
	r.visitedIDs = append(r.visitedIDs, id)
	return nil
}

func (r *stubVoterRepo) MarkVoted(_ context.Context, id string, at time.Time) error {
	v, ok := r.voters[id]
	if !ok {
		return domain.ErrVoterNotFound
	}
	v.VotedStatus = true
	r.votedIDs = append(r.votedIDs, id)
	return nil
}

func (r *stubVoterRepo) AppendSurvey(_ context.Context, voterID, surveyID string) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended[voterID] = append(r.appended[voterID], surveyID)
	return nil
}

func (r *stubVoterRepo) Stats(_ context.Context, scope domain.Scope) (*ports.VoterStats, error) {
	var stats ports.VoterStats
	for _, v := range r.voters {
		if scope.AdminID != "" && v.AdminID != scope.AdminID {
			continue
		}
		if scope.AssignedTo != "" && v.AssignedTo != scope.AssignedTo {
			continue
		}
		stats.Total++
		if v.VisitedStatus {
			stats.Visited++
		}
		if v.VotedStatus {
			stats.Voted++
		}
	}
	return &stats, nil
}

func (r *stubVoterRepo) Count(_ context.Context, filter domain.VoterFilter) (int64, error) {
	var n int64
	for _, v := range r.voters {
		if filter.Scope.AdminID != "" && v.AdminID != filter.Scope.AdminID {
			continue
		}
		if filter.Scope.AssignedTo != "" && v.AssignedTo != filter.Scope.AssignedTo {
			continue
		}
		if filter.Visited != nil && v.VisitedStatus != *filter.Visited {
			continue
		}
		if filter.Voted != nil && v.VotedStatus != *filter.Voted {
			continue
		}
		n++
	}
	return n, nil
}

// stubSessionRepo keeps import sessions in memory.
type stubSessionRepo struct {
	sessions  map[string]*domain.ImportSession
	seq       int
	completed *domain.ImportSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.ImportSession)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.ImportSession) (*domain.ImportSession, error) {
	copy := *s
	r.seq++
	copy.ID = fmt.Sprintf("sess-%d", r.seq)
	stored := copy
	r.sessions[copy.ID] = &stored
	return &copy, nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.ImportSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *stubSessionRepo) Complete(_ context.Context, id, adminID string, imported, failed int, errs []domain.RowError, at time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Status = domain.ImportCompleted
	s.AdminID = adminID
	s.ImportedCount = imported
	s.ErrorCount = failed
	s.Errors = errs
	s.CompletedAt = &at
	r.completed = s
	return nil
}

func (r *stubSessionRepo) ListRecent(_ context.Context, limit int) ([]*domain.ImportSession, error) {
	var out []*domain.ImportSession
	for _, s := range r.sessions {
		copy := *s
		out = append(out, &copy)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// stubRowStore holds transient import rows in memory.
type stubRowStore struct {
	rows    map[string][]domain.ImportRow
	lastTTL time.Duration
	deleted []string
}

func newStubRowStore() *stubRowStore {
	return &stubRowStore{rows: make(map[string][]domain.ImportRow)}
}

func (s *stubRowStore) SaveRows(_ context.Context, sessionID string, rows []domain.ImportRow, ttl time.Duration) error {
	s.rows[sessionID] = rows
	s.lastTTL = ttl
	return nil
}

func (s *stubRowStore) LoadRows(_ context.Context, sessionID string) ([]domain.ImportRow, error) {
	rows, ok := s.rows[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return rows, nil
}

func (s *stubRowStore) DeleteRows(_ context.Context, sessionID string) error {
	delete(s.rows, sessionID)
	s.deleted = append(s.deleted, sessionID)
	return nil
}

// stubSurveyRepo keeps templates and submissions in memory.
type stubSurveyRepo struct {
	templates map[string]*domain.SurveyTemplate
	surveys   []*domain.Survey
	seq       int
	statsArg  string
}

func newStubSurveyRepo() *stubSurveyRepo {
	return &stubSurveyRepo{templates: make(map[string]*domain.SurveyTemplate)}
}

func (r *stubSurveyRepo) addTemplate(t *domain.SurveyTemplate) *domain.SurveyTemplate {
	copy := *t
	r.templates[copy.ID] = &copy
	return &copy
}

func (r *stubSurveyRepo) InsertTemplate(_ context.Context, t *domain.SurveyTemplate) (*domain.SurveyTemplate, error) {
	copy := *t
	r.seq++
	copy.ID = fmt.Sprintf("tpl-%d", r.seq)
	stored := copy
	r.templates[copy.ID] = &stored
	return &copy, nil
}

func (r *stubSurveyRepo) FindTemplateByID(_ context.Context, id string) (*domain.SurveyTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *stubSurveyRepo) ListTemplates(_ context.Context, requester domain.Claims) ([]*domain.SurveyTemplate, error) {
	var out []*domain.SurveyTemplate
	for _, t := range r.templates {
		copy := *t
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubSurveyRepo) Insert(_ context.Context, s *domain.Survey) (*domain.Survey, error) {
	copy := *s
	r.seq++
	copy.ID = fmt.Sprintf("survey-%d", r.seq)
	stored := copy
	r.surveys = append(r.surveys, &stored)
	return &copy, nil
}

func (r *stubSurveyRepo) ListByVoter(_ context.Context, voterID string, limit int) ([]*domain.Survey, error) {
	var out []*domain.Survey
	for _, s := range r.surveys {
		if s.VoterID == voterID {
			copy := *s
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubSurveyRepo) ListBySubmitter(_ context.Context, userID string, limit int) ([]*domain.Survey, error) {
	var out []*domain.Survey
	for _, s := range r.surveys {
		if s.KaryakartaID == userID {
			copy := *s
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubSurveyRepo) CountBySubmitter(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, s := range r.surveys {
		if s.KaryakartaID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubSurveyRepo) CountBySubmitters(_ context.Context, userIDs []string) (int64, error) {
	var n int64
	for _, id := range userIDs {
		c, _ := r.CountBySubmitter(context.Background(), id)
		n += c
	}
	return n, nil
}

func (r *stubSurveyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.surveys)), nil
}

func (r *stubSurveyRepo) Statistics(_ context.Context, submitterID string) (*ports.SurveyStatistics, error) {
	r.statsArg = submitterID
	return &ports.SurveyStatistics{TotalSurveys: int64(len(r.surveys))}, nil
}

// stubTaskRepo keeps tasks in memory.
type stubTaskRepo struct {
	tasks      map[string]*domain.Task
	seq        int
	lastFields map[string]any
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) add(t *domain.Task) *domain.Task {
	copy := *t
	r.tasks[copy.ID] = &copy
	return &copy
}

func (r *stubTaskRepo) Insert(_ context.Context, t *domain.Task) (*domain.Task, error) {
	copy := *t
	r.seq++
	copy.ID = fmt.Sprintf("task-%d", r.seq)
	stored := copy
	r.tasks[copy.ID] = &stored
	return &copy, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *stubTaskRepo) ListByAssignee(_ context.Context, userID string, status domain.TaskStatus, limit int) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.AssignedTo != userID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		copy := *t
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, id string, fields map[string]any) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.lastFields = fields
	if status, ok := fields["status"].(domain.TaskStatus); ok {
		t.Status = status
	}
	if pct, ok := fields["completion_percentage"].(float64); ok {
		t.CompletionPercentage = pct
	}
	if at, ok := fields["completed_at"].(time.Time); ok {
		t.CompletedAt = &at
	}
	copy := *t
	return &copy, nil
}

func (r *stubTaskRepo) CountByAssignee(_ context.Context, userID string, status domain.TaskStatus) (int64, error) {
	tasks, _ := r.ListByAssignee(context.Background(), userID, status, 0)
	return int64(len(tasks)), nil
}
