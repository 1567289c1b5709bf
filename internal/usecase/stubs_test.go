package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

// memPrincipalRepo is an in-memory principal store for service tests.
type memPrincipalRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Principal
}

func newMemPrincipalRepo(seed ...domain.Principal) *memPrincipalRepo {
	repo := &memPrincipalRepo{nextID: 1, rows: make(map[int64]domain.Principal)}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = repo.nextID
		}
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
		repo.rows[p.ID] = p
	}
	return repo
}

func (r *memPrincipalRepo) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Email == email {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPrincipalRepo) GetByID(_ context.Context, id int64) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := p
	return &found, nil
}

func (r *memPrincipalRepo) Create(_ context.Context, p domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Email == p.Email {
			return nil, repository.ErrConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.rows[p.ID] = p
	created := p
	return &created, nil
}

func (r *memPrincipalRepo) Update(_ context.Context, p domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[p.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Name = p.Name
	existing.Email = p.Email
	if p.Status != "" {
		existing.Status = p.Status
	}
	existing.UpdatedAt = time.Now()
	r.rows[p.ID] = existing
	updated := existing
	return &updated, nil
}

func (r *memPrincipalRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memPrincipalRepo) List(_ context.Context) ([]domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Principal, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPrincipalRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func (r *memPrincipalRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PasswordHash = hash
	r.rows[id] = p
	return nil
}

func (r *memPrincipalRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.rows {
		if p.Email == email {
			p.PasswordHash = hash
			r.rows[id] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

// memTokenRepo is an in-memory refresh token store. It records whether the
// last login stamped last_login_at so tests can assert the asymmetry between
// the password and OTP paths.
type memTokenRepo struct {
	mu         sync.Mutex
	rows       map[string]domain.RefreshToken
	principals *memPrincipalRepo
}

func newMemTokenRepo(principals *memPrincipalRepo) *memTokenRepo {
	return &memTokenRepo{rows: make(map[string]domain.RefreshToken), principals: principals}
}

func (r *memTokenRepo) RecordLogin(_ context.Context, principalID int64, token string, expiresAt time.Time, touchLastLogin bool) error {
	r.mu.Lock()
	r.rows[token] = domain.RefreshToken{Token: token, PrincipalID: principalID, ExpiresAt: expiresAt}
	r.mu.Unlock()

	if touchLastLogin && r.principals != nil {
		r.principals.mu.Lock()
		p, ok := r.principals.rows[principalID]
		if ok {
			now := time.Now()
			p.LastLoginAt = &now
			r.principals.rows[principalID] = p
		}
		r.principals.mu.Unlock()
	}
	return nil
}

func (r *memTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rows[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := rt
	return &found, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, token)
	return nil
}

func (r *memTokenRepo) ExtendExpiry(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rows[token]
	if !ok {
		return repository.ErrNotFound
	}
	rt.ExpiresAt = expiresAt
	r.rows[token] = rt
	return nil
}

func (r *memTokenRepo) Rotate(_ context.Context, oldToken string, principalID int64, newToken string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[oldToken]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, oldToken)
	r.rows[newToken] = domain.RefreshToken{Token: newToken, PrincipalID: principalID, ExpiresAt: expiresAt}
	return nil
}

func (r *memTokenRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, rt := range r.rows {
		if !rt.ExpiresAt.After(cutoff) {
			delete(r.rows, token)
			removed++
		}
	}
	return removed, nil
}

func (r *memTokenRepo) has(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[token]
	return ok
}

func (r *memTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type otpKey struct {
	email   string
	purpose domain.OTPPurpose
}

// memOTPRepo is an in-memory OTP store with the delete-before-insert
// supersession behavior of the real table.
type memOTPRepo struct {
	mu   sync.Mutex
	rows map[otpKey]domain.OTP
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{rows: make(map[otpKey]domain.OTP)}
}

func (r *memOTPRepo) Replace(_ context.Context, otp domain.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[otpKey{otp.Email, otp.Purpose}] = otp
	return nil
}

func (r *memOTPRepo) Get(_ context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp, ok := r.rows[otpKey{email, purpose}]
	if !ok || otp.Code != code {
		return nil, repository.ErrNotFound
	}
	found := otp
	return &found, nil
}

func (r *memOTPRepo) Delete(_ context.Context, email string, purpose domain.OTPPurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, otpKey{email, purpose})
	return nil
}

func (r *memOTPRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key, otp := range r.rows {
		if !otp.ExpiresAt.After(cutoff) {
			delete(r.rows, key)
			removed++
		}
	}
	return removed, nil
}

// recordingMailer captures sent mail instead of delivering it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *recordingMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// memCourseRepo is an in-memory course, enrollment, and document store.
type memCourseRepo struct {
	mu          sync.Mutex
	nextID      int64
	nextDocID   int64
	courses     map[int64]domain.Course
	enrollments map[[2]int64]struct{}
	documents   map[int64]domain.Document
	students    *memPrincipalRepo
}

func newMemCourseRepo(students *memPrincipalRepo) *memCourseRepo {
	return &memCourseRepo{
		nextID:      1,
		nextDocID:   1,
		courses:     make(map[int64]domain.Course),
		enrollments: make(map[[2]int64]struct{}),
		documents:   make(map[int64]domain.Document),
		students:    students,
	}
}

func (r *memCourseRepo) Create(_ context.Context, c domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.courses[c.ID] = c
	created := c
	return &created, nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id int64) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := c
	return &found, nil
}

func (r *memCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCourseRepo) Update(_ context.Context, c domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.courses[c.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Name = c.Name
	existing.Description = c.Description
	existing.Status = c.Status
	existing.UpdatedAt = time.Now()
	r.courses[c.ID] = existing
	updated := existing
	return &updated, nil
}

func (r *memCourseRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	for key := range r.enrollments {
		if key[1] == id {
			delete(r.enrollments, key)
		}
	}
	for docID, doc := range r.documents {
		if doc.CourseID == id {
			delete(r.documents, docID)
		}
	}
	return nil
}

func (r *memCourseRepo) ListStudents(_ context.Context, courseID int64) ([]domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Principal, 0)
	for key := range r.enrollments {
		if key[1] != courseID {
			continue
		}
		if r.students != nil {
			r.students.mu.Lock()
			if p, ok := r.students.rows[key[0]]; ok {
				out = append(out, p)
			}
			r.students.mu.Unlock()
		}
	}
	return out, nil
}

func (r *memCourseRepo) Enroll(_ context.Context, courseID, studentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{studentID, courseID}
	if _, ok := r.enrollments[key]; ok {
		return repository.ErrConflict
	}
	r.enrollments[key] = struct{}{}
	return nil
}

func (r *memCourseRepo) Unenroll(_ context.Context, courseID, studentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{studentID, courseID}
	if _, ok := r.enrollments[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.enrollments, key)
	return nil
}

func (r *memCourseRepo) ListDocuments(_ context.Context, courseID int64) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Document, 0)
	for _, doc := range r.documents {
		if doc.CourseID == courseID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *memCourseRepo) AddDocument(_ context.Context, d domain.Document) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = r.nextDocID
	r.nextDocID++
	d.CreatedAt = time.Now()
	r.documents[d.ID] = d
	created := d
	return &created, nil
}

func (r *memCourseRepo) DeleteDocument(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

// countingStatsRepo serves fixed dashboard stats and counts invocations.
type countingStatsRepo struct {
	mu    sync.Mutex
	calls int
	stats domain.DashboardStats
}

func (r *countingStatsRepo) Stats(context.Context) (*domain.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	snapshot := r.stats
	return &snapshot, nil
}

func (r *countingStatsRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// memCache is an in-memory byte cache with TTL semantics.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	fail    error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return payload, nil
}

func (c *memCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// memFacultyRepo is an in-memory faculty profile store.
type memFacultyRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Faculty
}

func newMemFacultyRepo() *memFacultyRepo {
	return &memFacultyRepo{nextID: 1, rows: make(map[int64]domain.Faculty)}
}

func (r *memFacultyRepo) Create(_ context.Context, f domain.Faculty) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	r.rows[f.ID] = f
	created := f
	return &created, nil
}

func (r *memFacultyRepo) GetByID(_ context.Context, id int64) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := f
	return &found, nil
}

func (r *memFacultyRepo) List(_ context.Context) ([]domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Faculty, 0, len(r.rows))
	for _, f := range r.rows {
		out = append(out, f)
	}
	return out, nil
}

func (r *memFacultyRepo) Update(_ context.Context, f domain.Faculty) (*domain.Faculty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[f.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Name = f.Name
	existing.Qualifications = f.Qualifications
	existing.Description = f.Description
	existing.Specialities = f.Specialities
	existing.ExperienceYears = f.ExperienceYears
	existing.ImageURL = f.ImageURL
	existing.UpdatedAt = time.Now()
	r.rows[f.ID] = existing
	updated := existing
	return &updated, nil
}

func (r *memFacultyRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// memScholarRepo is an in-memory scholar and subject store.
type memScholarRepo struct {
	mu         sync.Mutex
	nextID     int64
	nextSubID  int64
	rows       map[int64]domain.Scholar
}

func newMemScholarRepo() *memScholarRepo {
	return &memScholarRepo{nextID: 1, nextSubID: 1, rows: make(map[int64]domain.Scholar)}
}

func (r *memScholarRepo) assignSubjects(scholarID int64, subjects []domain.ScholarSubject) []domain.ScholarSubject {
	out := make([]domain.ScholarSubject, 0, len(subjects))
	for _, sub := range subjects {
		sub.ID = r.nextSubID
		r.nextSubID++
		sub.ScholarID = scholarID
		out = append(out, sub)
	}
	return out
}

func (r *memScholarRepo) Create(_ context.Context, s domain.Scholar) (*domain.Scholar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	s.Subjects = r.assignSubjects(s.ID, s.Subjects)
	r.rows[s.ID] = s
	created := s
	return &created, nil
}

func (r *memScholarRepo) GetByID(_ context.Context, id int64) (*domain.Scholar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := s
	return &found, nil
}

func (r *memScholarRepo) List(_ context.Context) ([]domain.Scholar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Scholar, 0, len(r.rows))
	for _, s := range r.rows {
		s.Subjects = nil
		out = append(out, s)
	}
	return out, nil
}

func (r *memScholarRepo) Update(_ context.Context, s domain.Scholar) (*domain.Scholar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[s.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Name = s.Name
	existing.Degree = s.Degree
	existing.ImageURL = s.ImageURL
	if s.Subjects != nil {
		existing.Subjects = r.assignSubjects(s.ID, s.Subjects)
	}
	existing.UpdatedAt = time.Now()
	r.rows[s.ID] = existing
	updated := existing
	return &updated, nil
}

func (r *memScholarRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
