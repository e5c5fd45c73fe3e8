package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/mailer"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// ===== RELATIONAL FAKE =====

type memStore struct {
	mu sync.Mutex

	users       map[string]*models.User
	students    map[string]*models.StudentProfile
	educators   map[string]*models.EducatorProfile
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	reviews     map[uint]*models.Review
	moods       map[uint]*models.MoodEntry
	nextID      uint

	adminStats *models.AdminStats
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*models.User{},
		students:    map[string]*models.StudentProfile{},
		educators:   map[string]*models.EducatorProfile{},
		courses:     map[uint]*models.Course{},
		enrollments: map[uint]*models.Enrollment{},
		reviews:     map[uint]*models.Review{},
		moods:       map[uint]*models.MoodEntry{},
		adminStats:  &models.AdminStats{UsersByRole: map[models.UserRole]int64{}, CoursesByStatus: map[models.CourseStatus]int64{}},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memRepo struct{ s *memStore }

func (r memRepo) User() repositories.UserRepository                       { return memUsers(r) }
func (r memRepo) StudentProfile() repositories.StudentProfileRepository   { return memStudents(r) }
func (r memRepo) EducatorProfile() repositories.EducatorProfileRepository { return memEducators(r) }
func (r memRepo) Course() repositories.CourseRepository                   { return memCourses(r) }
func (r memRepo) Enrollment() repositories.EnrollmentRepository           { return memEnrollments(r) }
func (r memRepo) Review() repositories.ReviewRepository                   { return memReviews(r) }
func (r memRepo) Mood() repositories.MoodRepository                       { return memMoods(r) }
func (r memRepo) Dashboard() repositories.DashboardRepository             { return memDashboard(r) }
func (r memRepo) Ping(ctx context.Context) error                          { return nil }
func (r memRepo) Close() error                                            { return nil }

func (r memRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

// --- users ---

type memUsers memRepo

func (r memUsers) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrDuplicate
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memUsers) GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == hash && u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memUsers) Update(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r memUsers) List(ctx context.Context, f repositories.UserFilters) ([]*models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

// --- profiles ---

type memStudents memRepo

func (r memStudents) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.students[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memStudents) Upsert(ctx context.Context, p *models.StudentProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.students[p.UserID] = &cp
	return nil
}

type memEducators memRepo

func (r memEducators) GetByUserID(ctx context.Context, userID string) (*models.EducatorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.educators[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memEducators) Upsert(ctx context.Context, p *models.EducatorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.educators[p.UserID] = &cp
	return nil
}

// --- courses ---

type memCourses memRepo

func (r memCourses) Create(ctx context.Context, c *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	cp := *c
	r.s.courses[c.ID] = &cp
	return nil
}

func (r memCourses) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCourses) Update(ctx context.Context, c *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.courses[c.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	cp := *c
	// aggregates are owned by the store
	cp.AverageRating, cp.ReviewCount, cp.EnrollmentCount = stored.AverageRating, stored.ReviewCount, stored.EnrollmentCount
	r.s.courses[c.ID] = &cp
	return nil
}

func (r memCourses) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.courses, id)
	return nil
}

func (r memCourses) List(ctx context.Context, f repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids map[uint]bool
	if f.IDs != nil {
		ids = map[uint]bool{}
		for _, id := range f.IDs {
			ids[id] = true
		}
	}
	var out []*models.Course
	for _, c := range r.s.courses {
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.EducatorID != "" && c.EducatorID != f.EducatorID {
			continue
		}
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		if ids != nil && !ids[c.ID] {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Description), strings.ToLower(f.Search)) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r memCourses) Categories(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, c := range r.s.courses {
		if c.Status == models.CoursePublished && !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r memCourses) FindByHints(ctx context.Context, q repositories.RecommendationQuery) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	excluded := map[uint]bool{}
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}
	var out []*models.Course
	for _, c := range r.s.courses {
		if c.Status != models.CoursePublished || excluded[c.ID] {
			continue
		}
		if q.Level != nil && c.Level != *q.Level {
			continue
		}
		if matchesAny(c.Category, q.Categories) || matchesAny(c.Title+" "+c.Description, q.Keywords) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchesAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(strings.ToLower(text), strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func (r memCourses) Popular(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	excluded := map[uint]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*models.Course
	for _, c := range r.s.courses {
		if c.Status == models.CoursePublished && !excluded[c.ID] {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnrollmentCount != out[j].EnrollmentCount {
			return out[i].EnrollmentCount > out[j].EnrollmentCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memCourses) IncrementEnrollmentCount(ctx context.Context, id uint, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.EnrollmentCount += delta
	if c.EnrollmentCount < 0 {
		c.EnrollmentCount = 0
	}
	return nil
}

// --- enrollments ---

type memEnrollments memRepo

func (r memEnrollments) Create(ctx context.Context, e *models.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return repositories.ErrDuplicate
		}
	}
	e.ID = r.s.id()
	cp := *e
	r.s.enrollments[e.ID] = &cp
	return nil
}

func (r memEnrollments) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memEnrollments) Update(ctx context.Context, e *models.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	cp.Course, cp.User = nil, nil
	r.s.enrollments[e.ID] = &cp
	return nil
}

func (r memEnrollments) ListByUser(ctx context.Context, userID string, f repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	return r.list(func(e *models.Enrollment) bool { return e.UserID == userID }, f)
}

func (r memEnrollments) ListByCourse(ctx context.Context, courseID uint, f repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	return r.list(func(e *models.Enrollment) bool { return e.CourseID == courseID }, f)
}

func (r memEnrollments) list(match func(*models.Enrollment) bool, f repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range r.s.enrollments {
		if !match(e) || (f.Status != nil && e.Status != *f.Status) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r memEnrollments) CourseIDsByUser(ctx context.Context, userID string) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint
	for _, e := range r.s.enrollments {
		if e.UserID == userID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

func (r memEnrollments) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r memEnrollments) ExportRows(ctx context.Context, courseID *uint) ([]models.EnrollmentExportRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []models.EnrollmentExportRow
	for _, e := range r.s.enrollments {
		if courseID != nil && e.CourseID != *courseID {
			continue
		}
		row := models.EnrollmentExportRow{
			EnrollmentID:   e.ID,
			StudentID:      e.UserID,
			CourseID:       e.CourseID,
			Status:         e.Status,
			Progress:       e.Progress,
			CompletedCount: len(e.CompletedLessons),
			EnrolledAt:     e.EnrolledAt,
			CompletedAt:    e.CompletedAt,
		}
		if u, ok := r.s.users[e.UserID]; ok {
			row.StudentName, row.StudentEmail = u.Name, u.Email
		}
		if c, ok := r.s.courses[e.CourseID]; ok {
			row.CourseTitle = c.Title
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EnrollmentID < rows[j].EnrollmentID })
	return rows, nil
}

// --- reviews ---

type memReviews memRepo

// recompute mirrors the rating hook of the review model
func (r memReviews) recompute(courseID uint) {
	var ratings []int
	for _, rv := range r.s.reviews {
		if rv.CourseID == courseID {
			ratings = append(ratings, rv.Rating)
		}
	}
	if c, ok := r.s.courses[courseID]; ok {
		c.AverageRating = models.AverageRating(ratings)
		c.ReviewCount = len(ratings)
	}
}

func (r memReviews) Create(ctx context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.UserID == rv.UserID && existing.CourseID == rv.CourseID {
			return repositories.ErrDuplicate
		}
	}
	rv.ID = r.s.id()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	r.recompute(rv.CourseID)
	return nil
}

func (r memReviews) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r memReviews) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range r.s.reviews {
		if rv.UserID == userID && rv.CourseID == courseID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memReviews) Update(ctx context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	r.recompute(rv.CourseID)
	return nil
}

func (r memReviews) Delete(ctx context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[rv.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.reviews, rv.ID)
	r.recompute(rv.CourseID)
	return nil
}

func (r memReviews) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Review
	for _, rv := range r.s.reviews {
		if rv.CourseID == courseID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

// --- moods ---

type memMoods memRepo

func (r memMoods) Create(ctx context.Context, m *models.MoodEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.EntryDate = models.Day(m.EntryDate)
	for _, existing := range r.s.moods {
		if existing.UserID == m.UserID && existing.EntryDate.Equal(m.EntryDate) {
			return repositories.ErrDuplicate
		}
	}
	m.ID = r.s.id()
	cp := *m
	r.s.moods[m.ID] = &cp
	return nil
}

func (r memMoods) GetByID(ctx context.Context, id uint) (*models.MoodEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.moods[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r memMoods) GetByUserAndDate(ctx context.Context, userID string, day time.Time) (*models.MoodEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.moods {
		if m.UserID == userID && m.EntryDate.Equal(models.Day(day)) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memMoods) Update(ctx context.Context, m *models.MoodEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.moods[m.ID] = &cp
	return nil
}

func (r memMoods) Delete(ctx context.Context, m *models.MoodEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.moods[m.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.moods, m.ID)
	return nil
}

func (r memMoods) ListByUser(ctx context.Context, userID string, f repositories.MoodFilters) ([]*models.MoodEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.MoodEntry
	for _, m := range r.s.moods {
		if m.UserID != userID {
			continue
		}
		if f.From != nil && m.EntryDate.Before(models.Day(*f.From)) {
			continue
		}
		if f.To != nil && m.EntryDate.After(models.Day(*f.To)) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- dashboard ---

type memDashboard memRepo

func (r memDashboard) EducatorDashboard(ctx context.Context, educatorID string) (*models.EducatorDashboard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d := &models.EducatorDashboard{Courses: []models.CourseEnrollmentStat{}}
	for _, c := range r.s.courses {
		if c.EducatorID != educatorID {
			continue
		}
		d.TotalCourses++
		if c.Status == models.CoursePublished {
			d.PublishedCourses++
		}
	}
	return d, nil
}

func (r memDashboard) CourseStats(ctx context.Context, educatorID string) ([]models.CourseEnrollmentStat, error) {
	return []models.CourseEnrollmentStat{}, nil
}

func (r memDashboard) StudentStats(ctx context.Context, userID string) (*repositories.StudentEnrollmentStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &repositories.StudentEnrollmentStats{}
	for _, e := range r.s.enrollments {
		if e.UserID != userID {
			continue
		}
		switch e.Status {
		case models.EnrollmentActive:
			stats.Active++
		case models.EnrollmentCompleted:
			stats.Completed++
		case models.EnrollmentDropped:
			stats.Dropped++
		}
	}
	return stats, nil
}

func (r memDashboard) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *r.s.adminStats
	return &cp, nil
}

// ===== DOCUMENT FAKE =====

type memDocs struct {
	mu          sync.Mutex
	discussions map[primitive.ObjectID]*models.Discussion
	activity    []*models.ActivityLog
	sessions    map[primitive.ObjectID]*models.CounselingSession
}

func newMemDocs() *memDocs {
	return &memDocs{
		discussions: map[primitive.ObjectID]*models.Discussion{},
		sessions:    map[primitive.ObjectID]*models.CounselingSession{},
	}
}

func (d *memDocs) Discussion() repositories.DiscussionRepository { return (*memDiscussions)(d) }
func (d *memDocs) Activity() repositories.ActivityRepository     { return (*memActivity)(d) }
func (d *memDocs) Counseling() repositories.CounselingRepository { return (*memCounseling)(d) }
func (d *memDocs) Ping(ctx context.Context) error                { return nil }
func (d *memDocs) Close(ctx context.Context) error               { return nil }

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, repositories.ErrNotFound
	}
	return oid, nil
}

type memDiscussions memDocs

func (d *memDiscussions) Create(ctx context.Context, disc *models.Discussion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	disc.ID = primitive.NewObjectID()
	if disc.Replies == nil {
		disc.Replies = []models.DiscussionReply{}
	}
	cp := *disc
	d.discussions[disc.ID] = &cp
	return nil
}

func (d *memDiscussions) GetByID(ctx context.Context, id string) (*models.Discussion, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	disc, ok := d.discussions[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *disc
	cp.Replies = append([]models.DiscussionReply(nil), disc.Replies...)
	return &cp, nil
}

func (d *memDiscussions) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Discussion, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*models.Discussion
	for _, disc := range d.discussions {
		if disc.CourseID == courseID {
			cp := *disc
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (d *memDiscussions) AddReply(ctx context.Context, id string, reply models.DiscussionReply) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	disc, ok := d.discussions[oid]
	if !ok {
		return repositories.ErrNotFound
	}
	disc.Replies = append(disc.Replies, reply)
	return nil
}

func (d *memDiscussions) SetPinned(ctx context.Context, id string, pinned bool) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	disc, ok := d.discussions[oid]
	if !ok {
		return repositories.ErrNotFound
	}
	disc.IsPinned = pinned
	return nil
}

func (d *memDiscussions) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.discussions[oid]; !ok {
		return repositories.ErrNotFound
	}
	delete(d.discussions, oid)
	return nil
}

type memActivity memDocs

func (d *memActivity) Create(ctx context.Context, entry *models.ActivityLog) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activity = append(d.activity, entry)
	return nil
}

func (d *memActivity) List(ctx context.Context, f repositories.ActivityFilters) ([]*models.ActivityLog, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*models.ActivityLog
	for i := len(d.activity) - 1; i >= 0; i-- {
		a := d.activity[i]
		if (f.UserID == "" || a.UserID == f.UserID) && (f.Action == "" || a.Action == f.Action) {
			out = append(out, a)
		}
	}
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

type memCounseling memDocs

func (d *memCounseling) Create(ctx context.Context, s *models.CounselingSession) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s.ID = primitive.NewObjectID()
	cp := *s
	d.sessions[s.ID] = &cp
	return nil
}

func (d *memCounseling) GetByID(ctx context.Context, id string) (*models.CounselingSession, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	cp.Messages = append([]models.ChatMessage(nil), s.Messages...)
	return &cp, nil
}

func (d *memCounseling) ListByUser(ctx context.Context, userID string, limit int) ([]*models.CounselingSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*models.CounselingSession
	for _, s := range d.sessions {
		if s.UserID == userID {
			cp := *s
			cp.Messages = nil
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (d *memCounseling) AppendMessages(ctx context.Context, id string, messages ...models.ChatMessage) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[oid]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Messages = append(s.Messages, messages...)
	return nil
}

// ===== EXTERNAL FAKES =====

type fakeAI struct {
	mu       sync.Mutex
	reply    string
	err      error
	image    []byte
	prompts  [][]ai.Message
	imageFor []string
}

func (f *fakeAI) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) ChatJSON(ctx context.Context, messages []ai.Message, dest interface{}) error {
	reply, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return ai.DecodeJSONReply(reply, dest)
}

func (f *fakeAI) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageFor = append(f.imageFor, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Ping(ctx context.Context) error { return nil }

type fakeSearch struct {
	indexed map[uint]bool
	hits    []uint
	err     error
}

func (f *fakeSearch) IndexCourse(ctx context.Context, c *models.Course) error {
	f.indexed[c.ID] = true
	return nil
}

func (f *fakeSearch) DeleteCourse(ctx context.Context, id uint) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeSearch) Search(ctx context.Context, q string, limit int) ([]uint, error) {
	return f.hits, f.err
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) Sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

// ===== HARNESS =====

var testNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	store     *memStore
	docs      *memDocs
	publisher *events.MockEventPublisher
	ai        *fakeAI
	storage   *fakeStorage
	mailer    *fakeMailer
	deps      *Dependencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		store:     newMemStore(),
		docs:      newMemDocs(),
		publisher: events.NewMockEventPublisher(logger),
		ai:        &fakeAI{},
		storage:   newFakeStorage(),
		mailer:    &fakeMailer{},
	}
	env.deps = &Dependencies{
		Repo:        memRepo{s: env.store},
		Documents:   env.docs,
		Cache:       cache.NewCacheManager(nil),
		Publisher:   env.publisher,
		AI:          env.ai,
		Storage:     env.storage,
		Mailer:      env.mailer,
		JWT:         auth.NewJWTManager("test-secret-key-that-is-long-enough", time.Hour),
		Validator:   validator.New(),
		Logger:      logger,
		FrontendURL: "https://learn.test",
		Now:         func() time.Time { return testNow },
	}
	return env
}

func (e *testEnv) addUser(t *testing.T, id string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: role, IsActive: true, Provider: models.ProviderLocal}
	if err := e.deps.Repo.User().Create(context.Background(), u); err != nil {
		t.Fatalf("addUser(%s) error = %v", id, err)
	}
	return u
}

func (e *testEnv) addCourse(t *testing.T, educatorID string, status models.CourseStatus) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:       "Intro to Go",
		Description: "Learn Go from scratch",
		Category:    "Programming",
		Level:       models.LevelBeginner,
		Status:      status,
		EducatorID:  educatorID,
		Modules: []models.Module{{
			ID:    "m1",
			Title: "Basics",
			Lessons: []models.Lesson{
				{ID: "l1", Title: "Hello"},
				{ID: "l2", Title: "Types"},
			},
		}},
	}
	if err := e.deps.Repo.Course().Create(context.Background(), c); err != nil {
		t.Fatalf("addCourse() error = %v", err)
	}
	return c
}

func (e *testEnv) enroll(t *testing.T, userID string, courseID uint, status models.EnrollmentStatus) *models.Enrollment {
	t.Helper()
	en := &models.Enrollment{UserID: userID, CourseID: courseID, Status: status, EnrolledAt: testNow}
	if err := e.deps.Repo.Enrollment().Create(context.Background(), en); err != nil {
		t.Fatalf("enroll() error = %v", err)
	}
	return en
}

func (e *testEnv) course(t *testing.T, id uint) *models.Course {
	t.Helper()
	c, err := e.deps.Repo.Course().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("course(%d) error = %v", id, err)
	}
	return c
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func hasEvent(types []events.EventType, want events.EventType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
