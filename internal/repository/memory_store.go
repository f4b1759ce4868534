package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
)

type memoryData struct {
	users       *table[models.User]
	coaches     *table[models.Coach]
	lessonTypes *table[models.LessonType]
	skillLevels *table[models.SkillLevel]
	lessons     *table[models.Lesson]
	bookings    *table[models.Booking]
	reviews     *table[models.Review]
	schedules   *table[models.Schedule]
	inquiries   *table[models.Inquiry]
	companyInfo map[string]models.CompanyInfo
}

// MemoryStore keeps every entity in process memory. Each constructed store is
// independent, so tests get a fresh one per case.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		data: &memoryData{
			users:       newTable(func(u *models.User, id int64) { u.ID = id }, nil),
			coaches:     newTable(func(c *models.Coach, id int64) { c.ID = id }, cloneCoach),
			lessonTypes: newTable(func(t *models.LessonType, id int64) { t.ID = id }, nil),
			skillLevels: newTable(func(l *models.SkillLevel, id int64) { l.ID = id }, nil),
			lessons:     newTable(func(l *models.Lesson, id int64) { l.ID = id }, cloneLesson),
			bookings:    newTable(func(b *models.Booking, id int64) { b.ID = id }, nil),
			reviews:     newTable(func(r *models.Review, id int64) { r.ID = id }, cloneReview),
			schedules:   newTable(func(s *models.Schedule, id int64) { s.ID = id }, nil),
			inquiries:   newTable(func(i *models.Inquiry, id int64) { i.ID = id }, nil),
			companyInfo: make(map[string]models.CompanyInfo),
		},
	}
}

func cloneCoach(c models.Coach) models.Coach {
	c.Specializations = cloneStrings(c.Specializations)
	return c
}

func cloneLesson(l models.Lesson) models.Lesson {
	l.Tags = cloneStrings(l.Tags)
	return l
}

func cloneReview(r models.Review) models.Review {
	r.Tags = cloneStrings(r.Tags)
	return r
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithTx holds the write lock for the duration of fn. Writes made by fn are not
// rolled back when it fails.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&MemoryStore{mu: s.mu, data: s.data, inTx: true})
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	defer s.rlock()()
	return s.data.users.get(id), nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer s.rlock()()
	return s.data.users.find(func(u *models.User) bool { return u.Username == username }), nil
}

func (s *MemoryStore) GetUserBySocial(ctx context.Context, provider, socialID string) (*models.User, error) {
	defer s.rlock()()
	return s.data.users.find(func(u *models.User) bool {
		return u.SocialProvider != nil && u.SocialID != nil && *u.SocialProvider == provider && *u.SocialID == socialID
	}), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	defer s.rlock()()
	return s.data.users.list(), nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	defer s.lock()()
	if s.data.users.find(func(u *models.User) bool { return u.Username == user.Username }) != nil {
		return nil, ErrUsernameTaken
	}
	return s.data.users.insert(user), nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, apply func(*models.User)) (*models.User, error) {
	defer s.lock()()
	return s.data.users.update(id, apply), nil
}

func (s *MemoryStore) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	defer s.rlock()()
	return s.data.coaches.get(id), nil
}

func (s *MemoryStore) GetCoachByUserID(ctx context.Context, userID int64) (*models.Coach, error) {
	defer s.rlock()()
	return s.data.coaches.find(func(c *models.Coach) bool { return c.UserID == userID }), nil
}

func (s *MemoryStore) ListCoaches(ctx context.Context) ([]models.Coach, error) {
	defer s.rlock()()
	return s.data.coaches.list(), nil
}

func (s *MemoryStore) InsertCoach(ctx context.Context, coach models.Coach) (*models.Coach, error) {
	defer s.lock()()
	return s.data.coaches.insert(coach), nil
}

func (s *MemoryStore) UpdateCoach(ctx context.Context, id int64, apply func(*models.Coach)) (*models.Coach, error) {
	defer s.lock()()
	return s.data.coaches.update(id, apply), nil
}

// LockCoach is a no-op: WithTx already holds the store-wide write lock.
func (s *MemoryStore) LockCoach(ctx context.Context, id int64) error {
	return nil
}

func (s *MemoryStore) GetLessonType(ctx context.Context, id int64) (*models.LessonType, error) {
	defer s.rlock()()
	return s.data.lessonTypes.get(id), nil
}

func (s *MemoryStore) ListLessonTypes(ctx context.Context) ([]models.LessonType, error) {
	defer s.rlock()()
	return s.data.lessonTypes.list(), nil
}

func (s *MemoryStore) InsertLessonType(ctx context.Context, lessonType models.LessonType) (*models.LessonType, error) {
	defer s.lock()()
	return s.data.lessonTypes.insert(lessonType), nil
}

func (s *MemoryStore) GetSkillLevel(ctx context.Context, id int64) (*models.SkillLevel, error) {
	defer s.rlock()()
	return s.data.skillLevels.get(id), nil
}

func (s *MemoryStore) ListSkillLevels(ctx context.Context) ([]models.SkillLevel, error) {
	defer s.rlock()()
	return s.data.skillLevels.list(), nil
}

func (s *MemoryStore) InsertSkillLevel(ctx context.Context, level models.SkillLevel) (*models.SkillLevel, error) {
	defer s.lock()()
	return s.data.skillLevels.insert(level), nil
}

func (s *MemoryStore) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	defer s.rlock()()
	return s.data.lessons.get(id), nil
}

func (s *MemoryStore) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	defer s.rlock()()
	return s.data.lessons.list(), nil
}

func (s *MemoryStore) InsertLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	defer s.lock()()
	return s.data.lessons.insert(lesson), nil
}

func (s *MemoryStore) UpdateLesson(ctx context.Context, id int64, apply func(*models.Lesson)) (*models.Lesson, error) {
	defer s.lock()()
	return s.data.lessons.update(id, apply), nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	defer s.rlock()()
	return s.data.bookings.get(id), nil
}

func (s *MemoryStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	defer s.rlock()()
	return s.data.bookings.list(), nil
}

func (s *MemoryStore) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	defer s.lock()()
	return s.data.bookings.insert(booking), nil
}

func (s *MemoryStore) UpdateBooking(ctx context.Context, id int64, apply func(*models.Booking)) (*models.Booking, error) {
	defer s.lock()()
	return s.data.bookings.update(id, apply), nil
}

func (s *MemoryStore) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	defer s.rlock()()
	return s.data.reviews.get(id), nil
}

func (s *MemoryStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	defer s.rlock()()
	return s.data.reviews.list(), nil
}

func (s *MemoryStore) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	defer s.lock()()
	return s.data.reviews.insert(review), nil
}

func (s *MemoryStore) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	defer s.rlock()()
	return s.data.schedules.get(id), nil
}

func (s *MemoryStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	defer s.rlock()()
	return s.data.schedules.list(), nil
}

func (s *MemoryStore) InsertSchedule(ctx context.Context, schedule models.Schedule) (*models.Schedule, error) {
	defer s.lock()()
	return s.data.schedules.insert(schedule), nil
}

func (s *MemoryStore) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	defer s.rlock()()
	return s.data.inquiries.get(id), nil
}

func (s *MemoryStore) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	defer s.rlock()()
	return s.data.inquiries.list(), nil
}

func (s *MemoryStore) InsertInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error) {
	defer s.lock()()
	return s.data.inquiries.insert(inquiry), nil
}

func (s *MemoryStore) UpdateInquiry(ctx context.Context, id int64, apply func(*models.Inquiry)) (*models.Inquiry, error) {
	defer s.lock()()
	return s.data.inquiries.update(id, apply), nil
}

func (s *MemoryStore) ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error) {
	defer s.rlock()()
	out := make([]models.CompanyInfo, 0, len(s.data.companyInfo))
	for _, entry := range s.data.companyInfo {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) GetCompanyInfo(ctx context.Context, key string) (*models.CompanyInfo, error) {
	defer s.rlock()()
	entry, ok := s.data.companyInfo[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) UpsertCompanyInfo(ctx context.Context, entries ...models.CompanyInfo) error {
	defer s.lock()()
	now := time.Now().UTC()
	for _, entry := range entries {
		entry.UpdatedAt = now
		s.data.companyInfo[entry.Key] = entry
	}
	return nil
}

var (
	_ Store            = (*MemoryStore)(nil)
	_ CompanyInfoStore = (*MemoryStore)(nil)
)
