// Package seed loads the demo marketplace: reference tables, an admin, a few
// coaches with lessons, and reviews recorded through the regular review flow so
// coach ratings are derived rather than written.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
)

// Deps are the services the seeder writes through.
type Deps struct {
	Store   repository.Store
	Auth    *service.AuthService
	Coaches *service.CoachService
	Lessons *service.LessonService
	Reviews *service.ReviewService
}

// Options tunes the seeded accounts.
type Options struct {
	AdminPassword string
	// Now stamps seeded reviews; defaults to time.Now.
	Now func() time.Time
}

var lessonTypes = []models.LessonType{
	{Name: "개인 레슨", Description: "코치와 1:1로 진행하는 맞춤형 레슨"},
	{Name: "그룹 레슨", Description: "소규모 그룹으로 진행하는 팀 플레이 중심 레슨"},
	{Name: "골키퍼 레슨", Description: "골키퍼 포지션 전문 트레이닝"},
	{Name: "피지컬 트레이닝", Description: "체력과 민첩성 향상을 위한 트레이닝"},
}

var skillLevels = []models.SkillLevel{
	{Name: "입문", Description: "축구를 처음 시작하는 단계"},
	{Name: "초급", Description: "기본기를 익히는 단계"},
	{Name: "중급", Description: "경기 운영과 전술을 배우는 단계"},
	{Name: "고급", Description: "선수 수준의 기술을 다듬는 단계"},
}

type seedLesson struct {
	title       string
	description string
	typeIdx     int
	levelIdx    int
	location    string
	groupSize   int
	duration    int
	price       int
	tags        []string
	ratings     []int
}

type seedCoach struct {
	username        string
	fullName        string
	email           string
	specializations []string
	experience      string
	certifications  string
	location        string
	hourlyRate      int
	schedules       []dto.CreateScheduleRequest
	lessons         []seedLesson
}

var coaches = []seedCoach{
	{
		username:        "coach_kim",
		fullName:        "김도윤",
		email:           "doyoon.kim@kickoff.kr",
		specializations: []string{"드리블", "슈팅"},
		experience:      "K리그 유소년 코치 8년",
		certifications:  "AFC C 라이선스",
		location:        "서울 강남구",
		hourlyRate:      60000,
		schedules: []dto.CreateScheduleRequest{
			{DayOfWeek: 2, StartTime: "18:00", EndTime: "21:00"},
			{DayOfWeek: 6, StartTime: "09:00", EndTime: "13:00"},
		},
		lessons: []seedLesson{
			{"드리블 마스터 클래스", "1:1 볼 컨트롤과 돌파 훈련", 0, 1, "서울 강남구", 1, 60, 60000, []string{"드리블", "볼컨트롤"}, []int{5, 5, 4}},
			{"주말 슈팅 클리닉", "정확도와 파워를 함께 키우는 슈팅 수업", 1, 2, "서울 강남구", 6, 90, 30000, []string{"슈팅"}, []int{4, 5}},
		},
	},
	{
		username:        "coach_lee",
		fullName:        "이서준",
		email:           "seojun.lee@kickoff.kr",
		specializations: []string{"골키퍼"},
		experience:      "대학 축구부 골키퍼 코치 5년",
		certifications:  "대한축구협회 골키퍼 지도자 자격",
		location:        "서울 송파구",
		hourlyRate:      55000,
		schedules: []dto.CreateScheduleRequest{
			{DayOfWeek: 3, StartTime: "19:00", EndTime: "22:00"},
		},
		lessons: []seedLesson{
			{"골키퍼 기초 반", "캐칭, 다이빙, 포지셔닝 기본기", 2, 0, "서울 송파구", 4, 90, 35000, []string{"골키퍼", "다이빙"}, []int{5, 4, 4, 5}},
		},
	},
	{
		username:        "coach_park",
		fullName:        "박지호",
		email:           "jiho.park@kickoff.kr",
		specializations: []string{"피지컬", "전술"},
		experience:      "실업팀 피지컬 트레이너 6년",
		certifications:  "생활스포츠지도사 2급",
		location:        "경기 분당구",
		hourlyRate:      50000,
		schedules: []dto.CreateScheduleRequest{
			{DayOfWeek: 1, StartTime: "07:00", EndTime: "09:00"},
			{DayOfWeek: 4, StartTime: "20:00", EndTime: "22:00"},
		},
		lessons: []seedLesson{
			{"스피드 & 민첩성 트레이닝", "사다리와 콘을 활용한 순발력 훈련", 3, 1, "경기 분당구", 8, 60, 25000, []string{"피지컬", "스피드"}, []int{4, 3}},
			{"성인 전술 그룹 레슨", "포메이션과 압박 전술 이해", 1, 3, "경기 분당구", 10, 120, 40000, []string{"전술"}, nil},
		},
	},
	{
		username:        "coach_choi",
		fullName:        "최예린",
		email:           "yerin.choi@kickoff.kr",
		specializations: []string{"유소년", "드리블"},
		experience:      "초등부 클럽 감독 10년",
		certifications:  "AFC B 라이선스",
		location:        "경기 수원시",
		hourlyRate:      45000,
		lessons: []seedLesson{
			{"어린이 축구 입문", "공과 친해지는 놀이형 수업", 1, 0, "경기 수원시", 8, 50, 20000, []string{"유소년", "입문"}, []int{5, 5, 5}},
		},
	},
}

var students = []struct {
	username string
	fullName string
}{
	{"minsu", "정민수"},
	{"jiwoo", "한지우"},
	{"haneul", "오하늘"},
	{"yuna", "윤유나"},
}

var comments = []string{
	"설명이 친절하고 피드백이 구체적이에요.",
	"짧은 시간에 많이 배웠습니다.",
	"다음 달에도 신청할게요!",
	"훈련 강도가 딱 알맞았어요.",
}

// Run seeds an empty store. A store that already holds lesson types is left
// untouched.
func Run(ctx context.Context, deps Deps, opts Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	existing, err := deps.Store.ListLessonTypes(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, store is not empty")
		return nil
	}

	typeIDs, levelIDs, err := seedReference(ctx, deps.Store)
	if err != nil {
		return err
	}

	if _, err := deps.Auth.CreateUser(ctx, models.User{
		Username: "admin",
		Email:    "admin@kickoff.kr",
		FullName: "관리자",
		IsAdmin:  true,
	}, opts.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	reviewers := make([]int64, 0, len(students))
	for _, s := range students {
		user, err := deps.Auth.CreateUser(ctx, models.User{
			Username: s.username,
			Email:    s.username + "@example.com",
			FullName: s.fullName,
		}, s.username+"1234")
		if err != nil {
			return fmt.Errorf("seed student %s: %w", s.username, err)
		}
		reviewers = append(reviewers, user.ID)
	}

	reviewed := 0
	for _, sc := range coaches {
		lessonIDs, err := seedCoachProfile(ctx, deps, sc, typeIDs, levelIDs)
		if err != nil {
			return err
		}
		for i, lesson := range sc.lessons {
			for j, stars := range lesson.ratings {
				_, err := deps.Reviews.Record(ctx, models.Review{
					UserID:    reviewers[j%len(reviewers)],
					LessonID:  lessonIDs[i],
					Rating:    stars,
					Comment:   comments[(i+j)%len(comments)],
					CreatedAt: opts.Now().UTC().AddDate(0, 0, -(j + 1)),
				})
				if err != nil {
					return fmt.Errorf("seed review for %q: %w", lesson.title, err)
				}
				reviewed++
			}
		}
	}

	logger.Info("seed data loaded",
		zap.Int("coaches", len(coaches)),
		zap.Int("students", len(students)),
		zap.Int("reviews", reviewed),
	)
	return nil
}

func seedReference(ctx context.Context, store repository.Store) ([]int64, []int64, error) {
	typeIDs := make([]int64, 0, len(lessonTypes))
	for _, lt := range lessonTypes {
		created, err := store.InsertLessonType(ctx, lt)
		if err != nil {
			return nil, nil, fmt.Errorf("seed lesson type %s: %w", lt.Name, err)
		}
		typeIDs = append(typeIDs, created.ID)
	}
	levelIDs := make([]int64, 0, len(skillLevels))
	for _, sl := range skillLevels {
		created, err := store.InsertSkillLevel(ctx, sl)
		if err != nil {
			return nil, nil, fmt.Errorf("seed skill level %s: %w", sl.Name, err)
		}
		levelIDs = append(levelIDs, created.ID)
	}
	return typeIDs, levelIDs, nil
}

func seedCoachProfile(ctx context.Context, deps Deps, sc seedCoach, typeIDs, levelIDs []int64) ([]int64, error) {
	user, err := deps.Auth.CreateUser(ctx, models.User{
		Username: sc.username,
		Email:    sc.email,
		FullName: sc.fullName,
	}, sc.username+"1234")
	if err != nil {
		return nil, fmt.Errorf("seed coach user %s: %w", sc.username, err)
	}
	actor := &models.JWTClaims{UserID: user.ID, Username: user.Username}

	coach, err := deps.Coaches.Create(ctx, actor, dto.CreateCoachRequest{
		Specializations: sc.specializations,
		Experience:      sc.experience,
		Certifications:  sc.certifications,
		Location:        sc.location,
		HourlyRate:      sc.hourlyRate,
	})
	if err != nil {
		return nil, fmt.Errorf("seed coach %s: %w", sc.username, err)
	}
	actor.IsCoach = true

	for _, slot := range sc.schedules {
		if _, err := deps.Coaches.AddSchedule(ctx, actor, coach.ID, slot); err != nil {
			return nil, fmt.Errorf("seed schedule for %s: %w", sc.username, err)
		}
	}

	ids := make([]int64, 0, len(sc.lessons))
	for _, l := range sc.lessons {
		typeID, levelID := typeIDs[l.typeIdx], levelIDs[l.levelIdx]
		lesson, err := deps.Lessons.Create(ctx, actor, dto.CreateLessonRequest{
			Title:        l.title,
			Description:  l.description,
			LessonTypeID: &typeID,
			SkillLevelID: &levelID,
			Location:     l.location,
			GroupSize:    l.groupSize,
			Duration:     l.duration,
			Price:        l.price,
			Tags:         l.tags,
		})
		if err != nil {
			return nil, fmt.Errorf("seed lesson %q: %w", l.title, err)
		}
		ids = append(ids, lesson.ID)
	}
	return ids, nil
}
