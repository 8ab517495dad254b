package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"CourseCanvas/internal/models"
	"CourseCanvas/pkg/logger"
)

type courseRepo interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListPublicCourses(ctx context.Context, limit, offset int) ([]models.Course, error)
	ListCoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error)
}

type searchIndex interface {
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}

type mediaStorage interface {
	GetImageURL(ctx context.Context, objectKey string) (string, error)
}

type QueryService struct {
	log    logger.Log
	repo   courseRepo
	search searchIndex
	media  mediaStorage
}

func NewQueryService(log logger.Log, repo courseRepo, search searchIndex, media mediaStorage) *QueryService {
	return &QueryService{log: log, repo: repo, search: search, media: media}
}

// ListCourses returns public course previews, optionally filtered through
// the search index when a query string is given.
func (s *QueryService) ListCourses(ctx context.Context, search string, limit, offset int) ([]models.CoursePreview, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var courses []models.Course
	if search != "" {
		ids, err := s.search.Search(ctx, search, limit)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			course, err := s.repo.GetCourseByID(ctx, id)
			if err != nil {
				continue
			}
			if course.Public {
				courses = append(courses, *course)
			}
		}
	} else {
		var err error
		courses, err = s.repo.ListPublicCourses(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
	}

	return lo.Map(courses, func(c models.Course, _ int) models.CoursePreview {
		return s.preview(ctx, c)
	}), nil
}

func (s *QueryService) MyCourses(ctx context.Context, authorID uuid.UUID) ([]models.CoursePreview, error) {
	courses, err := s.repo.ListCoursesByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return lo.Map(courses, func(c models.Course, _ int) models.CoursePreview {
		return s.preview(ctx, c)
	}), nil
}

func (s *QueryService) preview(ctx context.Context, c models.Course) models.CoursePreview {
	preview := models.CoursePreview{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Level:       c.Level,
		Public:      c.Public,
	}
	if c.LogoObjectKey != "" {
		if url, err := s.media.GetImageURL(ctx, c.LogoObjectKey); err == nil {
			preview.LogoURL = url
		}
	}
	return preview
}
