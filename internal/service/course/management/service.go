package management

import (
	"context"
	"io"

	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/pkg/logger"
)

type courseRepo interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error)
	SetLogoObjectKey(ctx context.Context, id uuid.UUID, objectKey string) error
}

type searchIndex interface {
	Index(ctx context.Context, course models.Course) error
}

type mediaStorage interface {
	UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// CourseService is the concrete course collaborator: the widget framework
// stores and loads lesson documents through it and treats the content string
// as opaque.
type CourseService struct {
	log    logger.Log
	repo   courseRepo
	search searchIndex
	media  mediaStorage
}

func NewCourseService(log logger.Log, repo courseRepo, search searchIndex, media mediaStorage) *CourseService {
	return &CourseService{log: log, repo: repo, search: search, media: media}
}

// CreateCourse stores a new course carrying its lesson document verbatim.
func (s *CourseService) CreateCourse(ctx context.Context, name, content string, moduleID uuid.UUID, level int, public bool, authorID uuid.UUID) (*models.Course, error) {
	course := &models.Course{
		Name:     name,
		Content:  content,
		ModuleID: moduleID,
		Level:    level,
		Public:   public,
		AuthorID: authorID,
	}
	created, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	if err := s.search.Index(ctx, *created); err != nil {
		// Search is a convenience; a failed index never fails the save.
		s.log.WarnErr("failed to index course", err, "course_id", created.ID)
	}
	return created, nil
}

func (s *CourseService) GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.repo.GetCourseByID(ctx, id)
}

// UpdateCourse applies a partial update after checking authorship. A content
// update replaces the stored document wholesale.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, update models.CourseUpdate, authorID uuid.UUID) (*models.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.AuthorID != authorID {
		return nil, app_errors.ErrNotCourseAuthor
	}
	updated, err := s.repo.UpdateCourse(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if update.Name != nil || update.Description != nil {
		if err := s.search.Index(ctx, *updated); err != nil {
			s.log.WarnErr("failed to reindex course", err, "course_id", id)
		}
	}
	return updated, nil
}

// UploadLogo stores a course logo image and records its object key. Size and
// MIME limits are enforced by the media storage.
func (s *CourseService) UploadLogo(ctx context.Context, id uuid.UUID, filename string, file io.Reader, size int64, contentType string, authorID uuid.UUID) error {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	if course.AuthorID != authorID {
		return app_errors.ErrNotCourseAuthor
	}
	objectKey, err := s.media.UploadLogo(ctx, id, filename, file, size, contentType)
	if err != nil {
		return err
	}
	return s.repo.SetLogoObjectKey(ctx, id, objectKey)
}
