package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
)

// CoursePostgres persists courses. The lesson content document lives in the
// content text column and is replaced wholesale on every save.
type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

func (r *CoursePostgres) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	query := `
		INSERT INTO courses (
			id, name, description, content, module_id, level, public,
			author_id, logo_object_key, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(
		ctx,
		query,
		course.ID,
		course.Name,
		course.Description,
		course.Content,
		course.ModuleID,
		course.Level,
		course.Public,
		course.AuthorID,
		course.LogoObjectKey,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CoursePostgres) GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const query = `
		SELECT id, name, description, content, module_id, level, public,
		       author_id, logo_object_key, created_at, updated_at
		  FROM courses
		 WHERE id = $1
	`
	course := &models.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Content,
		&course.ModuleID,
		&course.Level,
		&course.Public,
		&course.AuthorID,
		&course.LogoObjectKey,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// UpdateCourse applies a partial update; nil fields keep their stored value.
func (r *CoursePostgres) UpdateCourse(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	const query = `
		UPDATE courses SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			content     = COALESCE($4, content),
			level       = COALESCE($5, level),
			public      = COALESCE($6, public),
			updated_at  = $7
		 WHERE id = $1
		RETURNING id, name, description, content, module_id, level, public,
		          author_id, logo_object_key, created_at, updated_at
	`
	course := &models.Course{}
	err := r.db.QueryRow(ctx, query, id,
		update.Name, update.Description, update.Content, update.Level, update.Public,
		time.Now().UTC(),
	).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Content,
		&course.ModuleID,
		&course.Level,
		&course.Public,
		&course.AuthorID,
		&course.LogoObjectKey,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *CoursePostgres) SetLogoObjectKey(ctx context.Context, id uuid.UUID, objectKey string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE courses SET logo_object_key = $2, updated_at = $3 WHERE id = $1`,
		id, objectKey, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) ListPublicCourses(ctx context.Context, limit, offset int) ([]models.Course, error) {
	const query = `
		SELECT id, name, description, content, module_id, level, public,
		       author_id, logo_object_key, created_at, updated_at
		  FROM courses
		 WHERE public = true
	  ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Content, &c.ModuleID, &c.Level,
			&c.Public, &c.AuthorID, &c.LogoObjectKey, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CoursePostgres) ListCoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error) {
	const query = `
		SELECT id, name, description, content, module_id, level, public,
		       author_id, logo_object_key, created_at, updated_at
		  FROM courses
		 WHERE author_id = $1
	  ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Content, &c.ModuleID, &c.Level,
			&c.Public, &c.AuthorID, &c.LogoObjectKey, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
