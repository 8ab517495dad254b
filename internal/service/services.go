package service

import (
	"CourseCanvas/internal/service/course/management"
	"CourseCanvas/internal/service/course/query"
	"CourseCanvas/internal/service/lesson/authoring"
	"CourseCanvas/internal/service/lesson/playback"
)

type Collection struct {
	Courses   *management.CourseService
	Query     *query.QueryService
	Authoring *authoring.Service
	Playback  *playback.Service
}
