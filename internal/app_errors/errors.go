package app_errors

import "errors"

var ErrCourseNotFound = errors.New("course not found")
var ErrNotCourseAuthor = errors.New("you are not course author")
var ErrCourseNotPublished = errors.New("course not published")
var ErrWidgetNotFound = errors.New("widget not found in lesson")
var ErrWidgetTypeUnknown = errors.New("widget type is not registered")
var ErrLabelRequired = errors.New("label is required for this widget type")
var ErrSessionNotFound = errors.New("editor session not found")
var ErrDraftNotFound = errors.New("no draft open for widget")
var ErrUnsavedChanges = errors.New("draft has unsaved changes")
var ErrNotInteractive = errors.New("widget does not accept answers")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
var ErrImageNotFound = errors.New("image not found")
var ErrTokenExpired = errors.New("token expired")
var ErrRightItemTaken = errors.New("right item is already matched")
