package rest

import (
	"context"
	"net/http"

	"coursedesk/internal/domain"
	"coursedesk/internal/domain/models/curriculum"
)

// errNotFound aliases the domain sentinel so checkStatus stays import-light.
var errNotFound = domain.ErrNotFound

// reorderRequest is the batch reorder payload.
type reorderRequest struct {
	Orders []curriculum.OrderUpdate `json:"orders"`
}

func (c *Client) CreateDraftCourse(ctx context.Context) (*curriculum.Course, error) {
	var course curriculum.Course
	if err := c.do(ctx, http.MethodPost, "/api/courses/draft", nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) ListSections(ctx context.Context, courseID string) ([]curriculum.Section, error) {
	var sections []curriculum.Section
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+courseID+"/sections", nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) ListLessons(ctx context.Context, sectionID string) ([]curriculum.Lesson, error) {
	var lessons []curriculum.Lesson
	if err := c.do(ctx, http.MethodGet, "/api/sections/"+sectionID+"/lessons", nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (c *Client) CreateSection(ctx context.Context, section *curriculum.Section) error {
	return c.do(ctx, http.MethodPost, "/api/sections", section, section)
}

func (c *Client) UpdateSection(ctx context.Context, section *curriculum.Section) error {
	return c.do(ctx, http.MethodPatch, "/api/sections/"+section.ID, section, section)
}

func (c *Client) DeleteSection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sections/"+id, nil, nil)
}

func (c *Client) ReorderSections(ctx context.Context, courseID string, updates []curriculum.OrderUpdate) error {
	req := reorderRequest{Orders: updates}
	return c.do(ctx, http.MethodPost, "/api/courses/"+courseID+"/sections/reorder", req, nil)
}

func (c *Client) CreateLesson(ctx context.Context, lesson *curriculum.Lesson) error {
	return c.do(ctx, http.MethodPost, "/api/lessons", lesson, lesson)
}

func (c *Client) UpdateLesson(ctx context.Context, lesson *curriculum.Lesson) error {
	return c.do(ctx, http.MethodPatch, "/api/lessons/"+lesson.ID, lesson, lesson)
}

func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/lessons/"+id, nil, nil)
}

func (c *Client) ReorderLessons(ctx context.Context, sectionID string, updates []curriculum.OrderUpdate) error {
	req := reorderRequest{Orders: updates}
	return c.do(ctx, http.MethodPost, "/api/sections/"+sectionID+"/lessons/reorder", req, nil)
}
