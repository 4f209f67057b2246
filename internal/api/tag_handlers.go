package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/domain"
	"github.com/gamesync/gamesync-server/internal/service"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every curated tag in category display order",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategorizedTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/categorized",
		Summary:     "Categorized tags",
		Description: "Returns tag names grouped by category, sorted within each category",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCategorizedTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTagCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/categories",
		Summary:     "List categories",
		Description: "Returns known tag categories in display order",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a tag. Admin only.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Description: "Renames a tag and rewrites every game carrying it in one atomic batch. Admin only.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes the tag record. Games keep their copy of the tag. Admin only.",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body struct {
		Tags []domain.Tag `json:"tags" doc:"Curated tags"`
	}
}

// CategorizedTagsOutput wraps the category to names map for Huma.
type CategorizedTagsOutput struct {
	Body struct {
		Categories map[domain.Category][]string `json:"categories" doc:"Tag names by category"`
	}
}

// CategoriesOutput wraps the category list for Huma.
type CategoriesOutput struct {
	Body struct {
		Categories []taxonomy.CategoryInfo `json:"categories" doc:"Known categories"`
	}
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body struct {
		Category string `json:"category" doc:"Category key, e.g. mechanics" maxLength:"50"`
		Name     string `json:"name" doc:"Tag name" maxLength:"100"`
	}
}

// TagOutput wraps a single tag for Huma.
type TagOutput struct {
	Body domain.Tag
}

// RenameTagInput wraps the rename request for Huma.
type RenameTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body struct {
		Name string `json:"name" doc:"New tag name" maxLength:"100"`
	}
}

// RenameTagOutput wraps the rename result for Huma.
type RenameTagOutput struct {
	Body taxonomy.RenameResult
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// DeleteTagOutput wraps the delete result for Huma.
type DeleteTagOutput struct {
	Body taxonomy.DeleteResult
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	tags, err := s.services.Tags.List(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	resp := &ListTagsOutput{}
	resp.Body.Tags = tags
	return resp, nil
}

func (s *Server) handleCategorizedTags(ctx context.Context, _ *struct{}) (*CategorizedTagsOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	categorized, err := s.services.Tags.Categorized(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	resp := &CategorizedTagsOutput{}
	resp.Body.Categories = categorized
	return resp, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	resp := &CategoriesOutput{}
	resp.Body.Categories = s.services.Tags.Categories()
	return resp, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	tag, err := s.services.Tags.Create(ctx, service.CreateTagRequest{
		Category: input.Body.Category,
		Name:     input.Body.Name,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleRenameTag(ctx context.Context, input *RenameTagInput) (*RenameTagOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	res, err := s.services.Tags.Rename(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &RenameTagOutput{Body: res}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*DeleteTagOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, toAPIError(err)
	}

	res, err := s.services.Tags.Delete(ctx, input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &DeleteTagOutput{Body: res}, nil
}
