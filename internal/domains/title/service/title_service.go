package service

import (
	"context"
	"errors"
	"time"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/category"
	"yamdb-backend/internal/domains/genre"
	"yamdb-backend/internal/domains/title/model"
	"yamdb-backend/internal/domains/title/repository"
)

type titleService struct {
	repo       repository.TitleRepository
	categories category.CategoryRepository
	genres     genre.GenreRepository
	authorizer authz.Authorizer
	now        func() time.Time
}

func NewTitleService(
	repo repository.TitleRepository,
	categories category.CategoryRepository,
	genres genre.GenreRepository,
	authorizer authz.Authorizer,
) ServiceInterface {
	return &titleService{
		repo:       repo,
		categories: categories,
		genres:     genres,
		authorizer: authorizer,
		now:        time.Now,
	}
}

// ========== CREATE ==========

func (s *titleService) CreateTitle(ctx context.Context, actor authz.Actor, req model.CreateTitleRequest) (*model.TitleResponse, error) {
	if err := s.authorizer.Authorize(actor, authz.Titles, authz.Write, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(s.now().Year()); err != nil {
		return nil, err
	}

	cat, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	t := &model.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  &cat.ID,
	}
	if err := s.repo.Create(ctx, t, genreIDs); err != nil {
		return nil, err
	}
	return s.reload(ctx, t.ID)
}

// ========== READ ==========

func (s *titleService) ListTitles(ctx context.Context, req model.ListTitlesRequest) ([]model.TitleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	titles, err := s.repo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, err
	}
	out := make([]model.TitleResponse, 0, len(titles))
	for _, t := range titles {
		out = append(out, t.ToResponse())
	}
	return out, nil
}

func (s *titleService) GetTitle(ctx context.Context, id int64) (*model.TitleResponse, error) {
	return s.reload(ctx, id)
}

// ========== UPDATE ==========

func (s *titleService) UpdateTitle(ctx context.Context, actor authz.Actor, id int64, req model.UpdateTitleRequest) (*model.TitleResponse, error) {
	if err := s.authorizer.Authorize(actor, authz.Titles, authz.Write, nil); err != nil {
		return nil, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(s.now().Year()); err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Year != nil {
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		cat, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cat.ID
	}

	var genreIDs []int64
	if req.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, *req.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, t, genreIDs); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// ========== DELETE ==========

func (s *titleService) DeleteTitle(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.authorizer.Authorize(actor, authz.Titles, authz.Write, nil); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ========== HELPERS ==========

func (s *titleService) reload(ctx context.Context, id int64) (*model.TitleResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := t.ToResponse()
	return &resp, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*category.Category, error) {
	cat, err := s.categories.GetBySlug(ctx, slug)
	if errors.Is(err, category.ErrCategoryNotFound) {
		return nil, model.ErrUnknownCategory
	}
	return cat, err
}

// resolveGenres trả về genre ids theo thứ tự slug, bỏ trùng lặp.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	ids := make([]int64, 0, len(slugs))
	seen := make(map[int64]struct{}, len(slugs))
	for _, slug := range slugs {
		g, err := s.genres.GetBySlug(ctx, slug)
		if errors.Is(err, genre.ErrGenreNotFound) {
			return nil, model.ErrUnknownGenre
		}
		if err != nil {
			return nil, err
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids, nil
}
