package service

import (
	"context"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/genre"
)

type genreServiceImpl struct {
	repo       genre.GenreRepository
	authorizer authz.Authorizer
}

func NewGenreService(repo genre.GenreRepository, authorizer authz.Authorizer) genre.GenreService {
	return &genreServiceImpl{repo: repo, authorizer: authorizer}
}

func (s *genreServiceImpl) Create(ctx context.Context, actor authz.Actor, req genre.CreateGenreReq) (*genre.Genre, error) {
	if err := s.authorizer.Authorize(actor, authz.Genres, authz.Write, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &genre.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *genreServiceImpl) List(ctx context.Context, req genre.ListGenresReq) ([]genre.Genre, error) {
	return s.repo.List(ctx, req.Search)
}

// Delete xoá genre cùng các liên kết genre_titles; titles không bị xoá.
func (s *genreServiceImpl) Delete(ctx context.Context, actor authz.Actor, slug string) error {
	if err := s.authorizer.Authorize(actor, authz.Genres, authz.Write, nil); err != nil {
		return err
	}
	return s.repo.DeleteBySlug(ctx, slug)
}
