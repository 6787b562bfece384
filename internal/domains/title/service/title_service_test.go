package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/category"
	"yamdb-backend/internal/domains/genre"
	"yamdb-backend/internal/domains/title/model"
	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/shared/apperr"
)

// ---------- fakes ----------

type fakeCategories map[string]category.Category

func (f fakeCategories) Create(context.Context, *category.Category) error { return nil }
func (f fakeCategories) List(context.Context, string) ([]category.Category, error) {
	return nil, nil
}
func (f fakeCategories) DeleteBySlug(context.Context, string) error { return nil }
func (f fakeCategories) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	c, ok := f[slug]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return &c, nil
}

type fakeGenres map[string]genre.Genre

func (f fakeGenres) Create(context.Context, *genre.Genre) error           { return nil }
func (f fakeGenres) List(context.Context, string) ([]genre.Genre, error) { return nil, nil }
func (f fakeGenres) DeleteBySlug(context.Context, string) error          { return nil }
func (f fakeGenres) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	g, ok := f[slug]
	if !ok {
		return nil, genre.ErrGenreNotFound
	}
	return &g, nil
}

type storedTitle struct {
	title    model.Title
	genreIDs []int64
}

type memTitles struct {
	nextID int64
	items  map[int64]*storedTitle
}

func newMemTitles() *memTitles {
	return &memTitles{items: map[int64]*storedTitle{}}
}

func (m *memTitles) Create(_ context.Context, t *model.Title, genreIDs []int64) error {
	for _, s := range m.items {
		if s.title.Name == t.Name && s.title.Year == t.Year && *s.title.CategoryID == *t.CategoryID {
			return model.ErrDuplicateTitle
		}
	}
	m.nextID++
	t.ID = m.nextID
	m.items[t.ID] = &storedTitle{title: *t, genreIDs: genreIDs}
	return nil
}

func (m *memTitles) GetByID(_ context.Context, id int64) (*model.Title, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, model.ErrTitleNotFound
	}
	t := s.title
	for _, gid := range s.genreIDs {
		t.Genres = append(t.Genres, genre.Genre{ID: gid})
	}
	return &t, nil
}

func (m *memTitles) List(context.Context, model.TitleFilter) ([]*model.Title, error) {
	var out []*model.Title
	for id := range m.items {
		t, _ := m.GetByID(context.Background(), id)
		out = append(out, t)
	}
	return out, nil
}

func (m *memTitles) Update(_ context.Context, t *model.Title, genreIDs []int64) error {
	s, ok := m.items[t.ID]
	if !ok {
		return model.ErrTitleNotFound
	}
	s.title = *t
	s.title.Genres = nil
	if genreIDs != nil {
		s.genreIDs = genreIDs
	}
	return nil
}

func (m *memTitles) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return model.ErrTitleNotFound
	}
	delete(m.items, id)
	return nil
}

// ---------- helpers ----------

var (
	admin  = authz.Actor{UserID: 1, Role: user.RoleAdmin, Authenticated: true}
	mod    = authz.Actor{UserID: 2, Role: user.RoleModerator, Authenticated: true}
	reader = authz.Actor{UserID: 3, Role: user.RoleUser, Authenticated: true}
)

func newService(t *testing.T) (*titleService, *memTitles) {
	t.Helper()
	enforcer, err := authz.NewEnforcer("")
	require.NoError(t, err)

	titles := newMemTitles()
	svc := NewTitleService(
		titles,
		fakeCategories{"films": {ID: 10, Name: "Films", Slug: "films"}},
		fakeGenres{"drama": {ID: 20, Name: "Drama", Slug: "drama"}, "comedy": {ID: 21, Name: "Comedy", Slug: "comedy"}},
		enforcer,
	).(*titleService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, titles
}

func intPtr(v int) *int { return &v }

func createReq() model.CreateTitleRequest {
	return model.CreateTitleRequest{
		Name:     "Solaris",
		Year:     intPtr(1972),
		Category: "films",
		Genre:    []string{"drama", "drama", "comedy"},
	}
}

// ---------- tests ----------

func TestCreateTitle(t *testing.T) {
	svc, titles := newService(t)

	resp, err := svc.CreateTitle(context.Background(), admin, createReq())
	require.NoError(t, err)
	assert.Equal(t, "Solaris", resp.Name)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, []int64{20, 21}, titles.items[resp.ID].genreIDs)
	assert.Equal(t, int64(10), *titles.items[resp.ID].title.CategoryID)

	_, err = svc.CreateTitle(context.Background(), admin, createReq())
	assert.ErrorIs(t, err, model.ErrDuplicateTitle)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateTitle_Validation(t *testing.T) {
	svc, titles := newService(t)
	ctx := context.Background()

	future := createReq()
	future.Year = intPtr(2025)
	_, err := svc.CreateTitle(ctx, admin, future)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	thisYear := createReq()
	thisYear.Year = intPtr(2024)
	_, err = svc.CreateTitle(ctx, admin, thisYear)
	assert.NoError(t, err)

	noGenre := createReq()
	noGenre.Genre = nil
	_, err = svc.CreateTitle(ctx, admin, noGenre)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	badCategory := createReq()
	badCategory.Category = "music"
	_, err = svc.CreateTitle(ctx, admin, badCategory)
	assert.ErrorIs(t, err, model.ErrUnknownCategory)

	badGenre := createReq()
	badGenre.Genre = []string{"drama", "jazz"}
	_, err = svc.CreateTitle(ctx, admin, badGenre)
	assert.ErrorIs(t, err, model.ErrUnknownGenre)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "genre", appErr.Field)

	assert.Len(t, titles.items, 1)
}

func TestTitleWrites_AdminOnly(t *testing.T) {
	svc, titles := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTitle(ctx, admin, createReq())
	require.NoError(t, err)

	for _, actor := range []authz.Actor{authz.Anonymous(), reader, mod} {
		_, err := svc.CreateTitle(ctx, actor, createReq())
		assert.ErrorIs(t, err, authz.ErrAdminOnly)

		_, err = svc.UpdateTitle(ctx, actor, created.ID, model.UpdateTitleRequest{Year: intPtr(1973)})
		assert.ErrorIs(t, err, authz.ErrAdminOnly)

		assert.ErrorIs(t, svc.DeleteTitle(ctx, actor, created.ID), authz.ErrAdminOnly)
	}
	assert.Len(t, titles.items, 1)

	got, err := svc.GetTitle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1972, got.Year)
}

func TestUpdateTitle_Partial(t *testing.T) {
	svc, titles := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTitle(ctx, admin, createReq())
	require.NoError(t, err)

	desc := "space"
	resp, err := svc.UpdateTitle(ctx, admin, created.ID, model.UpdateTitleRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", resp.Name)
	assert.Equal(t, "space", *resp.Description)
	assert.Equal(t, []int64{20, 21}, titles.items[created.ID].genreIDs)

	genres := []string{}
	_, err = svc.UpdateTitle(ctx, admin, created.ID, model.UpdateTitleRequest{Genre: &genres})
	require.NoError(t, err)
	assert.Empty(t, titles.items[created.ID].genreIDs)

	_, err = svc.UpdateTitle(ctx, admin, created.ID, model.UpdateTitleRequest{Year: intPtr(3000)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateTitle(ctx, admin, 999, model.UpdateTitleRequest{})
	assert.ErrorIs(t, err, model.ErrTitleNotFound)
}

func TestDeleteTitle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateTitle(ctx, admin, createReq())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTitle(ctx, admin, created.ID))
	_, err = svc.GetTitle(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrTitleNotFound)
}

func TestListTitles_YearOutOfRange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ListTitles(ctx, model.ListTitlesRequest{Year: intPtr(40000)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.CreateTitle(ctx, admin, model.CreateTitleRequest{
		Name: "Dune", Year: intPtr(-40000), Category: "films", Genre: []string{},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
