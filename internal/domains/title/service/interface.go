package service

import (
	"context"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/title/model"
)

// ServiceInterface - business logic for titles
type ServiceInterface interface {
	CreateTitle(ctx context.Context, actor authz.Actor, req model.CreateTitleRequest) (*model.TitleResponse, error)
	ListTitles(ctx context.Context, req model.ListTitlesRequest) ([]model.TitleResponse, error)
	GetTitle(ctx context.Context, id int64) (*model.TitleResponse, error)
	UpdateTitle(ctx context.Context, actor authz.Actor, id int64, req model.UpdateTitleRequest) (*model.TitleResponse, error)
	DeleteTitle(ctx context.Context, actor authz.Actor, id int64) error
}
