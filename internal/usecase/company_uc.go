package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
)

// Compile-time check
var _ CompanyUseCase = (*companyUC)(nil)

type CompanyUseCase interface {
	Create(ctx context.Context, name string) (*model.Company, error)
	Get(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context) ([]*model.Company, error)
	Delete(ctx context.Context, id string) error
}

type companyUC struct {
	companies repository.CompanyRepository
}

func NewCompanyUseCase(companies repository.CompanyRepository) *companyUC {
	return &companyUC{companies: companies}
}

func (c *companyUC) Create(ctx context.Context, name string) (*model.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	co := model.NewCompany(uuid.NewString(), name)
	if err := c.companies.Save(ctx, nil, co); err != nil {
		return nil, err
	}
	return co, nil
}

func (c *companyUC) Get(ctx context.Context, id string) (*model.Company, error) {
	return c.companies.FindByID(ctx, nil, id)
}

func (c *companyUC) List(ctx context.Context) ([]*model.Company, error) {
	return c.companies.List(ctx, nil)
}

func (c *companyUC) Delete(ctx context.Context, id string) error {
	return c.companies.Delete(ctx, nil, id)
}
