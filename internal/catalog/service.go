package catalog

import (
	"context"
	"go.uber.org/zap"
)

// Service is the storefront's view of the catalog. Store failures degrade to
// empty collections and are logged; they never reach the query pipeline.
type Service struct {
	Store Reader
	Log   *zap.Logger
}

func (s *Service) Products(ctx context.Context) []Product {
	ps, err := s.Store.ListProducts(ctx)
	if err != nil {
		s.Log.Error("list products failed, serving empty catalog", zap.Error(err))
		return []Product{}
	}
	return ps
}

func (s *Service) Categories(ctx context.Context) []Category {
	cs, err := s.Store.ListCategories(ctx)
	if err != nil {
		s.Log.Error("list categories failed, serving empty catalog", zap.Error(err))
		return []Category{}
	}
	return cs
}

// Browse runs the query pipeline for the all-products listing.
// A category that does not resolve is ErrNotFound rather than an empty page.
func (s *Service) Browse(ctx context.Context, p Params) (Result, error) {
	products, categories := s.Products(ctx), s.Categories(ctx)
	if p.CategoryID != "" && p.CategoryID != AllCategories {
		c, err := Resolve(p.CategoryID, categories)
		if err != nil {
			return Result{}, err
		}
		return QueryCategory(products, c, p), nil
	}
	return Query(products, categories, p), nil
}

// BrowseCategory resolves the category page and runs the pipeline on it.
func (s *Service) BrowseCategory(ctx context.Context, raw string, p Params) (Canonical, Result, error) {
	products, categories := s.Products(ctx), s.Categories(ctx)
	c, err := Resolve(raw, categories)
	if err != nil {
		return Canonical{}, Result{}, err
	}
	if c.Virtual {
		c.ProductCount = CountFeatured(products)
	}
	return c, QueryCategory(products, c, p), nil
}

// Category resolves a single category. popular-products reports the live featured count.
func (s *Service) Category(ctx context.Context, raw string) (Canonical, error) {
	c, err := Resolve(raw, s.Categories(ctx))
	if err != nil {
		return Canonical{}, err
	}
	if c.Virtual {
		c.ProductCount = CountFeatured(s.Products(ctx))
	}
	return c, nil
}

func (s *Service) ProductBySlug(ctx context.Context, slug string) (Product, error) {
	for _, p := range s.Products(ctx) {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *Service) ProductByID(ctx context.Context, id string) (Product, error) {
	for _, p := range s.Products(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *Service) Featured(ctx context.Context) []Product {
	return PopularProducts().Filter(s.Products(ctx))
}
