package catalog

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader is the read side of the product store.
type Reader interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, slug, subtitle, description, image, images, mrp_price, prime_price,
	category, featured, is_new, in_stock, COALESCE(rating, 0), COALESCE(review_count, 0), created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Subtitle, &p.Description, &p.Image, &p.Images,
		&p.MRPPrice, &p.PrimePrice, &p.Category, &p.Featured, &p.IsNew, &p.InStock,
		&p.Rating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts returns products in insertion order so the default sort stays stable across calls.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	p := in.Product(uuid.NewString())
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, slug, subtitle, description, image, images, mrp_price, prime_price,
		                     category, featured, is_new, in_stock, rating, review_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Subtitle, p.Description, p.Image, p.Images, p.MRPPrice, p.PrimePrice,
		p.Category, p.Featured, p.IsNew, p.InStock, p.Rating, p.ReviewCount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	p := in.Product(id)
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, slug=$3, subtitle=$4, description=$5, image=$6, images=$7,
		       mrp_price=$8, prime_price=$9, category=$10, featured=$11, is_new=$12, in_stock=$13,
		       rating=$14, review_count=$15, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Subtitle, p.Description, p.Image, p.Images, p.MRPPrice, p.PrimePrice,
		p.Category, p.Featured, p.IsNew, p.InStock, p.Rating, p.ReviewCount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BackfillSlugs derives a slug for every product stored without one.
// Returns the number of products updated.
func (r *Repo) BackfillSlugs(ctx context.Context) (int, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM products WHERE COALESCE(TRIM(slug), '') = ''`)
	if err != nil {
		return 0, err
	}
	type rec struct{ id, name string }
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.id, &x.name); err != nil {
			rows.Close()
			return 0, err
		}
		recs = append(recs, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	n := 0
	for _, x := range recs {
		slug := Slugify(x.name)
		if slug == "" {
			continue
		}
		if _, err := r.DB.Exec(ctx, `UPDATE products SET slug=$2, updated_at=now() WHERE id=$1`, x.id, slug); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, product_count, icon, color_scheme
	                              FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProductCount, &c.Icon, &c.ColorScheme); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	id := in.ID
	if id == "" {
		id = Slugify(in.Name)
	}
	if id == "" {
		id = uuid.NewString()
	}
	c := in.Category(id)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO categories(id, name, description, product_count, icon, color_scheme)
		VALUES ($1,$2,$3,0,$4,$5)`,
		c.ID, c.Name, c.Description, c.Icon, c.ColorScheme)
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	c := in.Category(id)
	err := r.DB.QueryRow(ctx, `
		UPDATE categories SET name=$2, description=$3, icon=$4, color_scheme=$5
		WHERE id=$1
		RETURNING product_count`,
		c.ID, c.Name, c.Description, c.Icon, c.ColorScheme,
	).Scan(&c.ProductCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProductCounts overwrites the informational product_count per category id.
func (r *Repo) SetProductCounts(ctx context.Context, counts map[string]int) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for id, n := range counts {
		if _, err := tx.Exec(ctx, `UPDATE categories SET product_count=$2 WHERE id=$1`, id, n); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
