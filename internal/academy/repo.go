package academy

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"time"
)

type Repo struct{ DB *pgxpool.Pool }

const courseColumns = `id, title, description, image_url, duration, modules, certificate, rating,
	student_count, original_price, discounted_price, created_at`

func scanCourse(row pgx.Row) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Duration, &c.Modules, &c.Certificate,
		&c.Rating, &c.StudentCount, &c.OriginalPrice, &c.DiscountedPrice, &c.CreatedAt)
	return c, err
}

// List returns courses newest first.
func (r *Repo) List(ctx context.Context) ([]Course, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Course, error) {
	c, err := scanCourse(r.DB.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	return c, err
}

func (r *Repo) Create(ctx context.Context, in CourseInput) (Course, error) {
	c := in.Course(uuid.NewString(), time.Now())
	_, err := r.DB.Exec(ctx, `
		INSERT INTO courses(id, title, description, image_url, duration, modules, certificate, rating,
		                    student_count, original_price, discounted_price, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.Title, c.Description, c.ImageURL, c.Duration, c.Modules, c.Certificate, c.Rating,
		c.StudentCount, c.OriginalPrice, c.DiscountedPrice, c.CreatedAt)
	if err != nil {
		return Course{}, fmt.Errorf("insert course: %w", err)
	}
	return c, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
