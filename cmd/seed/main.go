package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/openlibrarian/openlibrarian/pkg/auth"
	"github.com/openlibrarian/openlibrarian/pkg/config"
	"github.com/openlibrarian/openlibrarian/pkg/database"
	"github.com/openlibrarian/openlibrarian/pkg/migrations"
	"github.com/openlibrarian/openlibrarian/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Seeds the database with a small catalog and two demo users so the API is
// usable right after a fresh checkout. Safe to run more than once with
// --clear.
func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Clear bool `long:"clear" description:"Delete existing catalog data before seeding"`
	}
	if _, err := flags.Parse(&opts); err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	if opts.Clear {
		if err := clear(ctx, db); err != nil {
			log.Err(err).Fatal("clear error")
		}
		log.Info("existing catalog data cleared")
	}

	if err := seed(ctx, db); err != nil {
		log.Err(err).Fatal("seed error")
	}
	log.Info("seed complete")
}

func clear(ctx context.Context, db *bun.DB) error {
	tables := []string{"book_instances", "book_genres", "books", "authors", "genres", "users", "sessions"}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, db *bun.DB) error {
	now := time.Now()

	genres := []*models.Genre{
		{Name: "Fantasy", CreatedAt: now, UpdatedAt: now},
		{Name: "Science Fiction", CreatedAt: now, UpdatedAt: now},
		{Name: "French Poetry", CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.NewInsert().Model(&genres).Exec(ctx); err != nil {
		return err
	}

	date := func(s string) *time.Time {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			panic(err)
		}
		return &t
	}

	authors := []*models.Author{
		{FirstName: "Patrick", LastName: "Rothfuss", DateOfBirth: date("1973-06-06"), CreatedAt: now, UpdatedAt: now},
		{FirstName: "Ben", LastName: "Bova", DateOfBirth: date("1932-11-08"), DateOfDeath: date("2020-11-29"), CreatedAt: now, UpdatedAt: now},
		{FirstName: "Isaac", LastName: "Asimov", DateOfBirth: date("1920-01-02"), DateOfDeath: date("1992-04-06"), CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.NewInsert().Model(&authors).Exec(ctx); err != nil {
		return err
	}

	books := []*models.Book{
		{
			Title:    "The Name of the Wind",
			Summary:  "The tale of Kvothe, from his childhood in a troupe of traveling players.",
			ISBN:     "9780756404741",
			AuthorID: &authors[0].ID,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title:    "The Wise Man's Fear",
			Summary:  "Kvothe takes his first steps on the path of the hero.",
			ISBN:     "9780756407919",
			AuthorID: &authors[0].ID,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			Title:    "Apes and Angels",
			Summary:  "Humankind headed out to the stars not for conquest, nor exploration.",
			ISBN:     "9780765379528",
			AuthorID: &authors[1].ID,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	if _, err := db.NewInsert().Model(&books).Exec(ctx); err != nil {
		return err
	}

	bookGenres := []*models.BookGenre{
		{BookID: books[0].ID, GenreID: genres[0].ID},
		{BookID: books[1].ID, GenreID: genres[0].ID},
		{BookID: books[2].ID, GenreID: genres[1].ID},
	}
	if _, err := db.NewInsert().Model(&bookGenres).Exec(ctx); err != nil {
		return err
	}

	dueSoon := now.AddDate(0, 0, 7)
	instances := []*models.BookInstance{
		{ID: uuid.NewString(), BookID: books[0].ID, Imprint: "DAW Books, 2007", Status: models.LoanStatusAvailable, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), BookID: books[0].ID, Imprint: "DAW Books, 2007", Status: models.LoanStatusOnLoan, DueBack: &dueSoon, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), BookID: books[1].ID, Imprint: "DAW Books, 2011", Status: models.LoanStatusMaintenance, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), BookID: books[2].ID, Imprint: "Tor, 2016", Status: models.LoanStatusAvailable, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.NewInsert().Model(&instances).Exec(ctx); err != nil {
		return err
	}

	roleIDs := map[string]int{}
	roles := []*models.Role{}
	if err := db.NewSelect().Model(&roles).Scan(ctx); err != nil {
		return err
	}
	for _, role := range roles {
		roleIDs[role.Name] = role.ID
	}

	users := []struct {
		username string
		password string
		role     string
	}{
		{"librarian", "librarian-demo-password", models.RoleLibrarian},
		{"member", "member-demo-password", models.RoleMember},
	}
	for _, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:     u.username,
			PasswordHash: hash,
			RoleID:       roleIDs[u.role],
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
	}

	// Hand the member the on-loan copy so /catalog/mybooks/ has something to
	// show.
	member := &models.User{}
	if err := db.NewSelect().Model(member).Where("u.username = ?", "member").Scan(ctx); err != nil {
		return err
	}
	_, err := db.NewUpdate().
		Model((*models.BookInstance)(nil)).
		Set("borrower_id = ?", member.ID).
		Where("id = ?", instances[1].ID).
		Exec(ctx)
	return err
}
