package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/category"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logging"
	"bookcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	adminEmail    = "admin@test.fr"
	adminPassword = "password"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated names")
	flag.Parse()

	cfg, err := config.LoadTooling()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	s := seeder{
		authors:    author.NewService(author.NewPostgresRepo(pool, cfg.DBTimeout)),
		categories: category.NewService(category.NewPostgresRepo(pool, cfg.DBTimeout)),
		books:      book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout)),
		users:      user.NewService(user.NewPostgresRepo(pool, cfg.DBTimeout)),
		logger:     logger,
	}
	if err := s.run(ctx, newPlan(rand.New(rand.NewSource(*seed)))); err != nil {
		logger.WithError(err).Fatal("seeding failed")
	}
}

type seeder struct {
	authors    *author.Service
	categories *category.Service
	books      *book.Service
	users      *user.Service
	logger     logrus.FieldLogger
}

// run inserts p unless the admin account already exists.
func (s seeder) run(ctx context.Context, p plan) error {
	if _, err := s.users.GetByEmail(ctx, adminEmail); err == nil {
		s.logger.WithField("email", adminEmail).Info("fixtures already loaded, skipping")
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	authorIDs := make([]int64, 0, len(p.Authors))
	for _, name := range p.Authors {
		a, err := s.authors.Create(ctx, name)
		if err != nil {
			return err
		}
		authorIDs = append(authorIDs, a.ID)
	}

	categoryIDs := make([]int64, 0, len(p.Categories))
	for _, name := range p.Categories {
		c, err := s.categories.Create(ctx, name)
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, c.ID)
	}

	for _, b := range p.Books {
		cats := make([]int64, 0, len(b.Categories))
		for _, i := range b.Categories {
			cats = append(cats, categoryIDs[i])
		}
		if _, err := s.books.Create(ctx, b.Name, authorIDs[b.Author], cats); err != nil {
			return err
		}
	}

	if _, err := s.users.Register(ctx, adminEmail, adminPassword); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"authors":    len(p.Authors),
		"categories": len(p.Categories),
		"books":      len(p.Books),
	}).Info("fixtures loaded")
	return nil
}
