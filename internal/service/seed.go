package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/platform/logger"
	"github.com/medlex/medlex-api/internal/store"
)

// Account created by Seed.
const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@medicalapp.com"
)

type seedCategory struct{ name, description, color string }

var seedCategories = []seedCategory{
	{"Cardiology", "Heart and circulatory system", "#dc2626"},
	{"Neurology", "Nervous system and brain", "#2563eb"},
	{"Gastroenterology", "Digestive system", "#16a34a"},
	{"Orthopedics", "Musculoskeletal system", "#ea580c"},
	{"Pediatrics", "Medical care for children", "#9333ea"},
	{"Dermatology", "Skin and its diseases", "#ca8a04"},
}

type seedTerm struct{ term, meaning, pronunciation string }

var seedTerms = []seedTerm{
	{"Hypertension", "High blood pressure", "haɪ.pərˈten.ʃən"},
	{"Tachycardia", "Abnormally rapid heart rate", "tæk.ɪˈkɑːr.di.ə"},
	{"Cerebrovascular", "Relating to the brain and its blood vessels", "sɛr.ɪ.broʊˈvæs.kjə.lər"},
	{"Arthritis", "Inflammation of joints", "ɑːrˈθraɪ.tɪs"},
	{"Diabetes", "Metabolic disorder characterized by high blood sugar", "ˌdaɪ.əˈbiː.tiːz"},
	{"Pneumonia", "Inflammation of the lungs", "nuːˈmoʊ.njə"},
}

type seedPhrase struct{ phrase, explanation string }

var seedPhrases = []seedPhrase{
	{"MI", "Myocardial Infarction - Heart attack"},
	{"CVA", "Cerebrovascular Accident - Stroke"},
	{"GERD", "Gastroesophageal Reflux Disease"},
	{"COPD", "Chronic Obstructive Pulmonary Disease"},
	{"UTI", "Urinary Tract Infection"},
	{"AED", "Automated External Defibrillator"},
}

// SeedSummary counts what Seed wrote.
type SeedSummary struct {
	Admin      *domain.User
	Created    int
	Updated    int
	Categories int
	Terms      int
	Phrases    int
}

// Seeder fills an empty database with the admin account and sample content.
type Seeder struct {
	db         *sql.DB
	users      store.UserStore
	categories store.CategoryStore
	terms      store.TermStore
	phrases    store.PhraseStore
	logger     *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	db *sql.DB,
	users store.UserStore,
	categories store.CategoryStore,
	terms store.TermStore,
	phrases store.PhraseStore,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:         db,
		users:      users,
		categories: categories,
		terms:      terms,
		phrases:    phrases,
		logger:     logger.With(slog.String("component", "seeder")),
	}
}

// Seed creates the admin user if missing and upserts the sample categories,
// terms and phrases it owns. Running it again only refreshes descriptions,
// colors and meanings. An existing admin keeps its password.
func (s *Seeder) Seed(ctx context.Context, adminPassword string) (*SeedSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	summary := &SeedSummary{}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		admin, err := s.ensureAdmin(ctx, s.users.WithTx(tx), adminPassword)
		if err != nil {
			return err
		}
		summary.Admin = admin

		if err := s.seedCategories(ctx, s.categories.WithTx(tx), admin, summary); err != nil {
			return err
		}
		if err := s.seedTerms(ctx, s.terms.WithTx(tx), admin, summary); err != nil {
			return err
		}
		return s.seedPhrases(ctx, s.phrases.WithTx(tx), admin, summary)
	})
	if err != nil {
		return nil, NewServiceError("seed", "run", err)
	}

	log.Info("database seeded",
		slog.String("admin", summary.Admin.Username),
		slog.Int("categories", summary.Categories),
		slog.Int("terms", summary.Terms),
		slog.Int("phrases", summary.Phrases),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated))
	return summary, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, users store.UserStore, password string) (*domain.User, error) {
	admin, err := users.GetByUsername(ctx, SeedAdminUsername)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	admin, err = domain.NewUser(SeedAdminUsername, SeedAdminEmail, password, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("invalid admin account: %w", err)
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Seeder) seedCategories(
	ctx context.Context,
	categories store.CategoryStore,
	admin *domain.User,
	summary *SeedSummary,
) error {
	for _, sc := range seedCategories {
		existing, err := categories.FindByName(ctx, admin.ID, sc.name)
		switch {
		case err == nil:
			existing.Description = sc.description
			existing.Color = sc.color
			if err := categories.Update(ctx, existing); err != nil {
				return err
			}
			summary.Updated++
		case errors.Is(err, store.ErrCategoryNotFound):
			category, err := domain.NewCategory(admin.ID, sc.name, sc.description, sc.color)
			if err != nil {
				return err
			}
			if err := categories.Create(ctx, category); err != nil {
				return err
			}
			summary.Created++
		default:
			return err
		}
		summary.Categories++
	}
	return nil
}

func (s *Seeder) seedTerms(ctx context.Context, terms store.TermStore, admin *domain.User, summary *SeedSummary) error {
	existing, err := terms.List(ctx, admin.ID)
	if err != nil {
		return err
	}
	byText := make(map[string]domain.Term, len(existing))
	for _, t := range existing {
		byText[t.Term] = t
	}

	for _, st := range seedTerms {
		if t, ok := byText[st.term]; ok {
			t.Meaning = st.meaning
			t.Pronunciation = st.pronunciation
			if err := terms.Update(ctx, &t); err != nil {
				return err
			}
			summary.Updated++
		} else {
			term, err := domain.NewTerm(admin.ID, st.term, st.meaning, st.pronunciation)
			if err != nil {
				return err
			}
			if err := terms.Create(ctx, term); err != nil {
				return err
			}
			summary.Created++
		}
		summary.Terms++
	}
	return nil
}

func (s *Seeder) seedPhrases(
	ctx context.Context,
	phrases store.PhraseStore,
	admin *domain.User,
	summary *SeedSummary,
) error {
	existing, err := phrases.List(ctx, admin.ID)
	if err != nil {
		return err
	}
	byText := make(map[string]domain.Phrase, len(existing))
	for _, p := range existing {
		byText[p.Phrase] = p
	}

	for _, sp := range seedPhrases {
		if p, ok := byText[sp.phrase]; ok {
			p.Explanation = sp.explanation
			if err := phrases.Update(ctx, &p); err != nil {
				return err
			}
			summary.Updated++
		} else {
			phrase, err := domain.NewPhrase(admin.ID, sp.phrase, sp.explanation)
			if err != nil {
				return err
			}
			if err := phrases.Create(ctx, phrase); err != nil {
				return err
			}
			summary.Created++
		}
		summary.Phrases++
	}
	return nil
}
