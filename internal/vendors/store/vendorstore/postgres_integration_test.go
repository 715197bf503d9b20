//go:build integration

package vendor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	"vendra/pkg/platform/sentinel"
	"vendra/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
	now   time.Time
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.Pool)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	s.Require().NoError(s.pg.TruncateVendors(s.ctx))
}

func (s *PostgresSuite) newVendor(name, email string) *models.Vendor {
	v, err := models.NewVendor(id.NewVendorID(), name, "", email, false, s.now)
	s.Require().NoError(err)
	return v
}

func (s *PostgresSuite) TestRoundTrip() {
	v := s.newVendor("Acme Logistics", "jo@acme.test")
	doc, err := models.NewDocument(id.NewDocumentID(), models.DocumentAgreement, "msa.pdf", nil, "ops", s.now)
	s.Require().NoError(err)
	v.AddDocument(doc, s.now)
	v.AppendAudit(s.now, "ops", models.ActionVendorCreated, map[string]string{"status": "draft"})

	s.Require().NoError(s.store.Create(s.ctx, v))

	found, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.ID, found.ID)
	s.Equal(v.Name, found.Name)
	s.Require().Len(found.Documents, 1)
	s.Equal("msa.pdf", found.Documents[0].FileName)
	s.Require().Len(found.AuditLog, 1)
	s.Equal(models.ActionVendorCreated, found.AuditLog[0].Action)
	s.True(found.CreatedAt.Equal(v.CreatedAt))
}

func (s *PostgresSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, id.NewVendorID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresSuite) TestExecute() {
	v := s.newVendor("Acme", "")
	s.Require().NoError(s.store.Create(s.ctx, v))

	s.Run("mutation commits payload and extracted columns together", func() {
		updated, err := s.store.Execute(s.ctx, v.ID,
			func(*models.Vendor) error { return nil },
			func(rec *models.Vendor) {
				rec.Status = models.StatusPendingApproval
				rec.AppendAudit(s.now, "ops", models.ActionOnboardingCompleted, nil)
			},
		)
		s.Require().NoError(err)
		s.Equal(int64(1), updated.Version)

		listed, err := s.store.List(s.ctx, Filter{Status: models.StatusPendingApproval})
		s.Require().NoError(err)
		s.Require().Len(listed, 1)
		s.Len(listed[0].AuditLog, 1)
	})

	s.Run("failed validation rolls back", func() {
		denied := errors.New("denied")
		_, err := s.store.Execute(s.ctx, v.ID,
			func(*models.Vendor) error { return denied },
			func(rec *models.Vendor) { rec.Name = "never" },
		)
		s.Require().ErrorIs(err, denied)

		stored, err := s.store.FindByID(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal("Acme", stored.Name)
		s.Equal(int64(1), stored.Version)
	})

	s.Run("not found", func() {
		_, err := s.store.Execute(s.ctx, id.NewVendorID(),
			func(*models.Vendor) error { return nil },
			func(*models.Vendor) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestExecute_SerializesWriters drives two concurrent mutations through the
// row lock and asserts both land, one after the other.
func (s *PostgresSuite) TestExecute_SerializesWriters() {
	v := s.newVendor("Acme", "")
	s.Require().NoError(s.store.Create(s.ctx, v))

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, v.ID,
				func(*models.Vendor) error { return nil },
				func(rec *models.Vendor) {
					rec.AppendAudit(s.now, "ops", models.ActionDocumentUploaded, nil)
				},
			)
			s.NoError(err)
		}()
	}
	wg.Wait()

	stored, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Version)
	s.Len(stored.AuditLog, 2)
	s.Equal(1, stored.AuditLog[1].Seq, "second writer saw the first writer's append")
}

func (s *PostgresSuite) TestListAndMatches() {
	older := s.newVendor("Alpha Corp", "ops@alpha.test")
	s.Require().NoError(s.store.Create(s.ctx, older))

	newer, err := models.NewVendor(id.NewVendorID(), "Beta GmbH", "", "ops@beta.test", true, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, newer))

	s.Run("newest first", func() {
		all, err := s.store.List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal(newer.ID, all[0].ID)
	})

	s.Run("search hits name and email", func() {
		hits, err := s.store.List(s.ctx, Filter{Search: "BETA"})
		s.Require().NoError(err)
		s.Require().Len(hits, 1)
		s.Equal(newer.ID, hits[0].ID)
	})

	s.Run("duplicate matching is exact and case-insensitive", func() {
		matches, err := s.store.FindMatches(s.ctx, "ALPHA CORP", "")
		s.Require().NoError(err)
		s.Len(matches, 1)

		partial, err := s.store.FindMatches(s.ctx, "Alpha", "")
		s.Require().NoError(err)
		s.Empty(partial)
	})

	s.Run("count", func() {
		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, n)
	})
}
