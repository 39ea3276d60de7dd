package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdv-backend/internal/apperr"
	"pdv-backend/internal/auth"
	"pdv-backend/internal/config"
	"pdv-backend/internal/models"
	"pdv-backend/internal/policy"
	"pdv-backend/internal/repositories"
	"pdv-backend/internal/sentiment"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	activityCols = []string{"id", "date", "point_vente", "responsable", "note_ventes",
		"plaintes_client", "produits_manquants", "commentaire_livreurs", "commentaire",
		"created_by", "created_at"}
	customerCols = []string{"id", "activity_id", "date", "telephone", "nom_client", "point_vente",
		"montant_commande", "type_client", "comment_connu", "commentaire_client",
		"note_qualite_produits", "note_niveau_prix", "note_service_commercial", "note_globale",
		"created_by", "created_at"}
	statsCols = []string{"total", "montant", "nouveaux", "recurrents", "note", "qualite", "prix", "service"}

	day     = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	admin   = policy.Actor{ID: 1, Role: models.RoleAdmin}
	manager = policy.Actor{ID: 7, Role: models.RoleManager}
)

func ptr[T any](v T) *T { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func activityRow(id, owner int, createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(activityCols).
		AddRow(id, day, "Dakar", "Moussa", ptr(8.0), "", "", "", "", ptr(owner), createdAt)
}

func customerRow(id int, createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(customerCols).
		AddRow(id, nil, day, "771234567", "Awa", "Dakar", 1500, "Nouveau",
			nil, nil, nil, nil, nil, nil, ptr(2), createdAt)
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.Secret = "secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "pdv-backend"
	jwtManager := auth.NewJWTManager(cfg)
	userRows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(3, "awa", hash, models.RoleManager, now)
	}

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(repositories.NewUserRepository(newMock(t)), jwtManager)

		_, err := svc.Login(t.Context(), &models.LoginRequest{Username: "awa"})

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unknown user and bad password look the same", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := NewUserService(repositories.NewUserRepository(mock), jwtManager)

		mock.ExpectQuery("FROM users WHERE username").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("FROM users WHERE username").WithArgs("awa").WillReturnRows(userRows())

		_, errUnknown := svc.Login(t.Context(), &models.LoginRequest{Username: "ghost", Password: "x"})
		_, errBadPass := svc.Login(t.Context(), &models.LoginRequest{Username: "awa", Password: "wrong"})

		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(errUnknown))
		assert.Equal(t, errUnknown.Error(), errBadPass.Error())
		assert.Equal(t, "Identifiants invalides", errBadPass.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := NewUserService(repositories.NewUserRepository(mock), jwtManager)

		mock.ExpectQuery("FROM users WHERE username").WithArgs("awa").WillReturnRows(userRows())

		resp, err := svc.Login(t.Context(), &models.LoginRequest{Username: " awa ", Password: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, "awa", resp.User.Username)
		claims, err := jwtManager.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.ID)
		assert.Equal(t, models.RoleManager, claims.Role)
	})
}

func TestActivityFromRequest(t *testing.T) {
	t.Parallel()
	valid := func() *models.ActivityRequest {
		return &models.ActivityRequest{Date: "2024-03-10", PointVente: "Dakar", Responsable: "Moussa"}
	}

	tests := []struct {
		name     string
		mutate   func(r *models.ActivityRequest)
		wantNote *float64
		wantErr  string
	}{
		{"no note is null", func(r *models.ActivityRequest) {}, nil, ""},
		{"comma note", func(r *models.ActivityRequest) { r.NoteVentes = "8,5" }, ptr(8.5), ""},
		{"dot note", func(r *models.ActivityRequest) { r.NoteVentes = "10" }, ptr(10.0), ""},
		{"zero note", func(r *models.ActivityRequest) { r.NoteVentes = "0" }, nil, msgNoteVentes},
		{"note above ten", func(r *models.ActivityRequest) { r.NoteVentes = "10.5" }, nil, msgNoteVentes},
		{"eleven", func(r *models.ActivityRequest) { r.NoteVentes = "11" }, nil, msgNoteVentes},
		{"missing outlet", func(r *models.ActivityRequest) { r.PointVente = " " }, nil, msgActivityRequired},
		{"bad date", func(r *models.ActivityRequest) { r.Date = "10/03/2024" }, nil, msgDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid()
			tt.mutate(req)

			a, err := activityFromRequest(req)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNote, a.NoteVentes)
		})
	}
}

func TestActivityService_Create(t *testing.T) {
	t.Parallel()

	t.Run("role without create right", func(t *testing.T) {
		t.Parallel()
		svc := NewActivityService(repositories.NewActivityRepository(newMock(t)))

		_, err := svc.Create(t.Context(), policy.Actor{ID: 9, Role: "VENDEUR"},
			&models.ActivityRequest{Date: "2024-03-10", PointVente: "Dakar", Responsable: "Moussa"})

		require.ErrorIs(t, err, policy.ErrRoleDenied)
	})

	t.Run("stores creator", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := NewActivityService(repositories.NewActivityRepository(mock))

		mock.ExpectQuery("INSERT INTO activities").
			WithArgs("2024-03-10", "Dakar", "Moussa", pgxmock.AnyArg(), "", "", "", "", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(4, now))

		a, err := svc.Create(t.Context(), manager,
			&models.ActivityRequest{Date: "2024-03-10", PointVente: "Dakar", Responsable: "Moussa"})

		require.NoError(t, err)
		assert.Equal(t, 4, a.ID)
		assert.Equal(t, 7, a.OwnerID())
		assert.Nil(t, a.NoteVentes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityService_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	req := &models.ActivityRequest{Date: "2024-03-10", PointVente: "Dakar", Responsable: "Moussa", NoteVentes: "9"}

	tests := []struct {
		name      string
		actor     policy.Actor
		owner     int
		createdAt time.Time
		wantErr   error
	}{
		{"manager own fresh", manager, 7, now.Add(-23*time.Hour - 59*time.Minute), nil},
		{"manager own expired", manager, 7, now.Add(-24*time.Hour - time.Second), policy.ErrEditWindowExpired},
		{"manager not owner", manager, 8, now.Add(-time.Hour), policy.ErrNotOwner},
		{"admin old", admin, 8, now.Add(-720 * time.Hour), nil},
	}

	for _, tt := range tests {
		t.Run("update "+tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMock(t)
			svc := NewActivityService(repositories.NewActivityRepository(mock))
			svc.now = func() time.Time { return now }

			mock.ExpectQuery("FROM activities WHERE id").WithArgs(3).WillReturnRows(activityRow(3, tt.owner, tt.createdAt))
			if tt.wantErr == nil {
				mock.ExpectQuery("UPDATE activities").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnRows(activityRow(3, tt.owner, tt.createdAt))
			}

			_, err := svc.Update(t.Context(), tt.actor, 3, req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("manager cannot delete", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := NewActivityService(repositories.NewActivityRepository(mock))
		svc.now = func() time.Time { return now }

		mock.ExpectQuery("FROM activities WHERE id").WithArgs(3).WillReturnRows(activityRow(3, 7, now))

		err := svc.Delete(t.Context(), manager, 3)

		require.ErrorIs(t, err, policy.ErrAdminOnly)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing activity", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := NewActivityService(repositories.NewActivityRepository(mock))

		mock.ExpectQuery("FROM activities WHERE id").WithArgs(99).WillReturnError(pgx.ErrNoRows)

		err := svc.Delete(t.Context(), admin, 99)

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestCustomerFromRequest(t *testing.T) {
	t.Parallel()
	valid := func() *models.CustomerRequest {
		return &models.CustomerRequest{
			Date: "2024-03-10", Telephone: "771234567", NomClient: "Awa", PointVente: "Dakar",
			MontantCommande: "1500", TypeClient: "Nouveau",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *models.CustomerRequest)
		wantErr bool
	}{
		{"valid", func(r *models.CustomerRequest) {}, false},
		{"zero sub-score kept", func(r *models.CustomerRequest) { r.NoteNiveauPrix = "0" }, false},
		{"comma sub-score", func(r *models.CustomerRequest) { r.NoteQualiteProduits = "7,5" }, false},
		{"sub-score above ten", func(r *models.CustomerRequest) { r.NoteServiceCommercial = "11" }, true},
		{"negative sub-score", func(r *models.CustomerRequest) { r.NoteServiceCommercial = "-1" }, true},
		{"unknown type", func(r *models.CustomerRequest) { r.TypeClient = "VIP" }, true},
		{"missing phone", func(r *models.CustomerRequest) { r.Telephone = "" }, true},
		{"missing amount", func(r *models.CustomerRequest) { r.MontantCommande = "" }, true},
		{"zero amount", func(r *models.CustomerRequest) { r.MontantCommande = "0" }, true},
		{"decimal amount", func(r *models.CustomerRequest) { r.MontantCommande = "12.5" }, true},
		{"bad activity id", func(r *models.CustomerRequest) { r.ActivityID = "abc" }, true},
		{"NaN sub-score", func(r *models.CustomerRequest) { r.NoteQualiteProduits = "NaN" }, true},
		{"infinite sub-score", func(r *models.CustomerRequest) { r.NoteNiveauPrix = "-Inf" }, true},
		{"amount at int32 max", func(r *models.CustomerRequest) { r.MontantCommande = "2147483647" }, false},
		{"amount above int32", func(r *models.CustomerRequest) { r.MontantCommande = "2147483648" }, true},
		{"activity id above int32", func(r *models.CustomerRequest) { r.ActivityID = "9999999999" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid()
			tt.mutate(req)

			c, err := customerFromRequest(req)

			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Positive(t, c.MontantCommande)
		})
	}

	c, err := customerFromRequest(&models.CustomerRequest{
		Date: "2024-03-10", Telephone: "771234567", NomClient: "Awa", PointVente: "Dakar",
		MontantCommande: "1500", TypeClient: "Récurrent", NoteNiveauPrix: "0", CommentConnu: "  ",
		ActivityID: "4",
	})
	require.NoError(t, err)
	require.NotNil(t, c.NoteNiveauPrix)
	assert.InDelta(t, 0, *c.NoteNiveauPrix, 0)
	assert.Nil(t, c.NoteQualiteProduits)
	assert.Nil(t, c.CommentConnu)
	assert.Equal(t, ptr(4), c.ActivityID)
}

func TestCustomerService_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		actor     policy.Actor
		createdAt time.Time
		wantErr   error
	}{
		{"manager at 47h", manager, now.Add(-47 * time.Hour), nil},
		{"manager at 49h", manager, now.Add(-49 * time.Hour), policy.ErrDeleteExpired},
		{"admin at 49h", admin, now.Add(-49 * time.Hour), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := newMock(t)
			svc := NewCustomerService(repositories.NewCustomerRepository(mock), 50, nil)
			svc.now = func() time.Time { return now }

			mock.ExpectQuery("FROM customers WHERE id").WithArgs(5).WillReturnRows(customerRow(5, tt.createdAt))
			if tt.wantErr == nil {
				mock.ExpectExec("DELETE FROM customers").WithArgs(5).WillReturnResult(pgxmock.NewResult("DELETE", 1))
			}

			err := svc.Delete(t.Context(), tt.actor, 5)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCustomerService_UpdateByManagerAnyAge(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	svc := NewCustomerService(repositories.NewCustomerRepository(mock), 50, nil)
	svc.now = func() time.Time { return now }
	old := now.Add(-90 * 24 * time.Hour)

	mock.ExpectQuery("FROM customers WHERE id").WithArgs(5).WillReturnRows(customerRow(5, old))
	mock.ExpectQuery("UPDATE customers").WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).WillReturnRows(customerRow(5, old))

	_, err := svc.Update(t.Context(), manager, 5, &models.CustomerRequest{
		Date: "2024-03-10", Telephone: "771234567", NomClient: "Awa", PointVente: "Dakar",
		MontantCommande: "2000", TypeClient: "Récurrent",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerService_UpdateKeepsActivityLink(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	svc := NewCustomerService(repositories.NewCustomerRepository(mock), 50, nil)
	svc.now = func() time.Time { return now }

	linked := pgxmock.NewRows(customerCols).
		AddRow(5, ptr(4), day, "771234567", "Awa", "Dakar", 1500, "Nouveau",
			nil, nil, nil, nil, nil, nil, ptr(2), now)
	updated := pgxmock.NewRows(customerCols).
		AddRow(5, ptr(4), day, "771234567", "Awa", "Dakar", 2000, "Récurrent",
			nil, nil, nil, nil, nil, nil, ptr(2), now)

	mock.ExpectQuery("FROM customers WHERE id").WithArgs(5).WillReturnRows(linked)
	mock.ExpectQuery("UPDATE customers\\s+SET date = \\$1").
		WithArgs("2024-03-10", "771234567", "Awa", "Dakar", 2000, "Récurrent",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 5).
		WillReturnRows(updated)

	c, err := svc.Update(t.Context(), admin, 5, &models.CustomerRequest{
		Date: "2024-03-10", Telephone: "771234567", NomClient: "Awa", PointVente: "Dakar",
		MontantCommande: "2000", TypeClient: "Récurrent",
	})

	require.NoError(t, err)
	assert.Equal(t, ptr(4), c.ActivityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerService_ListAll(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	svc := NewCustomerService(repositories.NewCustomerRepository(mock), 50, nil)

	rows := pgxmock.NewRows(customerCols)
	for i := 0; i < 20; i++ {
		rows.AddRow(101+i, nil, day, "771234567", "Awa", "Dakar", 1500, "Nouveau",
			nil, nil, nil, nil, nil, nil, nil, now)
	}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM customers").WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery("LIMIT \\$1 OFFSET \\$2").WithArgs(50, 100).WillReturnRows(rows)
	mock.ExpectQuery("COUNT\\(CASE").WillReturnRows(pgxmock.NewRows(statsCols).AddRow(120, int64(180000), 120, 0, nil, nil, nil, nil))

	page, err := svc.ListAll(t.Context(), models.CustomerFilter{}, 3, 0)

	require.NoError(t, err)
	assert.Len(t, page.Customers, 20)
	assert.Equal(t, 120, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 100, page.Stats.TauxNouveaux)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerService_Validation(t *testing.T) {
	t.Parallel()
	svc := NewCustomerService(repositories.NewCustomerRepository(newMock(t)), 50, nil)

	_, err := svc.CheckPhone(t.Context(), "  ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.List(t.Context(), models.CustomerFilter{TypeClient: "VIP"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Stats(t.Context(), models.CustomerFilter{DateDebut: "2024-13-01"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

type stubSummarizer struct {
	fail map[string]bool
}

func (s *stubSummarizer) SummarizeOutlet(_ context.Context, pv string, audience sentiment.Audience, comments []string) (*models.OutletAnalysis, error) {
	if s.fail[pv+"/"+string(audience)] {
		return nil, errors.New("provider down")
	}
	return &models.OutletAnalysis{Sentiment: "positif", Score: ptr(8.0), Summary: pv}, nil
}

func (s *stubSummarizer) SummarizeDay(_ context.Context, date string, _ []*models.OutletReport) (*models.DayAnalysis, error) {
	if s.fail["day"] {
		return nil, errors.New("provider down")
	}
	return &models.DayAnalysis{Sentiment: "positif", Summary: date}, nil
}

func newExternal(mock pgxmock.PgxPoolIface, s sentiment.Summarizer) *ExternalService {
	return NewExternalService(
		repositories.NewActivityRepository(mock),
		repositories.NewCustomerRepository(mock),
		sentiment.NewAnalyzer(s, nil),
		nil,
		nil,
	)
}

func TestExternalService_ResolvePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, start, end string
		wantKind         apperr.Kind
	}{
		{"only start", "2024-03-01", "", apperr.KindValidation},
		{"only end", "", "2024-03-01", apperr.KindValidation},
		{"bad start", "2024-3-1", "2024-03-05", apperr.KindValidation},
		{"bad end", "2024-03-01", "05/03/2024", apperr.KindValidation},
		{"inverted", "2024-03-05", "2024-03-01", apperr.KindValidation},
		{"91 days", "2024-01-01", "2024-04-01", apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newExternal(newMock(t), &stubSummarizer{})

			_, err := svc.resolvePeriod(t.Context(), tt.start, tt.end)

			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}

	t.Run("90 days is accepted", func(t *testing.T) {
		t.Parallel()
		svc := newExternal(newMock(t), &stubSummarizer{})

		p, err := svc.resolvePeriod(t.Context(), "2024-01-01", "2024-03-31")

		require.NoError(t, err)
		assert.Equal(t, models.Period{Start: "2024-01-01", End: "2024-03-31"}, p)
	})

	t.Run("empty database", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := newExternal(mock, &stubSummarizer{})

		mock.ExpectQuery("SELECT MAX\\(date\\)").WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(nil))

		_, err := svc.resolvePeriod(t.Context(), "", "")

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestExternalService_Status(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	svc := newExternal(mock, &stubSummarizer{fail: map[string]bool{"Thiès/operations": true}})

	mock.ExpectQuery("SELECT MAX\\(date\\)").WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(ptr(day)))
	mock.ExpectQuery("FROM activities WHERE date >= \\$1 AND date <= \\$2").
		WithArgs("2024-03-10", "2024-03-10").
		WillReturnRows(pgxmock.NewRows(activityCols).
			AddRow(1, day, "Dakar", "Moussa", ptr(8.0), "Retard", "", "neant", "", ptr(7), now).
			AddRow(2, day, "Thiès", "Awa", nil, "", "pain", "Livreur en retard", "RAS", ptr(8), now).
			AddRow(3, day, "Mbour", "Fatou", nil, "", "", "", "", ptr(9), now))
	mock.ExpectQuery("SELECT date, commentaire_client").WithArgs("Dakar").
		WillReturnRows(pgxmock.NewRows([]string{"date", "commentaire_client"}).AddRow(day, "Très bon"))
	mock.ExpectQuery("SELECT date, commentaire_client").WithArgs("Thiès").
		WillReturnRows(pgxmock.NewRows([]string{"date", "commentaire_client"}))
	mock.ExpectQuery("SELECT date, commentaire_client").WithArgs("Mbour").
		WillReturnError(assert.AnError)

	report, err := svc.Status(t.Context(), "", "")

	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, models.Period{Start: "2024-03-10", End: "2024-03-10"}, report.Period)
	require.Equal(t, []string{"2024-03-10"}, report.Data.Dates)

	reports := report.Data.ByDate["2024-03-10"]
	require.Len(t, reports, 3)

	dakar, thies, mbour := reports[0], reports[1], reports[2]
	assert.Equal(t, "Retard", dakar.Plaintes)
	assert.Equal(t, "neant", dakar.ProduitsManquants)
	assert.True(t, dakar.SentimentAnalysis.Analyzed)
	assert.Equal(t, 1, dakar.SentimentAnalysis.TotalComments)
	assert.True(t, dakar.ClientSentimentAnalysis.Analyzed)
	assert.Equal(t, ptr("2024-03-10"), dakar.ClientSentimentAnalysis.LatestDate)

	assert.Equal(t, sentiment.OutletFallback(), thies.SentimentAnalysis)
	assert.Equal(t, "Pas de données", thies.ClientSentimentAnalysis.Message)
	assert.Nil(t, thies.ClientSentimentAnalysis.LatestDate)

	assert.False(t, mbour.SentimentAnalysis.Analyzed)
	assert.Equal(t, "Aucun commentaire disponible", mbour.SentimentAnalysis.Summary)
	assert.Equal(t, models.SentimentUnknown, mbour.ClientSentimentAnalysis.Sentiment)
	assert.False(t, mbour.ClientSentimentAnalysis.Analyzed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExternalService_DaySentiment(t *testing.T) {
	t.Parallel()

	t.Run("no activity that day", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := newExternal(mock, &stubSummarizer{})

		mock.ExpectQuery("FROM activities").WithArgs("2024-03-01", "2024-03-01").
			WillReturnRows(pgxmock.NewRows(activityCols))

		_, err := svc.DaySentiment(t.Context(), "2024-03-01")

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "2024-03-01")
	})

	t.Run("bad date", func(t *testing.T) {
		t.Parallel()
		svc := newExternal(newMock(t), &stubSummarizer{})

		_, err := svc.DaySentiment(t.Context(), "hier")

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("summarizer failure still answers", func(t *testing.T) {
		t.Parallel()
		mock := newMock(t)
		svc := newExternal(mock, &stubSummarizer{fail: map[string]bool{"day": true}})

		mock.ExpectQuery("SELECT MAX\\(date\\)").WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(ptr(day)))
		mock.ExpectQuery("FROM activities").WithArgs("2024-03-10", "2024-03-10").
			WillReturnRows(activityRow(1, 7, now))

		analysis, err := svc.DaySentiment(t.Context(), "")

		require.NoError(t, err)
		assert.Equal(t, models.SentimentUnknown, analysis.Sentiment)
		assert.Equal(t, "provider down", analysis.Error)
		assert.Equal(t, 1, analysis.TotalPointsVente)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
