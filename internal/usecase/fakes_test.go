package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/data/repository"
	"movie-ticketing/pkg/queue"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24, BcryptCost: 4},
		Ticket: utils.TicketConfig{
			TransactionNumberSeed:  70001,
			ConfirmationNumberSeed: 80001,
			MinGapMinutes:          25,
			MaxGapMinutes:          45,
		},
		Seed: utils.SeedConfig{Password: "seed-secret-for-tests"},
	}
}

// ---- movies ----

type fakeMovieRepo struct {
	repository.MovieRepository
	movies map[uuid.UUID]*entity.Movie
}

func (f *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	return f.movies[id], nil
}

func (f *fakeMovieRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.movies[id]
	return ok, nil
}

func (f *fakeMovieRepo) FindByTitle(_ context.Context, title string) (*entity.Movie, error) {
	for _, m := range f.movies {
		if strings.EqualFold(m.Title, title) {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovieRepo) Create(_ context.Context, m *entity.Movie) error {
	cp := *m
	f.movies[m.ID] = &cp
	return nil
}

func (f *fakeMovieRepo) matching(filter repository.MovieFilter) []*entity.Movie {
	var out []*entity.Movie
	for _, m := range f.movies {
		if filter.MPAARating != nil && m.MPAARating != *filter.MPAARating {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (f *fakeMovieRepo) FindAll(_ context.Context, filter repository.MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	return page(f.matching(filter), limit, offset), nil
}

func (f *fakeMovieRepo) CountAll(_ context.Context, filter repository.MovieFilter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeMovieRepo) Update(_ context.Context, m *entity.Movie) error {
	if _, ok := f.movies[m.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	cp := *m
	f.movies[m.ID] = &cp
	return nil
}

func (f *fakeMovieRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.movies, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ---- prices ----

type fakePriceRepo struct {
	repository.PriceRepository
	prices map[int]*entity.Price
}

func (f *fakePriceRepo) FindByID(_ context.Context, id int) (*entity.Price, error) {
	p, ok := f.prices[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePriceRepo) FindAll(_ context.Context) ([]*entity.Price, error) {
	out := make([]*entity.Price, 0, len(f.prices))
	for _, p := range f.prices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePriceRepo) Update(_ context.Context, p *entity.Price) error {
	if _, ok := f.prices[p.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	cp := *p
	f.prices[p.ID] = &cp
	return nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p *entity.Price) (bool, error) {
	_, exists := f.prices[p.ID]
	cp := *p
	f.prices[p.ID] = &cp
	return !exists, nil
}

func defaultPrices() map[int]*entity.Price {
	prices := map[int]*entity.Price{}
	for i := range seedPrices {
		p := seedPrices[i]
		prices[p.ID] = &p
	}
	return prices
}

// ---- schedules ----

type fakeScheduleRepo struct {
	repository.ScheduleRepository
	movies    *fakeMovieRepo
	prices    *fakePriceRepo
	schedules map[uuid.UUID]*entity.Schedule
}

func (f *fakeScheduleRepo) view(s *entity.Schedule) *entity.ScheduleView {
	movie := f.movies.movies[s.MovieID]
	price := f.prices.prices[s.PriceID]
	if movie == nil || price == nil {
		return nil
	}
	return &entity.ScheduleView{
		Schedule:         *s,
		MovieTitle:       movie.Title,
		MovieDescription: movie.Description,
		MPAARating:       movie.MPAARating,
		RuntimeMinutes:   movie.RuntimeMinutes,
		TicketPrice:      price.TicketPrice,
	}
}

func (f *fakeScheduleRepo) sorted(theatre entity.Theatre, excludeID *uuid.UUID) []*entity.ScheduleView {
	var out []*entity.ScheduleView
	for _, s := range f.schedules {
		if s.Theatre != theatre || (excludeID != nil && s.ID == *excludeID) {
			continue
		}
		if v := f.view(s); v != nil {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeScheduleRepo) Create(_ context.Context, s *entity.Schedule) error {
	cp := *s
	f.schedules[s.ID] = &cp
	return nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ScheduleView, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	return f.view(s), nil
}

func (f *fakeScheduleRepo) FindPrevious(_ context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error) {
	var prev *entity.ScheduleView
	for _, v := range f.sorted(theatre, excludeID) {
		if v.StartTime.Before(start) {
			prev = v
		}
	}
	return prev, nil
}

func (f *fakeScheduleRepo) FindNext(_ context.Context, theatre entity.Theatre, start time.Time, excludeID *uuid.UUID) (*entity.ScheduleView, error) {
	for _, v := range f.sorted(theatre, excludeID) {
		if v.StartTime.After(start) {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) FindByTheatreAndStart(_ context.Context, theatre entity.Theatre, start time.Time) (*entity.ScheduleView, error) {
	for _, v := range f.sorted(theatre, nil) {
		if v.StartTime.Equal(start) {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, s *entity.Schedule) error {
	if _, ok := f.schedules[s.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	cp := *s
	f.schedules[s.ID] = &cp
	return nil
}

func (f *fakeScheduleRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.schedules[id]
	return ok, nil
}

// ---- users ----

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) matching(role *entity.UserRole) []*entity.User {
	var out []*entity.User
	for _, u := range f.users {
		if role == nil || u.Role == *role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (f *fakeUserRepo) FindAll(_ context.Context, role *entity.UserRole, limit, offset int) ([]*entity.User, error) {
	return page(f.matching(role), limit, offset), nil
}

func (f *fakeUserRepo) CountAll(_ context.Context, role *entity.UserRole) (int64, error) {
	return int64(len(f.matching(role))), nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

// Delete drops the row; soft-deleted users are invisible to every finder.
func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	delete(f.users, id)
	return nil
}

// ---- sessions ----

type fakeSessionRepo struct {
	repository.SessionRepository
	sessions   map[uuid.UUID]*entity.Session
	revokedAll []uuid.UUID
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	cp := *s
	f.sessions[s.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	s, ok := f.sessions[token]
	if !ok {
		return nil
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.revokedAll = append(f.revokedAll, userID)
	now := time.Now()
	for _, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

// ---- reviews ----

type fakeReviewRepo struct {
	repository.ReviewRepository
	movies  *fakeMovieRepo
	users   *fakeUserRepo
	reviews map[uuid.UUID]*entity.Review
}

func (f *fakeReviewRepo) view(r *entity.Review) *entity.ReviewView {
	v := &entity.ReviewView{Review: *r}
	if u, ok := f.users.users[r.UserID]; ok {
		v.Username = u.Username
	}
	if m, ok := f.movies.movies[r.MovieID]; ok {
		v.MovieTitle = m.Title
	}
	return v
}

func (f *fakeReviewRepo) Create(_ context.Context, r *entity.Review) error {
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ReviewView, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	return f.view(r), nil
}

func (f *fakeReviewRepo) FindByUserAndMovie(_ context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.MovieID == movieID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) matching(filter repository.ReviewFilter) []*entity.ReviewView {
	var out []*entity.ReviewView
	for _, r := range f.reviews {
		if filter.MovieID != nil && r.MovieID != *filter.MovieID {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, f.view(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeReviewRepo) FindAll(_ context.Context, filter repository.ReviewFilter, limit, offset int) ([]*entity.ReviewView, error) {
	return page(f.matching(filter), limit, offset), nil
}

func (f *fakeReviewRepo) CountAll(_ context.Context, filter repository.ReviewFilter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r *entity.Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return fmt.Errorf("review %s not found", r.ID)
	}
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.ReviewStatus) error {
	r, ok := f.reviews[id]
	if !ok {
		return fmt.Errorf("review %s not found", id)
	}
	r.Status = status
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return fmt.Errorf("review %s not found", id)
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Upsert(_ context.Context, r *entity.Review) (bool, error) {
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.MovieID == r.MovieID {
			existing.Rating = r.Rating
			existing.Description = r.Description
			existing.Status = r.Status
			existing.UpdatedAt = r.UpdatedAt
			return false, nil
		}
	}
	cp := *r
	f.reviews[r.ID] = &cp
	return true, nil
}

func (f *fakeReviewRepo) GetMovieReviewStats(_ context.Context, movieID uuid.UUID) (float64, int64, error) {
	var sum, count int64
	for _, r := range f.reviews {
		if r.MovieID == movieID && r.Status == entity.ReviewStatusApproved {
			sum += int64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// ---- transactions ----

type fakeTransactionRepo struct {
	repository.TransactionRepository
	mu           sync.Mutex
	txns         map[uuid.UUID]*entity.Transaction
	lastNumber   *int64
	lastConfirm  *int64
	purchaseMiss bool
}

func (f *fakeTransactionRepo) next(current **int64, seed int64) int64 {
	n := utils.NextSequence(*current, seed)
	*current = &n
	return n
}

func (f *fakeTransactionRepo) Create(_ context.Context, txn *entity.Transaction, seed int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn.TransactionNumber = f.next(&f.lastNumber, seed)
	cp := *txn
	f.txns[txn.ID] = &cp
	return nil
}

func (f *fakeTransactionRepo) FindOrCreatePending(ctx context.Context, userID uuid.UUID, seed int64, now time.Time) (*entity.Transaction, bool, error) {
	f.mu.Lock()
	var newest *entity.Transaction
	for _, t := range f.txns {
		if t.UserID != userID || !t.IsPending() {
			continue
		}
		if newest == nil || t.TransactionDate.After(newest.TransactionDate) ||
			(t.TransactionDate.Equal(newest.TransactionDate) && t.TransactionNumber > newest.TransactionNumber) {
			newest = t
		}
	}
	if newest != nil {
		cp := *newest
		f.mu.Unlock()
		return &cp, false, nil
	}
	f.mu.Unlock()

	txn := &entity.Transaction{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		TransactionDate: now,
		Status:          entity.TransactionStatusPending,
		UserID:          userID,
	}
	err := f.Create(ctx, txn, seed)
	return txn, true, err
}

func (f *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTransactionRepo) MarkPurchased(_ context.Context, id uuid.UUID, seed int64, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[id]
	if !ok || !t.IsPending() || f.purchaseMiss {
		return 0, repository.ErrNoRowsAffected
	}
	n := f.next(&f.lastConfirm, seed)
	t.Status = entity.TransactionStatusPurchased
	t.ConfirmationNumber = &n
	t.UpdatedAt = now
	return n, nil
}

func (f *fakeTransactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from []entity.TransactionStatus, to entity.TransactionStatus, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	for _, s := range from {
		if t.Status == s {
			t.Status = to
			t.UpdatedAt = now
			return nil
		}
	}
	return repository.ErrNoRowsAffected
}

func (f *fakeTransactionRepo) UpdateNote(_ context.Context, id uuid.UUID, note string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[id]
	if !ok || !t.IsPending() {
		return repository.ErrNoRowsAffected
	}
	t.Note = note
	t.UpdatedAt = now
	return nil
}

func (f *fakeTransactionRepo) pending(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[id]
	return ok && t.IsPending()
}

func (f *fakeTransactionRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.txns[id]
	return ok, nil
}

// ---- transaction details ----

type fakeDetailRepo struct {
	repository.TransactionDetailRepository
	schedules *fakeScheduleRepo
	txns      *fakeTransactionRepo
	details   []*entity.TransactionDetail

	// beforeWrite runs between the service's pending check and the write,
	// where a concurrent checkout or cancel can land.
	beforeWrite func(transactionID uuid.UUID)
}

// guard mirrors the row lock: writes only land on a pending transaction.
func (f *fakeDetailRepo) guard(transactionID uuid.UUID) error {
	if f.beforeWrite != nil {
		f.beforeWrite(transactionID)
	}
	if !f.txns.pending(transactionID) {
		return repository.ErrNoRowsAffected
	}
	return nil
}

func (f *fakeDetailRepo) index(id uuid.UUID) int {
	for i, d := range f.details {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeDetailRepo) Create(_ context.Context, d *entity.TransactionDetail) error {
	if err := f.guard(d.TransactionID); err != nil {
		return err
	}
	cp := *d
	f.details = append(f.details, &cp)
	return nil
}

func (f *fakeDetailRepo) Update(_ context.Context, d *entity.TransactionDetail) error {
	i := f.index(d.ID)
	if i < 0 {
		return repository.ErrNoRowsAffected
	}
	if err := f.guard(f.details[i].TransactionID); err != nil {
		return err
	}
	cp := *d
	f.details[i] = &cp
	return nil
}

func (f *fakeDetailRepo) Delete(_ context.Context, id uuid.UUID) error {
	i := f.index(id)
	if i < 0 {
		return repository.ErrNoRowsAffected
	}
	if err := f.guard(f.details[i].TransactionID); err != nil {
		return err
	}
	f.details = append(f.details[:i], f.details[i+1:]...)
	return nil
}

func (f *fakeDetailRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.index(id) >= 0, nil
}

func (f *fakeDetailRepo) view(d *entity.TransactionDetail) *entity.TransactionDetailView {
	s := f.schedules.schedules[d.ScheduleID]
	return &entity.TransactionDetailView{
		TransactionDetail: *d,
		Theatre:           s.Theatre,
		StartTime:         s.StartTime,
		TicketType:        s.TicketType,
		MovieID:           s.MovieID,
		MovieTitle:        f.schedules.movies.movies[s.MovieID].Title,
	}
}

func (f *fakeDetailRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TransactionDetailView, error) {
	i := f.index(id)
	if i < 0 {
		return nil, nil
	}
	return f.view(f.details[i]), nil
}

func (f *fakeDetailRepo) FindByTransactionID(_ context.Context, transactionID uuid.UUID) ([]*entity.TransactionDetailView, error) {
	out := []*entity.TransactionDetailView{}
	for _, d := range f.details {
		if d.TransactionID == transactionID {
			out = append(out, f.view(d))
		}
	}
	return out, nil
}

func (f *fakeDetailRepo) CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	views, _ := f.FindByTransactionID(ctx, transactionID)
	return int64(len(views)), nil
}

// ---- queue ----

type recordingPublisher struct {
	events []queue.TransactionEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event queue.TransactionEvent) error {
	p.events = append(p.events, event)
	return nil
}

// ---- fixture ----

type fixture struct {
	repo      *repository.Repository
	movies    *fakeMovieRepo
	prices    *fakePriceRepo
	schedules *fakeScheduleRepo
	users     *fakeUserRepo
	txns      *fakeTransactionRepo
	details   *fakeDetailRepo
	reviews   *fakeReviewRepo
	sessions  *fakeSessionRepo
}

func newFixture() *fixture {
	movies := &fakeMovieRepo{movies: map[uuid.UUID]*entity.Movie{}}
	prices := &fakePriceRepo{prices: defaultPrices()}
	schedules := &fakeScheduleRepo{movies: movies, prices: prices, schedules: map[uuid.UUID]*entity.Schedule{}}
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	txns := &fakeTransactionRepo{txns: map[uuid.UUID]*entity.Transaction{}}
	details := &fakeDetailRepo{schedules: schedules, txns: txns}
	reviews := &fakeReviewRepo{movies: movies, users: users, reviews: map[uuid.UUID]*entity.Review{}}
	sessions := &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}}

	return &fixture{
		repo: &repository.Repository{
			User:              users,
			Movie:             movies,
			Price:             prices,
			Schedule:          schedules,
			Transaction:       txns,
			TransactionDetail: details,
			Review:            reviews,
			Session:           sessions,
		},
		movies:    movies,
		prices:    prices,
		schedules: schedules,
		users:     users,
		txns:      txns,
		details:   details,
		reviews:   reviews,
		sessions:  sessions,
	}
}

func (fx *fixture) addMovie(title string, runtime int) *entity.Movie {
	m := &entity.Movie{
		Base:           entity.NewBase(time.Now()),
		Title:          title,
		MPAARating:     entity.MPAARatingPG,
		RuntimeMinutes: runtime,
	}
	fx.movies.movies[m.ID] = m
	return m
}

func (fx *fixture) addSchedule(movie *entity.Movie, theatre entity.Theatre, start time.Time, tt entity.TicketType) *entity.Schedule {
	s := &entity.Schedule{
		BaseNoDelete: entity.NewBaseNoDelete(time.Now()),
		Theatre:      theatre,
		StartTime:    start,
		TicketType:   tt,
		MovieID:      movie.ID,
		PriceID:      ResolvePriceID(tt, 0),
	}
	fx.schedules.schedules[s.ID] = s
	return s
}

func (fx *fixture) addUser(role entity.UserRole) *entity.User {
	u := &entity.User{
		Base:      entity.NewBase(time.Now()),
		Username:  "user-" + uuid.NewString()[:8],
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	fx.users.users[u.ID] = u
	return u
}
