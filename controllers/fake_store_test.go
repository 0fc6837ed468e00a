package controllers

import (
	"context"
	"sort"
	"sync"
	"time"

	"xrgi-portal/backend/database"
	"xrgi-portal/backend/models"
	"xrgi-portal/backend/registration"
)

type fakeReset struct {
	userID    int64
	expiresAt time.Time
	used      bool
}

// fakeStore keeps everything in memory and implements Store.
type fakeStore struct {
	mu       sync.Mutex
	users    map[int64]models.User
	resets   map[string]*fakeReset
	regs     map[string]models.Registration
	devices  map[string]models.Device
	calls    map[int64]models.ServiceCall
	reports  []models.ServiceReport
	nextUser int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[int64]models.User{},
		resets:  map[string]*fakeReset{},
		regs:    map[string]models.Registration{},
		devices: map[string]models.Device{},
		calls:   map[int64]models.ServiceCall{},
	}
}

func (s *fakeStore) CreateUser(_ context.Context, u models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return 0, database.ErrEmailTaken
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (s *fakeStore) UserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) CreateResetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = &fakeReset{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *fakeStore) ResetPassword(_ context.Context, token, passwordHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resets[token]
	if !ok || r.used || !r.expiresAt.After(now) {
		return database.ErrTokenInvalid
	}
	u := s.users[r.userID]
	u.PasswordHash = passwordHash
	s.users[r.userID] = u
	r.used = true
	return nil
}

func (s *fakeStore) CreateRegistration(_ context.Context, r models.Registration, d models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.devices[d.XRGIID]
	if ok && existing.RegistrationID != nil {
		if owner, found := s.regs[*existing.RegistrationID]; found && owner.UserID != r.UserID {
			return database.ErrDeviceClaimed
		}
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	s.regs[r.ID] = r
	if ok {
		d.Status = existing.Status
	} else {
		d.Status = models.StatusPending
	}
	d.RegistrationID = &r.ID
	s.devices[d.XRGIID] = d
	return nil
}

func (s *fakeStore) Registration(_ context.Context, id string, userID int64) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.UserID != userID {
		return models.Registration{}, database.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) ListRegistrations(_ context.Context, userID int64, limit, offset int) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Registration{}
	for _, r := range s.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []models.Registration{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) UpdateRegistrationForm(_ context.Context, id string, userID int64, form registration.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[id]
	if !ok || r.UserID != userID {
		return database.ErrNotFound
	}
	r.Form = form
	r.UpdatedAt = time.Now()
	s.regs[id] = r
	return nil
}

func (s *fakeStore) UpsertDevices(ctx context.Context, devices []models.Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range devices {
		existing, ok := s.devices[d.XRGIID]
		if !ok {
			if d.Status == "" {
				d.Status = models.StatusPending
			}
			s.devices[d.XRGIID] = d
			continue
		}
		existing.Name = keep(d.Name, existing.Name)
		existing.Model = keep(d.Model, existing.Model)
		existing.Status = keep(d.Status, existing.Status)
		existing.SiteCity = keep(d.SiteCity, existing.SiteCity)
		existing.SiteCountry = keep(d.SiteCountry, existing.SiteCountry)
		if d.InstalledAt != nil {
			existing.InstalledAt = d.InstalledAt
		}
		s.devices[d.XRGIID] = existing
	}
	return nil
}

func keep(v, old string) string {
	if v == "" {
		return old
	}
	return v
}

func (s *fakeStore) ListDevices(_ context.Context, status string, limit, offset int) ([]models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Device{}
	for _, d := range s.devices {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].XRGIID < out[j].XRGIID })
	if offset >= len(out) {
		return []models.Device{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) DeviceSummary(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for _, st := range models.DeviceStatuses {
		out[st] = 0
	}
	for _, d := range s.devices {
		out[d.Status]++
	}
	return out, nil
}

func (s *fakeStore) Device(_ context.Context, xrgiID string) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[xrgiID]
	if !ok {
		return models.Device{}, database.ErrNotFound
	}
	return d, nil
}

func (s *fakeStore) UpdateConfiguration(_ context.Context, xrgiID string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[xrgiID]
	if !ok {
		return database.ErrNotFound
	}
	merged := map[string]any{}
	for k, v := range d.Configuration {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	d.Configuration = merged
	s.devices[xrgiID] = d
	return nil
}

func (s *fakeStore) ActivityCounts(_ context.Context, xrgiID string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	open, reports := 0, 0
	for _, c := range s.calls {
		if c.XRGIID == xrgiID && c.Status == "open" {
			open++
		}
	}
	for _, r := range s.reports {
		if r.XRGIID == xrgiID {
			reports++
		}
	}
	return open, reports, nil
}

func (s *fakeStore) ListCalls(_ context.Context, xrgiID string) ([]models.ServiceCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ServiceCall{}
	for _, c := range s.calls {
		if c.XRGIID == xrgiID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Call(_ context.Context, id int64) (models.ServiceCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return models.ServiceCall{}, database.ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) ListReports(_ context.Context, xrgiID string) ([]models.ServiceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ServiceReport{}
	for _, r := range s.reports {
		if r.XRGIID == xrgiID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Report(_ context.Context, id int64) (models.ServiceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return models.ServiceReport{}, database.ErrNotFound
}

func (s *fakeStore) CreateReport(ctx context.Context, r models.ServiceReport) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = int64(len(s.reports) + 1)
	r.CreatedAt = time.Now()
	s.reports = append(s.reports, r)
	return r.ID, nil
}

var _ Store = (*fakeStore)(nil)
