package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

func audienceMatch(audiences []models.Audience, a models.Audience) bool {
	return len(audiences) == 0 || slices.Contains(audiences, a)
}

// AnnouncementRepository stores announcements
type AnnouncementRepository struct {
	s *Store
}

// Create inserts an announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.s.write(ctx, func(st *state) error {
		a.ID = st.newID()
		a.CreatedAt = r.s.clock()
		st.announcements[a.ID] = *a
		return nil
	})
}

// GetByID retrieves an announcement
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	var out models.Announcement
	err := r.s.read(ctx, func(st *state) error {
		a, ok := st.announcements[id]
		if !ok {
			return apperrors.ErrAnnouncementNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns a page of announcements for audiences, newest first
func (r *AnnouncementRepository) List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Announcement, int64, error) {
	var all []models.Announcement
	err := r.s.read(ctx, func(st *state) error {
		all = make([]models.Announcement, 0, len(st.announcements))
		for _, a := range st.announcements {
			if audienceMatch(audiences, a.Audience) {
				all = append(all, a)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID > all[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// Delete removes an announcement
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.announcements[id]; !ok {
			return apperrors.ErrAnnouncementNotFound
		}
		delete(st.announcements, id)
		return nil
	})
}

// EventRepository stores events
type EventRepository struct {
	s *Store
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	return r.s.write(ctx, func(st *state) error {
		e.ID = st.newID()
		e.CreatedAt = r.s.clock()
		st.events[e.ID] = *e
		return nil
	})
}

// GetByID retrieves an event
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var out models.Event
	err := r.s.read(ctx, func(st *state) error {
		e, ok := st.events[id]
		if !ok {
			return apperrors.ErrEventNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDs returns the events among ids, ascending by id
func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	var out []models.Event
	err := r.s.read(ctx, func(st *state) error {
		found := existing(st.events, ids)
		slices.Sort(found)
		out = make([]models.Event, 0, len(found))
		for _, id := range found {
			out = append(out, st.events[id])
		}
		return nil
	})
	return out, err
}

// List returns a page of events for audiences, latest date first
func (r *EventRepository) List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Event, int64, error) {
	var all []models.Event
	err := r.s.read(ctx, func(st *state) error {
		all = make([]models.Event, 0, len(st.events))
		for _, e := range st.events {
			if audienceMatch(audiences, e.Audience) {
				all = append(all, e)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].EventDate.Equal(all[j].EventDate) {
				return all[i].EventDate.After(all[j].EventDate)
			}
			return all[i].ID > all[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// DeleteByIDs removes every event in ids
func (r *EventRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	return r.s.write(ctx, func(st *state) error {
		for _, id := range ids {
			delete(st.events, id)
		}
		return nil
	})
}

// ComplaintRepository stores complaints. Like marks they keep no link to the
// graph and outlive the student.
type ComplaintRepository struct {
	s *Store
}

// Create inserts a complaint
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	return r.s.write(ctx, func(st *state) error {
		if n := len([]rune(c.Body)); n < 10 || n > 500 {
			return apperrors.NewValidationError("value out of range")
		}
		c.ID = st.newID()
		c.CreatedAt = r.s.clock()
		c.UpdatedAt = c.CreatedAt
		st.complaints[c.ID] = *c
		return nil
	})
}

// GetByID retrieves a complaint
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	var out models.Complaint
	err := r.s.read(ctx, func(st *state) error {
		c, ok := st.complaints[id]
		if !ok {
			return apperrors.ErrComplaintNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns a page of complaints, newest first
func (r *ComplaintRepository) List(ctx context.Context, studentID *int64, offset uint64, limit int) ([]models.Complaint, int64, error) {
	var all []models.Complaint
	err := r.s.read(ctx, func(st *state) error {
		all = make([]models.Complaint, 0, len(st.complaints))
		for _, c := range st.complaints {
			if studentID == nil || c.StudentID == *studentID {
				all = append(all, c)
			}
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID > all[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// SetStatus moves a complaint to status
func (r *ComplaintRepository) SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) error {
	return r.s.write(ctx, func(st *state) error {
		c, ok := st.complaints[id]
		if !ok {
			return apperrors.ErrComplaintNotFound
		}
		c.Status = status
		c.UpdatedAt = r.s.clock()
		st.complaints[id] = c
		return nil
	})
}

// Delete removes a complaint
func (r *ComplaintRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.complaints[id]; !ok {
			return apperrors.ErrComplaintNotFound
		}
		delete(st.complaints, id)
		return nil
	})
}
