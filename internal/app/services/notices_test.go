package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
)

var head = auth.Principal{ID: 1, Role: auth.RolePrincipal}

func TestAnnouncementAudienceScoping(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	teacher := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}
	student := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}

	ids := map[models.Audience]int64{}
	for _, a := range []models.Audience{models.AudienceStudents, models.AudienceTeachers, models.AudienceEveryone} {
		ann, err := f.svc.Announcement.CreateAnnouncement(f.ctx, head, dto.CreateAnnouncementRequest{
			Title: "For " + string(a), Content: "body", Audience: string(a),
		})
		require.NoError(t, err)
		ids[a] = ann.ID
	}

	tests := []struct {
		name    string
		caller  auth.Principal
		visible []int64
		hidden  []int64
	}{
		{"principal", head, []int64{ids["everyone"], ids["teachers"], ids["students"]}, nil},
		{"teacher", teacher, []int64{ids["everyone"], ids["teachers"]}, []int64{ids["students"]}},
		{"student", student, []int64{ids["everyone"], ids["students"]}, []int64{ids["teachers"]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Announcement.GetAnnouncements(f.ctx, tt.caller, 1, 10)
			require.NoError(t, err)
			got := make([]int64, 0, len(resp.Announcements))
			for _, a := range resp.Announcements {
				got = append(got, a.ID)
			}
			assert.Equal(t, tt.visible, got)
			assert.Equal(t, int64(len(tt.visible)), resp.TotalItems)

			for _, id := range tt.visible {
				_, err := f.svc.Announcement.GetAnnouncement(f.ctx, tt.caller, id)
				assert.NoError(t, err)
			}
			for _, id := range tt.hidden {
				_, err := f.svc.Announcement.GetAnnouncement(f.ctx, tt.caller, id)
				assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			}
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Announcement.GetAnnouncement(f.ctx, head, 999)
		assert.ErrorIs(t, err, apperrors.ErrAnnouncementNotFound)
	})
}

func TestCreateAnnouncement(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	teacher := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}

	t.Run("audience defaults to everyone", func(t *testing.T) {
		ann, err := f.svc.Announcement.CreateAnnouncement(f.ctx, teacher, dto.CreateAnnouncementRequest{Title: "Trip", Content: "Friday"})
		require.NoError(t, err)
		assert.Equal(t, models.AudienceEveryone, ann.Audience)
		assert.Equal(t, models.Author{Role: auth.RoleTeacher, ID: teacher.ID}, ann.CreatedBy)
		assert.Equal(t, testNow, ann.CreatedAt)
	})

	t.Run("unknown audience", func(t *testing.T) {
		_, err := f.svc.Announcement.CreateAnnouncement(f.ctx, head, dto.CreateAnnouncementRequest{Title: "x", Content: "y", Audience: "parents"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("students cannot publish", func(t *testing.T) {
		student := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}
		_, err := f.svc.Announcement.CreateAnnouncement(f.ctx, student, dto.CreateAnnouncementRequest{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("teacher no longer on staff", func(t *testing.T) {
		gone := auth.Principal{ID: 999, Role: auth.RoleTeacher}
		_, err := f.svc.Announcement.CreateAnnouncement(f.ctx, gone, dto.CreateAnnouncementRequest{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestAnnouncementsPageNewestFirst(t *testing.T) {
	f := newFixture(t)
	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		ann, err := f.svc.Announcement.CreateAnnouncement(f.ctx, head, dto.CreateAnnouncementRequest{Title: title, Content: "c"})
		require.NoError(t, err)
		ids = append(ids, ann.ID)
	}

	resp, err := f.svc.Announcement.GetAnnouncements(f.ctx, head, 1, 2)
	require.NoError(t, err)
	require.Len(t, resp.Announcements, 2)
	assert.Equal(t, ids[2], resp.Announcements[0].ID)
	assert.Equal(t, ids[1], resp.Announcements[1].ID)
	assert.Equal(t, 2, resp.TotalPages)

	resp, err = f.svc.Announcement.GetAnnouncements(f.ctx, head, 2, 2)
	require.NoError(t, err)
	require.Len(t, resp.Announcements, 1)
	assert.Equal(t, ids[0], resp.Announcements[0].ID)
}

func TestDeleteAnnouncementOwnership(t *testing.T) {
	f := newFixture(t)
	tara := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}
	umut := auth.Principal{ID: f.teacher("umut").ID, Role: auth.RoleTeacher}

	ann, err := f.svc.Announcement.CreateAnnouncement(f.ctx, tara, dto.CreateAnnouncementRequest{Title: "Club", Content: "c"})
	require.NoError(t, err)
	byHead, err := f.svc.Announcement.CreateAnnouncement(f.ctx, head, dto.CreateAnnouncementRequest{Title: "Rules", Content: "c"})
	require.NoError(t, err)

	err = f.svc.Announcement.DeleteAnnouncement(f.ctx, umut, ann.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	err = f.svc.Announcement.DeleteAnnouncement(f.ctx, tara, byHead.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.svc.Announcement.DeleteAnnouncement(f.ctx, tara, ann.ID))
	require.NoError(t, f.svc.Announcement.DeleteAnnouncement(f.ctx, head, byHead.ID))

	err = f.svc.Announcement.DeleteAnnouncement(f.ctx, head, ann.ID)
	assert.ErrorIs(t, err, apperrors.ErrAnnouncementNotFound)
}

func TestEventsScopedAndOrderedByDate(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	student := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}

	newEvent := func(title, date, audience string) *models.Event {
		e, err := f.svc.Event.CreateEvent(f.ctx, head, dto.CreateEventRequest{
			Title: title, Content: "c", EventDate: date, Venue: "Hall", Audience: audience,
		})
		require.NoError(t, err)
		return e
	}
	fair := newEvent("Science fair", "2026-04-02", "everyone")
	meeting := newEvent("Staff meeting", "2026-05-01", "teachers")
	sports := newEvent("Sports day", "2026-06-15", "students")

	resp, err := f.svc.Event.GetEvents(f.ctx, head, 1, 10)
	require.NoError(t, err)
	require.Len(t, resp.Events, 3)
	assert.Equal(t, []int64{sports.ID, meeting.ID, fair.ID}, []int64{resp.Events[0].ID, resp.Events[1].ID, resp.Events[2].ID})

	resp, err = f.svc.Event.GetEvents(f.ctx, student, 1, 10)
	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, sports.ID, resp.Events[0].ID)
	assert.Equal(t, fair.ID, resp.Events[1].ID)

	_, err = f.svc.Event.GetEvent(f.ctx, student, meeting.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Event.CreateEvent(f.ctx, head, dto.CreateEventRequest{Title: "x", Content: "c", EventDate: "2026-02-30", Venue: "Hall"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteEventsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	tara := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}

	create := func(p auth.Principal, title string) int64 {
		e, err := f.svc.Event.CreateEvent(f.ctx, p, dto.CreateEventRequest{Title: title, Content: "c", EventDate: "2026-04-01", Venue: "Gym"})
		require.NoError(t, err)
		return e.ID
	}
	own := create(tara, "Chess")
	other := create(head, "Concert")

	remaining := func() int64 {
		resp, err := f.svc.Event.GetEvents(f.ctx, head, 1, 10)
		require.NoError(t, err)
		return resp.TotalItems
	}

	t.Run("missing id", func(t *testing.T) {
		_, err := f.svc.Event.DeleteEvents(f.ctx, head, []int64{own, 999})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		var ce *apperrors.CustomError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, []int64{999}, ce.Details["missingIds"])
		assert.Equal(t, int64(2), remaining())
	})

	t.Run("teacher removing another author's event", func(t *testing.T) {
		_, err := f.svc.Event.DeleteEvents(f.ctx, tara, []int64{own, other})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, int64(2), remaining())
	})

	t.Run("teacher removing own event twice in one batch", func(t *testing.T) {
		deleted, err := f.svc.Event.DeleteEvents(f.ctx, tara, []int64{own, own})
		require.NoError(t, err)
		assert.Equal(t, []int64{own}, deleted)
		assert.Equal(t, int64(1), remaining())
	})

	t.Run("principal removes any", func(t *testing.T) {
		deleted, err := f.svc.Event.DeleteEvents(f.ctx, head, []int64{other})
		require.NoError(t, err)
		assert.Equal(t, []int64{other}, deleted)
		assert.Equal(t, int64(0), remaining())
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := f.svc.Event.DeleteEvents(f.ctx, head, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestFileComplaint(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	student := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}
	teacher := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}

	tests := []struct {
		name   string
		caller auth.Principal
		body   string
		want   error
	}{
		{"too short once trimmed", student, "   too short   ", apperrors.ErrValidationFailed},
		{"too long", student, strings.Repeat("a", 501), apperrors.ErrValidationFailed},
		{"teacher", teacher, "The canteen closes too early", apperrors.ErrPermissionDenied},
		{"principal", head, "The canteen closes too early", apperrors.ErrPermissionDenied},
		{"student no longer enrolled", auth.Principal{ID: 999, Role: auth.RoleStudent}, "The canteen closes too early", apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Complaint.FileComplaint(f.ctx, tt.caller, dto.CreateComplaintRequest{Complaint: tt.body})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	c, err := f.svc.Complaint.FileComplaint(f.ctx, student, dto.CreateComplaintRequest{Complaint: "  The canteen closes too early  "})
	require.NoError(t, err)
	assert.Equal(t, "The canteen closes too early", c.Body)
	assert.Equal(t, models.ComplaintPending, c.Status)
	assert.Equal(t, student.ID, c.StudentID)
}

func TestComplaintVisibilityAndWorkflow(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	sami := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}
	lale := auth.Principal{ID: f.student("lale", class.ID, models.GenderFemale).ID, Role: auth.RoleStudent}
	teacher := auth.Principal{ID: f.teacher("tara").ID, Role: auth.RoleTeacher}

	file := func(p auth.Principal, body string) *models.Complaint {
		c, err := f.svc.Complaint.FileComplaint(f.ctx, p, dto.CreateComplaintRequest{Complaint: body})
		require.NoError(t, err)
		return c
	}
	first := file(sami, "The library is always closed")
	second := file(sami, "The projector in room 4 is broken")
	laleOwn := file(lale, "Lockers need new padlocks")

	t.Run("principal sees all, newest first", func(t *testing.T) {
		resp, err := f.svc.Complaint.GetComplaints(f.ctx, head, 1, 10)
		require.NoError(t, err)
		require.Len(t, resp.Complaints, 3)
		assert.Equal(t, laleOwn.ID, resp.Complaints[0].ID)
		assert.Equal(t, first.ID, resp.Complaints[2].ID)
	})

	t.Run("student sees own", func(t *testing.T) {
		resp, err := f.svc.Complaint.GetComplaints(f.ctx, sami, 1, 10)
		require.NoError(t, err)
		require.Len(t, resp.Complaints, 2)
		assert.Equal(t, second.ID, resp.Complaints[0].ID)
		assert.Equal(t, int64(2), resp.TotalItems)

		_, err = f.svc.Complaint.GetComplaint(f.ctx, sami, laleOwn.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("teacher sees none", func(t *testing.T) {
		_, err := f.svc.Complaint.GetComplaints(f.ctx, teacher, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("status", func(t *testing.T) {
		_, err := f.svc.Complaint.UpdateComplaintStatus(f.ctx, sami, first.ID, "resolved")
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		_, err = f.svc.Complaint.UpdateComplaintStatus(f.ctx, head, first.ID, "closed")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		_, err = f.svc.Complaint.UpdateComplaintStatus(f.ctx, head, 999, "resolved")
		assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)

		c, err := f.svc.Complaint.UpdateComplaintStatus(f.ctx, head, first.ID, "in-progress")
		require.NoError(t, err)
		assert.Equal(t, models.ComplaintInProgress, c.Status)
	})

	t.Run("delete", func(t *testing.T) {
		err := f.svc.Complaint.DeleteComplaint(f.ctx, lale, first.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		require.NoError(t, f.svc.Complaint.DeleteComplaint(f.ctx, sami, first.ID))
		require.NoError(t, f.svc.Complaint.DeleteComplaint(f.ctx, head, laleOwn.ID))
		_, err = f.svc.Complaint.GetComplaint(f.ctx, head, first.ID)
		assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)
	})
}

func TestComplaintsOutliveClassDeletion(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	sami := auth.Principal{ID: f.student("sami", class.ID, models.GenderMale).ID, Role: auth.RoleStudent}
	c, err := f.svc.Complaint.FileComplaint(f.ctx, sami, dto.CreateComplaintRequest{Complaint: "The heating is broken"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Class.DeleteClass(f.ctx, class.ID))

	got, err := f.svc.Complaint.GetComplaint(f.ctx, head, c.ID)
	require.NoError(t, err)
	assert.Equal(t, sami.ID, got.StudentID)

	_, err = f.svc.Complaint.FileComplaint(f.ctx, sami, dto.CreateComplaintRequest{Complaint: "Another complaint here"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
