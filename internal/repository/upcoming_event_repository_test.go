package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/aylinkal/band-events/internal/model"
)

const listUpcomingAllQuery = "SELECT id, name, description, date, location, image_path, created_at FROM upcoming_events"

func upcomingCols() []string {
	return []string{"id", "name", "description", "date", "location", "image_path", "created_at"}
}

func upcomingOn(name string, date time.Time) model.UpcomingEvent {
	return model.UpcomingEvent{EventInfo: model.EventInfo{Name: name, Date: date, Location: "Club X"}}
}

func TestExpiredBefore(t *testing.T) {
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	events := []model.UpcomingEvent{
		upcomingOn("Gig last month", today.AddDate(0, -1, 0)),
		upcomingOn("Gig yesterday", today.AddDate(0, 0, -1)),
		upcomingOn("Gig today", today),
		upcomingOn("Gig tomorrow", today.AddDate(0, 0, 1)),
	}

	expired := ExpiredBefore(events, today)
	assert.Len(t, expired, 2)
	assert.Equal(t, "Gig last month", expired[0].Name)
	assert.Equal(t, "Gig yesterday", expired[1].Name)
}

func TestExpiredBefore_TodayStaysUpcoming(t *testing.T) {
	// An event dated today is not expired even late in the day: the
	// comparison works on calendar dates, not instants.
	lateToday := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)
	events := []model.UpcomingEvent{
		upcomingOn("Gig tonight", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)),
	}
	assert.Empty(t, ExpiredBefore(events, lateToday))
}

func TestExpiredBefore_NoEvents(t *testing.T) {
	assert.Empty(t, ExpiredBefore(nil, time.Now().UTC()))
}

func TestPromoteElapsed_GigYesterdayBecomesPast(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUpcomingEventRepo(db)

	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	mock.ExpectQuery(listUpcomingAllQuery).
		WillReturnRows(sqlmock.NewRows(upcomingCols()).
			AddRow(5, "Gig yesterday", nil, yesterday, "Club X", nil, today))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT(*) FROM upcoming_event_likes WHERE upcoming_event_id = ?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM upcoming_event_likes WHERE upcoming_event_id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM upcoming_events WHERE id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO past_events (name, description, date, location, image_path) VALUES (?,?,?,?,?)").
		WithArgs("Gig yesterday", nil, yesterday.Format(dateLayout), "Club X", nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	promoted, err := repo.PromoteElapsed(context.Background(), today)
	assert.NoError(t, err)
	assert.Equal(t, 1, promoted)

	// The upcoming row is gone, so running the sweep again touches
	// nothing: exactly one past event ever gets created.
	mock.ExpectQuery(listUpcomingAllQuery).
		WillReturnRows(sqlmock.NewRows(upcomingCols()))

	promoted, err = repo.PromoteElapsed(context.Background(), today)
	assert.NoError(t, err)
	assert.Equal(t, 0, promoted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoteElapsed_LostClaimSkipsInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUpcomingEventRepo(db)

	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	// A concurrent request already deleted the upcoming row between our
	// listing and the claim: zero rows affected means the other request
	// owns the promotion and no second past event is inserted.
	mock.ExpectQuery(listUpcomingAllQuery).
		WillReturnRows(sqlmock.NewRows(upcomingCols()).
			AddRow(5, "Gig yesterday", nil, yesterday, "Club X", nil, today))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT(*) FROM upcoming_event_likes WHERE upcoming_event_id = ?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM upcoming_event_likes WHERE upcoming_event_id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM upcoming_events WHERE id = ?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.PromoteElapsed(context.Background(), today)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
