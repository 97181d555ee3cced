package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/audit"
	"gatekeeper/internal/audit/handler"
	"gatekeeper/internal/domain"
	"gatekeeper/pkg/testutil"
)

func newEventsRouter(t *testing.T, n int) *chi.Mux {
	t.Helper()
	store := audit.NewInMemory()
	base := time.Date(2026, time.August, 31, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, store.Append(context.Background(), domain.AccessEvent{
			UserID:     fmt.Sprintf("user-%d", i%3),
			Result:     domain.ResultAllow,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	router := chi.NewRouter()
	handler.New(store).Register(router)
	return router
}

func listEvents(t *testing.T, router http.Handler, path string) listBody {
	t.Helper()
	rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	return body
}

type listBody struct {
	Events []domain.AccessEvent `json:"events"`
	Count  int                  `json:"count"`
}

func TestListEvents_DefaultLimit(t *testing.T) {
	router := newEventsRouter(t, 250)

	body := listEvents(t, router, "/api/access/events")

	assert.Equal(t, 200, body.Count)
}

func TestListEvents_NewestFirst(t *testing.T) {
	router := newEventsRouter(t, 10)

	body := listEvents(t, router, "/api/access/events?limit=3")

	require.Equal(t, 3, body.Count)
	for i := 1; i < len(body.Events); i++ {
		assert.False(t, body.Events[i].OccurredAt.After(body.Events[i-1].OccurredAt))
	}
}

func TestListEvents_LimitClamping(t *testing.T) {
	router := newEventsRouter(t, 5)

	cases := map[string]int{
		"?limit=0":    1,
		"?limit=-7":   1,
		"?limit=9999": 5, // clamp to 500, only 5 stored
		"?limit=abc":  5, // default 200, only 5 stored
		"?limit=2":    2,
	}
	for query, want := range cases {
		body := listEvents(t, router, "/api/access/events"+query)
		assert.Equal(t, want, body.Count, "query %s", query)
	}
}

func TestListEventsByUser(t *testing.T) {
	router := newEventsRouter(t, 9)

	body := listEvents(t, router, "/api/users/user-1/events")

	require.Equal(t, 3, body.Count)
	for _, ev := range body.Events {
		assert.Equal(t, "user-1", ev.UserID)
	}
}
