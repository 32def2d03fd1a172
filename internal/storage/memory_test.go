package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mec-app/mec-backend/internal/models"
)

func newPendingRequest(t *testing.T, store Store) *models.ServiceRequest {
	t.Helper()
	req, err := store.CreateServiceRequest(&models.ServiceRequest{
		UserPhone:   "9000000001",
		UserLat:     12.97,
		UserLng:     77.59,
		Service:     "Flat Tyre",
		VehicleType: "Bike",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, req.Status)
	require.NotEmpty(t, req.RequestID)
	return req
}

func TestUpsertUserByPhoneIdempotent(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.UpsertUserByPhone("9876543210")
	require.NoError(t, err)

	second, err := store.UpsertUserByPhone("9876543210")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsertMechanicByPhoneStartsIncomplete(t *testing.T) {
	store := NewMemoryStore()

	mech, err := store.UpsertMechanicByPhone("9876543210")
	require.NoError(t, err)
	assert.False(t, mech.ProfileDone)
	assert.Equal(t, models.DutyOff, mech.State)

	again, err := store.UpsertMechanicByPhone("9876543210")
	require.NoError(t, err)
	assert.Equal(t, mech.ID, again.ID)
}

func TestUpdateMechanicFields(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.UpsertMechanicByPhone("9876543210")
	require.NoError(t, err)

	mech, err := store.UpdateMechanicFields("9876543210", map[string]interface{}{
		"Name":              "Ravi Kumar",
		"TypeOfService":     "Towing, Battery",
		"state":             models.DutyOn,
		"latitude":          12.97,
		"longitude":         77.59,
		"profile_completed": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", mech.Name)
	assert.Equal(t, "Towing, Battery", mech.TypeOfService)
	assert.Equal(t, models.DutyOn, mech.State)
	assert.True(t, mech.ProfileDone)

	_, err = store.UpdateMechanicFields("0000000000", map[string]interface{}{"Name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOnDutyMechanicsFilters(t *testing.T) {
	store := NewMemoryStore()

	for i, setup := range []map[string]interface{}{
		{"state": models.DutyOn, "profile_completed": true},  // included
		{"state": models.DutyOff, "profile_completed": true}, // off duty
		{"state": models.DutyOn, "profile_completed": false}, // incomplete
	} {
		phone := fmt.Sprintf("900000000%d", i)
		_, err := store.UpsertMechanicByPhone(phone)
		require.NoError(t, err)
		_, err = store.UpdateMechanicFields(phone, setup)
		require.NoError(t, err)
	}

	mechanics, err := store.GetOnDutyMechanics()
	require.NoError(t, err)
	require.Len(t, mechanics, 1)
	assert.Equal(t, "9000000000", mechanics[0].MobileNumber)
}

func TestAcceptServiceRequest(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	lat, lng := 12.98, 77.60
	accepted, err := store.AcceptServiceRequest(req.RequestID, "9111111111", &lat, &lng)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.MechanicPhone)
	assert.Equal(t, "9111111111", *accepted.MechanicPhone)
	assert.NotNil(t, accepted.AcceptedAt)

	// A second accept conflicts.
	_, err = store.AcceptServiceRequest(req.RequestID, "9222222222", nil, nil)
	assert.ErrorIs(t, err, ErrConflict)

	// Unknown request is a distinct failure.
	_, err = store.AcceptServiceRequest("missing", "9111111111", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Two (or fifty) concurrent acceptors: exactly one must win.
func TestAcceptServiceRequestConcurrent(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	const acceptors = 50
	var wg sync.WaitGroup
	results := make(chan error, acceptors)

	for i := 0; i < acceptors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			phone := fmt.Sprintf("91%08d", i)
			_, err := store.AcceptServiceRequest(req.RequestID, phone, nil, nil)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case err == ErrConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, acceptors-1, conflicts)
}

func TestCancelServiceRequest(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	cancelled, err := store.CancelServiceRequest(req.RequestID, "user")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, "user", *cancelled.CancelledBy)

	_, err = store.CancelServiceRequest(req.RequestID, "user")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelAcceptedRequestLeavesMechanicUnchanged(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	_, err := store.AcceptServiceRequest(req.RequestID, "9111111111", nil, nil)
	require.NoError(t, err)

	_, err = store.CancelServiceRequest(req.RequestID, "user")
	assert.ErrorIs(t, err, ErrConflict)

	current, err := store.GetServiceRequest(req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, current.Status)
	require.NotNil(t, current.MechanicPhone)
	assert.Equal(t, "9111111111", *current.MechanicPhone)
}

func TestCompleteServiceRequest(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	// Cannot complete a pending request.
	_, err := store.CompleteServiceRequest(req.RequestID, "9111111111")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = store.AcceptServiceRequest(req.RequestID, "9111111111", nil, nil)
	require.NoError(t, err)

	// Only the accepting mechanic may complete.
	_, err = store.CompleteServiceRequest(req.RequestID, "9222222222")
	assert.ErrorIs(t, err, ErrConflict)

	completed, err := store.CompleteServiceRequest(req.RequestID, "9111111111")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CallCompletedAt)

	// Terminal: no further transitions.
	_, err = store.CancelServiceRequest(req.RequestID, "user")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateRequestLocation(t *testing.T) {
	store := NewMemoryStore()
	req := newPendingRequest(t, store)

	lat, lng := 13.0, 77.6
	updated, err := store.UpdateRequestLocation(req.RequestID, &lat, &lng)
	require.NoError(t, err)
	require.NotNil(t, updated.MechanicLat)
	assert.Equal(t, 13.0, *updated.MechanicLat)

	_, err = store.UpdateRequestLocation("missing", &lat, &lng)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetActiveRequestsForMechanic(t *testing.T) {
	store := NewMemoryStore()

	pending := newPendingRequest(t, store)
	mine := newPendingRequest(t, store)
	other := newPendingRequest(t, store)

	_, err := store.AcceptServiceRequest(mine.RequestID, "9111111111", nil, nil)
	require.NoError(t, err)
	_, err = store.AcceptServiceRequest(other.RequestID, "9222222222", nil, nil)
	require.NoError(t, err)

	active, err := store.GetActiveRequestsForMechanic("9111111111")
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, r := range active {
		ids[r.RequestID] = true
	}
	// All pending work plus only my accepted job.
	assert.True(t, ids[pending.RequestID])
	assert.True(t, ids[mine.RequestID])
	assert.False(t, ids[other.RequestID])
}

func TestRequestHistoriesNewestFirst(t *testing.T) {
	store := NewMemoryStore()

	var created []*models.ServiceRequest
	for i := 0; i < 3; i++ {
		req := newPendingRequest(t, store)
		created = append(created, req)
		time.Sleep(2 * time.Millisecond)
	}

	history, err := store.GetRequestsByUserPhone("9000000001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, created[2].RequestID, history[0].RequestID)
	assert.Equal(t, created[0].RequestID, history[2].RequestID)

	_, err = store.AcceptServiceRequest(created[0].RequestID, "9111111111", nil, nil)
	require.NoError(t, err)

	mechHistory, err := store.GetRequestsByMechanicPhone("9111111111")
	require.NoError(t, err)
	require.Len(t, mechHistory, 1)
	assert.Equal(t, created[0].RequestID, mechHistory[0].RequestID)
}
