package integration

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/invite"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/joshu-sajeev/cookbook/internal/storage/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInviteService(t *testing.T) (*invite.InviteService, context.Context, func(model any) int64) {
	t.Helper()
	db, ctx := setupTestDB(t)
	svc := invite.NewInviteService(postgres.NewInviteRepository(db), time.Hour, time.Hour, nil)
	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	return svc, ctx, count
}

// race runs fn from n goroutines at once and returns the errors they produced.
func race(n int, fn func() error) []error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
		errs  []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := fn()
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func splitOutcomes(t *testing.T, errs []error, wantCode string) int {
	t.Helper()
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var apiErr common.APIError
		require.True(t, errors.As(err, &apiErr), "unexpected error %v", err)
		assert.Equal(t, http.StatusGone, apiErr.Status)
		assert.Equal(t, wantCode, apiErr.Code)
	}
	return succeeded
}

func TestWaitlistInvitation_ConcurrentAccept(t *testing.T) {
	svc, ctx, count := newInviteService(t)

	issued, err := svc.IssueWaitlistInvitation(ctx, "Cook@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", issued.Email)

	errs := race(6, func() error {
		_, err := svc.AcceptWaitlistInvitation(ctx, issued.Token, &dto.AccountAcceptDTO{Password: "correct-horse", Name: "Cook"})
		return err
	})

	assert.Equal(t, 1, splitOutcomes(t, errs, config.TokenStateUsed))
	assert.Equal(t, int64(1), count(&models.User{}))

	status, err := svc.VerifyWaitlistInvitation(ctx, issued.Token)
	assert.Nil(t, status)
	var apiErr common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, config.TokenStateUsed, apiErr.Code)
}

func TestGroupInvitation_ConcurrentAccept(t *testing.T) {
	svc, ctx, count := newInviteService(t)

	group, err := svc.CreateGroup(ctx, "Sunday Dinners", "owner@example.com")
	require.NoError(t, err)

	issued, err := svc.IssueGroupInvitation(ctx, group.ID, "guest@example.com", "owner@example.com", false)
	require.NoError(t, err)

	errs := race(6, func() error {
		_, err := svc.AcceptGroupInvitation(ctx, issued.Token, &dto.GroupAcceptDTO{Name: "Guest"})
		return err
	})

	assert.Equal(t, 1, splitOutcomes(t, errs, config.TokenStateAlreadyAccepted))
	assert.Equal(t, int64(2), count(&models.GroupMember{}), "owner plus one accepted guest")

	_, err = svc.DeclineGroupInvitation(ctx, issued.Token)
	var apiErr common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, config.TokenStateAlreadyAccepted, apiErr.Code)
}

func TestPurchaseActivation_ConcurrentActivate(t *testing.T) {
	svc, ctx, count := newInviteService(t)

	issued, err := svc.IssuePurchaseActivation(ctx, "buyer@example.com", []byte(`{"order_id":"A-1001"}`))
	require.NoError(t, err)

	errs := race(6, func() error {
		_, err := svc.ActivatePurchase(ctx, issued.Token, &dto.AccountAcceptDTO{Password: "correct-horse"})
		return err
	})

	assert.Equal(t, 1, splitOutcomes(t, errs, config.TokenStateUsed))
	assert.Equal(t, int64(1), count(&models.User{}))
	assert.Equal(t, int64(1), count(&models.PurchaseActivation{}))
}
