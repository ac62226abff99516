package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewSyncJob_IsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{SyncJobStatusQueued, false},
		{SyncJobStatusRunning, false},
		{SyncJobStatusSuccess, true},
		{SyncJobStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			j := &ReviewSyncJob{Status: tt.status}
			assert.Equal(t, tt.terminal, j.IsTerminal())
		})
	}
}

func TestReviewSyncJob_Validate(t *testing.T) {
	t.Run("valid job", func(t *testing.T) {
		j := &ReviewSyncJob{SourceID: "src_1", Status: SyncJobStatusQueued}
		assert.NoError(t, j.Validate())
	})

	t.Run("missing source id", func(t *testing.T) {
		j := &ReviewSyncJob{Status: SyncJobStatusQueued}
		assert.Error(t, j.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		j := &ReviewSyncJob{SourceID: "src_1", Status: "paused"}
		assert.Error(t, j.Validate())
	})
}

func TestReview_Validate(t *testing.T) {
	valid := func() *Review {
		return &Review{
			SourceID:    "src_1",
			ExternalID:  "ext_1",
			Rating:      4,
			ReplyStatus: ReplyStatusNone,
		}
	}

	t.Run("valid review", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing source id", func(t *testing.T) {
		r := valid()
		r.SourceID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing external id", func(t *testing.T) {
		r := valid()
		r.ExternalID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("rating out of range", func(t *testing.T) {
		r := valid()
		r.Rating = 0
		assert.Error(t, r.Validate())

		r.Rating = 6
		assert.Error(t, r.Validate())
	})

	t.Run("invalid reply status", func(t *testing.T) {
		r := valid()
		r.ReplyStatus = "pending"
		assert.Error(t, r.Validate())
	})
}
